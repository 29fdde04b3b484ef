package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a top-level spending/income label.
type Category struct {
	Base
	Name          string        `gorm:"size:100;not null;uniqueIndex" json:"name"`
	SubCategories []SubCategory `gorm:"constraint:OnDelete:CASCADE" json:"sub_categories,omitempty"`
}

// SubCategory is a label under a Category. Names are unique per category only.
type SubCategory struct {
	Base
	CategoryID uint   `gorm:"not null;uniqueIndex:idx_sub_category_name" json:"category_id"`
	Name       string `gorm:"size:100;not null;uniqueIndex:idx_sub_category_name" json:"name"`
}

// RawOperation is a bank statement line awaiting categorization. It never
// stores its category: Processed is derived from the link table on read.
type RawOperation struct {
	Base
	OperationDate time.Time       `gorm:"not null;index" json:"operation_date"`
	ShortLabel    string          `json:"short_label"`
	OperationType string          `json:"operation_type"`
	FullLabel     string          `json:"full_label"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Processed     bool            `gorm:"-" json:"processed"`
}

// SameAs reports whether two raw operations describe the same statement line.
func (r *RawOperation) SameAs(o *RawOperation) bool {
	return Day(r.OperationDate).Equal(Day(o.OperationDate)) &&
		r.ShortLabel == o.ShortLabel &&
		r.OperationType == o.OperationType &&
		r.FullLabel == o.FullLabel &&
		r.Amount.Equal(o.Amount)
}

// CategorizedOperation links a raw operation to exactly one
// (category, sub-category) pair.
type CategorizedOperation struct {
	Base
	RawOperationID uint         `gorm:"not null;uniqueIndex" json:"raw_operation_id"`
	CategoryID     uint         `gorm:"not null;index" json:"category_id"`
	SubCategoryID  uint         `gorm:"not null;index" json:"sub_category_id"`
	RawOperation   RawOperation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category       Category     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubCategory    SubCategory  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
