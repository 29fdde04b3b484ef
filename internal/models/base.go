package models

import "time"

// Base contains the common columns of ledger tables. Ids are integers so
// operators can refer to rows by a short number.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Day truncates t to midnight UTC. All ledger dates are stored this way.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Transaction{},
		&Security{},
		&StockPrice{},
		&Split{},
		&Dividend{},
		&PerformanceRow{},
		&Category{},
		&SubCategory{},
		&RawOperation{},
		&CategorizedOperation{},
		&RunLog{},
	}
}
