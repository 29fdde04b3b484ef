package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ledgerly/internal/config"
	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/logger"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
)

// RawOperationInput is one bank statement line as submitted for import.
type RawOperationInput struct {
	OperationDate string          `json:"operation_date" binding:"required"`
	ShortLabel    string          `json:"short_label"`
	OperationType string          `json:"operation_type"`
	FullLabel     string          `json:"full_label"`
	Amount        decimal.Decimal `json:"amount"`
}

// ImportResult summarizes a raw operation import.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// ReconcileResult counts what a reconciliation changed.
type ReconcileResult struct {
	CategoriesCreated    int   `json:"categories_created"`
	SubCategoriesCreated int   `json:"sub_categories_created"`
	CategoriesDeleted    int   `json:"categories_deleted"`
	SubCategoriesDeleted int   `json:"sub_categories_deleted"`
	LinksRemoved         int64 `json:"links_removed"`
}

// CategorizedOperationView is a categorized raw operation with its labels resolved.
type CategorizedOperationView struct {
	RawOperationID uint            `json:"raw_operation_id"`
	OperationDate  time.Time       `json:"operation_date"`
	ShortLabel     string          `json:"short_label"`
	OperationType  string          `json:"operation_type"`
	FullLabel      string          `json:"full_label"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	SubCategory    string          `json:"sub_category"`
}

// categorizationService maintains the link table between raw operations
// and categories. A raw operation is processed exactly when a link exists.
type categorizationService struct {
	db   *gorm.DB
	runs RunLogServicer
}

// NewCategorizationService creates a new CategorizationServicer.
func NewCategorizationService(db *gorm.DB, runs RunLogServicer) CategorizationServicer {
	return &categorizationService{db: db, runs: runs}
}

// deleteSubCategoryTx removes a sub-category and every link pointing at it.
func deleteSubCategoryTx(tx *gorm.DB, subID uint) (int64, error) {
	res := tx.Where("sub_category_id = ?", subID).Delete(&models.CategorizedOperation{})
	if res.Error != nil {
		return 0, res.Error
	}
	if err := tx.Delete(&models.SubCategory{}, subID).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// deleteCategoryTx removes a category, its sub-categories and every link
// pointing at any of them.
func deleteCategoryTx(tx *gorm.DB, catID uint) (int64, error) {
	res := tx.Where("category_id = ?", catID).Delete(&models.CategorizedOperation{})
	if res.Error != nil {
		return 0, res.Error
	}
	if err := tx.Where("category_id = ?", catID).Delete(&models.SubCategory{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Delete(&models.Category{}, catID).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// Reconcile converges the stored labels onto the allowed set in a single
// transaction. Labels that are no longer allowed are deleted together with
// their links, so the operations they categorized become unprocessed again;
// allowed labels that are missing are created.
func (s *categorizationService) Reconcile(labels config.LabelSet) (*ReconcileResult, error) {
	started := time.Now()
	result := &ReconcileResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Category
		if err := tx.Preload("SubCategories").Find(&existing).Error; err != nil {
			return err
		}

		for _, cat := range existing {
			if !labels.Allows(cat.Name, "") {
				n, err := deleteCategoryTx(tx, cat.ID)
				if err != nil {
					return err
				}
				result.CategoriesDeleted++
				result.LinksRemoved += n
				continue
			}
			for _, sub := range cat.SubCategories {
				if labels.Allows(cat.Name, sub.Name) {
					continue
				}
				n, err := deleteSubCategoryTx(tx, sub.ID)
				if err != nil {
					return err
				}
				result.SubCategoriesDeleted++
				result.LinksRemoved += n
			}
		}

		for _, label := range labels.Categories {
			var cat models.Category
			res := tx.Where("name = ?", label.Name).Limit(1).Find(&cat)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				cat = models.Category{Name: label.Name}
				if err := tx.Create(&cat).Error; err != nil {
					return err
				}
				result.CategoriesCreated++
			}
			for _, name := range label.SubCategories {
				var sub models.SubCategory
				res := tx.Where("category_id = ? AND name = ?", cat.ID, name).Limit(1).Find(&sub)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected > 0 {
					continue
				}
				sub = models.SubCategory{CategoryID: cat.ID, Name: name}
				if err := tx.Create(&sub).Error; err != nil {
					return err
				}
				result.SubCategoriesCreated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if result.CategoriesDeleted > 0 || result.SubCategoriesDeleted > 0 {
		logger.Get().Infow("removed labels absent from configuration",
			"categories", result.CategoriesDeleted,
			"sub_categories", result.SubCategoriesDeleted,
			"links", result.LinksRemoved,
		)
	}
	s.runs.Record(models.RunReconcile, started, RunCounts{
		Inserted: result.CategoriesCreated + result.SubCategoriesCreated,
		Skipped:  int(result.LinksRemoved),
	}, result)

	return result, nil
}

// ListCategories returns every category with its sub-categories, by name.
func (s *categorizationService) ListCategories() ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").Find(&cats).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cats, nil
}

func (s *categorizationService) findCategory(tx *gorm.DB, name string) (*models.Category, error) {
	var cat models.Category
	if err := tx.Where("name = ?", name).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "category "+name+" not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cat, nil
}

func (s *categorizationService) findSubCategory(tx *gorm.DB, cat *models.Category, name string) (*models.SubCategory, error) {
	var sub models.SubCategory
	if err := tx.Where("category_id = ? AND name = ?", cat.ID, name).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrSubCategoryNotFound,
				fmt.Sprintf("sub-category %s not found under %s", name, cat.Name))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// DeleteCategory removes a category with its sub-categories and links
// atomically, returning how many operations became unprocessed.
func (s *categorizationService) DeleteCategory(name string) (int64, error) {
	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cat, err := s.findCategory(tx, name)
		if err != nil {
			return err
		}
		removed, err = deleteCategoryTx(tx, cat.ID)
		return err
	})
	if err != nil {
		return 0, wrapInternal(err)
	}
	return removed, nil
}

// DeleteSubCategory removes a sub-category and its links atomically.
func (s *categorizationService) DeleteSubCategory(category, subCategory string) (int64, error) {
	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cat, err := s.findCategory(tx, category)
		if err != nil {
			return err
		}
		sub, err := s.findSubCategory(tx, cat, subCategory)
		if err != nil {
			return err
		}
		removed, err = deleteSubCategoryTx(tx, sub.ID)
		return err
	})
	if err != nil {
		return 0, wrapInternal(err)
	}
	return removed, nil
}

// AddRawOperations imports statement lines. Identical lines are legitimate
// (two equal card payments on one day), so an input line is skipped only
// as many times as an identical line is already stored.
func (s *categorizationService) AddRawOperations(inputs []RawOperationInput) (*ImportResult, error) {
	started := time.Now()
	result := &ImportResult{}

	ops := make([]models.RawOperation, 0, len(inputs))
	for i, in := range inputs {
		d, err := parseDate(in.OperationDate)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("row %d: invalid operation_date %s", i, in.OperationDate))
		}
		ops = append(ops, models.RawOperation{
			OperationDate: models.Day(d),
			ShortLabel:    strings.TrimSpace(in.ShortLabel),
			OperationType: strings.TrimSpace(in.OperationType),
			FullLabel:     strings.TrimSpace(in.FullLabel),
			Amount:        in.Amount.Round(2),
		})
	}

	// Group identical lines, keeping first-seen order.
	type group struct {
		op    models.RawOperation
		count int
	}
	var groups []*group
	for _, op := range ops {
		found := false
		for _, g := range groups {
			if g.op.SameAs(&op) {
				g.count++
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, &group{op: op, count: 1})
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, g := range groups {
			var stored int64
			if err := tx.Model(&models.RawOperation{}).
				Where("operation_date = ? AND short_label = ? AND operation_type = ? AND full_label = ? AND amount = ?",
					g.op.OperationDate, g.op.ShortLabel, g.op.OperationType, g.op.FullLabel, g.op.Amount).
				Count(&stored).Error; err != nil {
				return err
			}
			missing := g.count - int(stored)
			if missing <= 0 {
				result.Skipped += g.count
				continue
			}
			result.Skipped += g.count - missing
			for i := 0; i < missing; i++ {
				op := g.op
				if err := tx.Create(&op).Error; err != nil {
					return err
				}
				result.Inserted++
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.runs.Record(models.RunImportRaw, started, RunCounts{
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
	}, nil)
	return result, nil
}

// GetRawOperation returns one raw operation with its processed flag derived
// from the link table.
func (s *categorizationService) GetRawOperation(id uint) (*models.RawOperation, error) {
	var op models.RawOperation
	if err := s.db.First(&op, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRawOperationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	processed, err := s.IsProcessed(id)
	if err != nil {
		return nil, err
	}
	op.Processed = processed
	return &op, nil
}

// ListUnprocessed returns raw operations without a link, oldest first.
func (s *categorizationService) ListUnprocessed(page pagination.PageRequest) (*pagination.PageResponse[models.RawOperation], error) {
	page.Defaults()

	base := s.db.Model(&models.RawOperation{}).
		Where("NOT EXISTS (SELECT 1 FROM categorized_operations co WHERE co.raw_operation_id = raw_operations.id)")

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var ops []models.RawOperation
	if err := base.Order("operation_date ASC, id ASC").Scopes(pagination.Paginate(page)).Find(&ops).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(ops, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// IsProcessed reports whether a link exists for the raw operation.
func (s *categorizationService) IsProcessed(rawID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.CategorizedOperation{}).
		Where("raw_operation_id = ?", rawID).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// Link categorizes a raw operation. Categorizing an operation twice is a
// caller bug and fails with ErrAlreadyLinked.
func (s *categorizationService) Link(rawID uint, category, subCategory string) (*models.CategorizedOperation, error) {
	var link *models.CategorizedOperation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var raw models.RawOperation
		if err := tx.First(&raw, rawID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRawOperationNotFound
			}
			return err
		}
		cat, err := s.findCategory(tx, category)
		if err != nil {
			return err
		}
		sub, err := s.findSubCategory(tx, cat, subCategory)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.CategorizedOperation{}).
			Where("raw_operation_id = ?", rawID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrAlreadyLinked
		}

		link = &models.CategorizedOperation{
			RawOperationID: rawID,
			CategoryID:     cat.ID,
			SubCategoryID:  sub.ID,
		}
		if err := tx.Omit("RawOperation", "Category", "SubCategory").Create(link).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.ErrAlreadyLinked
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err)
	}
	return link, nil
}

// Unlink removes the categorization of a raw operation, making it
// unprocessed again.
func (s *categorizationService) Unlink(rawID uint) error {
	return wrapInternal(s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("raw_operation_id = ?", rawID).Delete(&models.CategorizedOperation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		var raw int64
		if err := tx.Model(&models.RawOperation{}).Where("id = ?", rawID).Count(&raw).Error; err != nil {
			return err
		}
		if raw == 0 {
			return apperrors.ErrRawOperationNotFound
		}
		return apperrors.ErrNotLinked
	}))
}

// GetCategorizedOperations returns categorized operations with resolved
// labels, optionally restricted to one calendar year.
func (s *categorizationService) GetCategorizedOperations(year *int) ([]CategorizedOperationView, error) {
	q := s.db.Table("categorized_operations AS co").
		Select("r.id AS raw_operation_id, r.operation_date, r.short_label, r.operation_type, r.full_label, r.amount, " +
			"c.name AS category, s.name AS sub_category").
		Joins("JOIN raw_operations r ON r.id = co.raw_operation_id").
		Joins("JOIN categories c ON c.id = co.category_id").
		Joins("JOIN sub_categories s ON s.id = co.sub_category_id")
	if year != nil {
		from := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("r.operation_date >= ? AND r.operation_date < ?", from, from.AddDate(1, 0, 0))
	}

	var views []CategorizedOperationView
	if err := q.Order("r.operation_date ASC, r.id ASC").Scan(&views).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if views == nil {
		views = []CategorizedOperationView{}
	}
	return views, nil
}

// wrapInternal passes *AppError through and wraps anything else.
func wrapInternal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// isUniqueConstraintError checks if a database error is a unique constraint violation.
// Works for both SQLite ("UNIQUE constraint failed") and PostgreSQL ("duplicate key value violates unique constraint").
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
