package services

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/logger"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
)

// runLogService records pipeline runs.
type runLogService struct {
	db      *gorm.DB
	nowFunc func() time.Time
}

// NewRunLogService creates a new RunLogServicer.
func NewRunLogService(db *gorm.DB) RunLogServicer {
	return &runLogService{db: db, nowFunc: time.Now}
}

// Record stores one run. Errors are logged but never propagate
// so a bookkeeping failure cannot fail the run itself.
func (s *runLogService) Record(kind models.RunKind, startedAt time.Time, counts RunCounts, details any) {
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Get().Errorw("failed to marshal run details", "error", err, "kind", kind)
			detailsJSON = "{}"
		} else {
			detailsJSON = string(data)
		}
	}

	entry := &models.RunLog{
		Kind:       kind,
		StartedAt:  startedAt.UTC(),
		FinishedAt: s.nowFunc().UTC(),
		Inserted:   counts.Inserted,
		Skipped:    counts.Skipped,
		Failed:     counts.Failed,
		Details:    detailsJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create run log entry",
			"error", err,
			"kind", kind,
			"inserted", counts.Inserted,
			"skipped", counts.Skipped,
			"failed", counts.Failed,
		)
	}
}

// List returns the most recent runs first.
func (s *runLogService) List(page pagination.PageRequest, kind *models.RunKind) (*pagination.PageResponse[models.RunLog], error) {
	page.Defaults()

	base := s.db.Model(&models.RunLog{})
	if kind != nil {
		base = base.Where("kind = ?", *kind)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var runs []models.RunLog
	if err := base.Order("started_at DESC").Scopes(pagination.Paginate(page)).Find(&runs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(runs, page.Page, page.PageSize, totalItems)
	return &resp, nil
}
