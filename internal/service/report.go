package service

//go:generate mockgen -source=report.go -destination=mocks/mock_report.go -package=mocks

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/config"
	"github.com/shenikar/jalanguard/internal/detection"
	"github.com/shenikar/jalanguard/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	MaxPageSize          = 100
	MaxDescriptionLength = 1000
)

// ReportRepository определяет контракт для работы с бд заявок
type ReportRepository interface {
	// Create сохраняет заявку вместе с фото в одной транзакции
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter, limit, offset int) ([]*models.Report, error)
	Count(ctx context.Context, filter models.ReportFilter) (int, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportService определяет контракт бизнес-логики заявок
type ReportService interface {
	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, filter models.ReportFilter, page, pageSize int) (*models.ReportPage, error)
	ListUserReports(ctx context.Context, userID uuid.UUID, page, pageSize int) (*models.ReportPage, error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	UpdateReport(ctx context.Context, id, callerID uuid.UUID, patch models.ReportPatch) (*models.Report, error)
	DeleteReport(ctx context.Context, id, callerID uuid.UUID) error
}

type reportService struct {
	repo      ReportRepository
	publisher detection.Publisher
	logger    *logrus.Logger
	cfg       *config.Config
	now       func() time.Time
}

func NewReportService(repo ReportRepository, publisher detection.Publisher, logger *logrus.Logger, cfg *config.Config) ReportService {
	return &reportService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateReport создает заявку со статусом pending от имени report.UserID
func (s *reportService) CreateReport(ctx context.Context, report *models.Report) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "report",
		"method":   "CreateReport",
		"user_id":  report.UserID,
		"category": report.Category,
	})
	log.Info("Attempting to create a new report")

	if len(report.Images) == 0 {
		return fmt.Errorf("service: report must contain at least one image: %w", ErrInvalidInput)
	}
	if !report.Category.Valid() {
		return fmt.Errorf("service: unknown category %q: %w", report.Category, ErrInvalidInput)
	}

	report.Status = models.StatusPending
	report.ResolvedAt = nil
	if err := s.repo.Create(ctx, report); err != nil {
		log.WithError(err).Error("Failed to create report in repository")
		return fmt.Errorf("service: could not create report: %w", err)
	}
	log = log.WithField("report_id", report.ID)
	log.Info("Report created successfully")

	// Детекция выполняется внешним сервисом; сбой постановки задачи не отменяет заявку
	job := detection.Job{
		ReportID:            report.ID,
		ImageURIs:           make([]string, 0, len(report.Images)),
		ModelPath:           s.cfg.YOLOModelPath,
		ConfidenceThreshold: s.cfg.ConfidenceThreshold,
		RequestedAt:         s.now().UTC(),
	}
	for _, img := range report.Images {
		job.ImageURIs = append(job.ImageURIs, img.URI)
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		log.WithError(err).Warn("Failed to publish detection job")
	}
	return nil
}

// ListReports возвращает страницу заявок, отсортированных по дате создания (сначала новые)
func (s *reportService) ListReports(ctx context.Context, filter models.ReportFilter, page, pageSize int) (*models.ReportPage, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "ListReports",
		"page":      page,
		"page_size": pageSize,
	})
	if filter.UserID != nil {
		log = log.WithField("user_id", *filter.UserID)
	}

	if page < 1 {
		return nil, fmt.Errorf("service: page must be >= 1: %w", ErrInvalidInput)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, fmt.Errorf("service: page_size must be between 1 and %d: %w", MaxPageSize, ErrInvalidInput)
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("service: unknown status %q: %w", *filter.Status, ErrInvalidInput)
	}
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, fmt.Errorf("service: unknown category %q: %w", *filter.Category, ErrInvalidInput)
	}
	log.Info("Listing reports")

	var (
		total   int
		reports []*models.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		reports, err = s.repo.List(gctx, filter, pageSize, (page-1)*pageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to list reports from repository")
		return nil, fmt.Errorf("service: could not list reports: %w", err)
	}

	log.WithFields(logrus.Fields{"count": len(reports), "total": total}).Info("Reports listed successfully")
	return &models.ReportPage{
		Reports:    reports,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// ListUserReports возвращает заявки конкретного пользователя
func (s *reportService) ListUserReports(ctx context.Context, userID uuid.UUID, page, pageSize int) (*models.ReportPage, error) {
	return s.ListReports(ctx, models.ReportFilter{UserID: &userID}, page, pageSize)
}

// GetReport получает заявку по ID
func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "GetReport",
		"report_id": id,
	})
	log.Info("Fetching report by ID")

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get report in repository")
		return nil, fmt.Errorf("service: could not get report: %w", err)
	}
	return report, nil
}

// UpdateReport частично обновляет заявку.
// Описание меняет только автор. Статус по умолчанию может менять любой
// авторизованный пользователь, REPORT_STATUS_OWNER_ONLY ограничивает это автором.
func (s *reportService) UpdateReport(ctx context.Context, id, callerID uuid.UUID, patch models.ReportPatch) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "UpdateReport",
		"report_id": id,
		"caller_id": callerID,
	})
	log.Info("Attempting to update report")

	if patch.Status.Set && (patch.Status.Null || !patch.Status.Value.Valid()) {
		return nil, fmt.Errorf("service: invalid status: %w", ErrInvalidInput)
	}
	if patch.Description.Present() && utf8.RuneCountInString(patch.Description.Value) > MaxDescriptionLength {
		return nil, fmt.Errorf("service: description is longer than %d characters: %w", MaxDescriptionLength, ErrInvalidInput)
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent report")
		return nil, fmt.Errorf("service: report with id %s not found for update: %w", id, err)
	}

	owner := report.IsOwnedBy(callerID)
	if patch.Description.Set && !owner {
		log.Warn("Non-owner attempted to change report description")
		return nil, fmt.Errorf("service: not authorized to update this report: %w", ErrForbidden)
	}
	if patch.Status.Set && !owner {
		if s.cfg.StatusUpdateOwnerOnly {
			log.Warn("Non-owner attempted to change report status")
			return nil, fmt.Errorf("service: not authorized to update this report: %w", ErrForbidden)
		}
		log.WithField("status", patch.Status.Value).Warn("Report status changed by a non-owner")
	}

	if patch.IsEmpty() {
		return report, nil
	}

	if patch.Description.Set {
		report.Description = patch.Description.Ptr()
	}
	if patch.Status.Set {
		previous := report.Status
		report.Status = patch.Status.Value
		switch {
		case report.Status == models.StatusResolved && previous != models.StatusResolved:
			resolvedAt := s.now().UTC()
			report.ResolvedAt = &resolvedAt
		case report.Status != models.StatusResolved:
			report.ResolvedAt = nil
		}
	}

	if err := s.repo.Update(ctx, report); err != nil {
		log.WithError(err).Error("Failed to update report in repository")
		return nil, fmt.Errorf("service: could not update report: %w", err)
	}

	log.Info("Report updated successfully")
	return report, nil
}

// DeleteReport удаляет заявку вместе с фото; доступно только автору
func (s *reportService) DeleteReport(ctx context.Context, id, callerID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "DeleteReport",
		"report_id": id,
		"caller_id": callerID,
	})
	log.Info("Attempting to delete report")

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to delete a non-existent report")
		return fmt.Errorf("service: report with id %s not found for delete: %w", id, err)
	}
	if !report.IsOwnedBy(callerID) {
		log.Warn("Non-owner attempted to delete report")
		return fmt.Errorf("service: not authorized to delete this report: %w", ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete report in repository")
		return fmt.Errorf("service: could not delete report: %w", err)
	}

	log.Info("Report deleted successfully")
	return nil
}
