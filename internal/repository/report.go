package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/jalanguard/internal/models"
	"github.com/shenikar/jalanguard/internal/service"
)

const reportColumns = `
	id,
	user_id,
	category,
	description,
	latitude,
	longitude,
	address,
	status,
	severity,
	ai_detection_result,
	created_at,
	updated_at,
	resolved_at`

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) service.ReportRepository {
	return &ReportRepository{db: db}
}

func scanReport(row pgx.Row) (*models.Report, error) {
	report := &models.Report{}
	err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.Category,
		&report.Description,
		&report.Latitude,
		&report.Longitude,
		&report.Address,
		&report.Status,
		&report.Severity,
		&report.DetectionResult,
		&report.CreatedAt,
		&report.UpdatedAt,
		&report.ResolvedAt,
	)
	return report, err
}

// Create сохраняет заявку и ее фото в одной транзакции
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO reports (user_id, category, description, latitude, longitude, address, status, severity, ai_detection_result)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at;
		`
		err := tx.QueryRow(ctx, query,
			report.UserID,
			report.Category,
			report.Description,
			report.Latitude,
			report.Longitude,
			report.Address,
			report.Status,
			report.Severity,
			report.DetectionResult,
		).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}

		imageQuery := `
			INSERT INTO report_images (report_id, image_url, thumbnail_url, position)
			VALUES ($1, $2, $3, $4) RETURNING id, created_at;
		`
		// Все фото получают одно время транзакции, порядок хранится в position
		for i, img := range report.Images {
			img.ReportID = report.ID
			if err := tx.QueryRow(ctx, imageQuery, img.ReportID, img.URI, img.ThumbnailURI, i).Scan(&img.ID, &img.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert report image: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID возвращает заявку вместе с фото
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1;`
	report, err := scanReport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report with id %s not found: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}

	if err := r.attachImages(ctx, []*models.Report{report}); err != nil {
		return nil, err
	}
	return report, nil
}

// buildFilter собирает условие WHERE; номера параметров начинаются с 1
func buildFilter(filter models.ReportFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List возвращает заявки с пагинацией, сначала новые
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter, limit, offset int) ([]*models.Report, error) {
	where, args := buildFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM reports%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d;`,
		reportColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}

	if err := r.attachImages(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Count возвращает количество заявок, подходящих под фильтр
func (r *ReportRepository) Count(ctx context.Context, filter models.ReportFilter) (int, error) {
	where, args := buildFilter(filter)
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports`+where+`;`, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// attachImages загружает фото для всех заявок одним запросом
func (r *ReportRepository) attachImages(ctx context.Context, reports []*models.Report) error {
	if len(reports) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Report, len(reports))
	ids := make([]string, 0, len(reports))
	for _, report := range reports {
		report.Images = make([]*models.ReportImage, 0)
		byID[report.ID] = report
		ids = append(ids, report.ID.String())
	}

	query := `
		SELECT id, report_id, image_url, thumbnail_url, created_at
		FROM report_images
		WHERE report_id = ANY($1::uuid[])
		ORDER BY report_id, position;
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load report images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		img := &models.ReportImage{}
		if err := rows.Scan(&img.ID, &img.ReportID, &img.URI, &img.ThumbnailURI, &img.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan report image row: %w", err)
		}
		if report, ok := byID[img.ReportID]; ok {
			report.Images = append(report.Images, img)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error image iteration: %w", err)
	}
	return nil
}

// Update сохраняет изменяемые поля заявки
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	query := `
		UPDATE reports SET
			description = $1,
			status = $2,
			severity = $3,
			ai_detection_result = $4,
			resolved_at = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		report.Description,
		report.Status,
		report.Severity,
		report.DetectionResult,
		report.ResolvedAt,
		report.ID,
	).Scan(&report.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("report with id %s not found for update: %w", report.ID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

// Delete удаляет заявку; фото удаляются каскадом
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("report with id %s not found for delete: %w", id, service.ErrNotFound)
	}
	return nil
}
