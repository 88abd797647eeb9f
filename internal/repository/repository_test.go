package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/jalanguard/internal/models"
	"github.com/shenikar/jalanguard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool подключается к тестовой бд из TEST_DATABASE_URL и накатывает миграции.
// Без переменной интеграционные тесты пропускаются.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	m, err := migrate.New("file://../../migrations", strings.Replace(dsn, "postgres://", "pgx5://", 1))
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createTestUser(t *testing.T, repo service.UserRepository) *models.User {
	t.Helper()
	user := &models.User{
		Email:          strings.ToLower(faker.Email()),
		HashedPassword: "hash",
		FirstName:      faker.FirstName(),
		LastName:       faker.LastName(),
		IsActive:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), user.ID) })
	return user
}

// testImageURIs намеренно не отсортированы, чтобы проверять сохранение порядка
var testImageURIs = []string{"/uploads/c.jpg", "/uploads/a.jpg", "/uploads/b.jpg"}

func createTestReport(t *testing.T, repo service.ReportRepository, userID uuid.UUID, category models.DefectCategory) *models.Report {
	t.Helper()
	report := &models.Report{
		UserID:    userID,
		Category:  category,
		Latitude:  3.139,
		Longitude: 101.6869,
		Status:    models.StatusPending,
	}
	for _, uri := range testImageURIs {
		report.Images = append(report.Images, &models.ReportImage{URI: uri})
	}
	require.NoError(t, repo.Create(context.Background(), report))
	return report
}

func TestBuildFilter(t *testing.T) {
	status := models.StatusResolved
	category := models.CategoryCrack
	userID := uuid.New()

	where, args := buildFilter(models.ReportFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildFilter(models.ReportFilter{Status: &status, Category: &category, UserID: &userID})
	assert.Equal(t, " WHERE status = $1 AND category = $2 AND user_id = $3", where)
	assert.Equal(t, []any{status, category, userID}, args)

	where, args = buildFilter(models.ReportFilter{UserID: &userID})
	assert.Equal(t, " WHERE user_id = $1", where)
	assert.Equal(t, []any{userID}, args)
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := createTestUser(t, repo)
	assert.NotEqual(t, uuid.Nil, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)

	user := createTestUser(t, repo)
	duplicate := &models.User{Email: user.Email, HashedPassword: "hash", FirstName: "A", LastName: "B", IsActive: true}

	err := repo.Create(context.Background(), duplicate)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestUserRepository_Update(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	user := createTestUser(t, repo)
	phone := "+60123456789"
	user.FirstName = "Updated"
	user.PhoneNumber = &phone
	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", stored.FirstName)
	require.NotNil(t, stored.PhoneNumber)
	assert.Equal(t, phone, *stored.PhoneNumber)
}

func TestReportRepository_CreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	repo := NewReportRepository(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	report := createTestReport(t, repo, user.ID, models.CategoryPothole)

	stored, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Nil(t, stored.DetectionResult)
	require.Len(t, stored.Images, len(testImageURIs))
	for i, img := range stored.Images {
		assert.Equal(t, report.ID, img.ReportID)
		assert.Equal(t, testImageURIs[i], img.URI)
	}
}

func TestReportRepository_Delete(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	repo := NewReportRepository(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	report := createTestReport(t, repo, user.ID, models.CategorySignage)
	kept := createTestReport(t, repo, user.ID, models.CategoryLighting)

	countImages := func(reportID uuid.UUID) int {
		var n int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM report_images WHERE report_id = $1`, reportID).Scan(&n))
		return n
	}
	require.Equal(t, len(testImageURIs), countImages(report.ID))

	require.NoError(t, repo.Delete(ctx, report.ID))

	_, err := repo.GetByID(ctx, report.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Zero(t, countImages(report.ID))
	assert.Equal(t, len(testImageURIs), countImages(kept.ID))

	assert.ErrorIs(t, repo.Delete(ctx, report.ID), service.ErrNotFound)
}

func TestReportRepository_ListAndCount(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	repo := NewReportRepository(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	first := createTestReport(t, repo, user.ID, models.CategoryPothole)
	second := createTestReport(t, repo, user.ID, models.CategoryCrack)
	filter := models.ReportFilter{UserID: &user.ID}

	total, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	reports, err := repo.List(ctx, filter, 10, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	// Сначала новые
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
	require.Len(t, reports[0].Images, len(testImageURIs))
	assert.Equal(t, testImageURIs[2], reports[0].Images[2].URI)

	category := models.CategoryCrack
	filter.Category = &category
	reports, err = repo.List(ctx, filter, 10, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, second.ID, reports[0].ID)
}

func TestReportRepository_Update(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	repo := NewReportRepository(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	report := createTestReport(t, repo, user.ID, models.CategoryDrainage)
	severity := models.SeverityHigh
	report.Status = models.StatusInProgress
	report.Severity = &severity
	report.DetectionResult = &models.DetectionResult{DefectType: "pothole", Confidence: 0.87}
	require.NoError(t, repo.Update(ctx, report))

	stored, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, stored.Status)
	require.NotNil(t, stored.Severity)
	assert.Equal(t, models.SeverityHigh, *stored.Severity)
	require.NotNil(t, stored.DetectionResult)
	assert.Equal(t, "pothole", stored.DetectionResult.DefectType)
}

func TestUserDelete_CascadesToReports(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	repo := NewReportRepository(pool)
	ctx := context.Background()

	user := createTestUser(t, users)
	report := createTestReport(t, repo, user.ID, models.CategoryOther)

	require.NoError(t, users.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, report.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var images int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM report_images WHERE report_id = $1`, report.ID).Scan(&images))
	assert.Zero(t, images)

	assert.ErrorIs(t, users.Delete(ctx, user.ID), service.ErrNotFound)
}
