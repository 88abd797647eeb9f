package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/auth"
	"github.com/shenikar/jalanguard/internal/config"
	"github.com/shenikar/jalanguard/internal/models"
	"github.com/shenikar/jalanguard/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func newTestCredentials(t *testing.T) *auth.Manager {
	t.Helper()
	manager, err := auth.NewManager(&config.Config{
		AppName:         "JalanGuard API",
		SecretKey:       "test-secret",
		Algorithm:       "HS256",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return manager.WithBcryptCost(bcrypt.MinCost)
}

// newTestAuthService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestAuthService(t *testing.T) (*authService, *mocks.MockUserRepository, *auth.Manager) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	credentials := newTestCredentials(t)

	svc := NewAuthService(repoMock, credentials, newTestLogger())
	return svc.(*authService), repoMock, credentials
}

func fakeRegisterInput() models.RegisterInput {
	return models.RegisterInput{
		Email:     faker.Email(),
		Password:  faker.Password(),
		FirstName: faker.FirstName(),
		LastName:  faker.LastName(),
	}
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, credentials := newTestAuthService(t)
	ctx := context.Background()
	input := fakeRegisterInput()
	input.Email = "  " + strings.ToUpper(input.Email) + " "
	userID := uuid.New()

	// Ожидания
	repoMock.EXPECT().
		GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email))).
		Return(nil, ErrNotFound).
		Times(1)
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User) error {
			assert.NotEqual(t, input.Password, user.HashedPassword)
			assert.True(t, credentials.VerifyPassword(input.Password, user.HashedPassword))
			assert.True(t, user.IsActive)
			// Симулируем, что БД присвоила ID
			user.ID = userID
			return nil
		}).Times(1)

	// Действие
	result, err := svc.Register(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, userID, result.User.ID)
	assert.Equal(t, strings.ToLower(strings.TrimSpace(input.Email)), result.User.Email)
	assert.Equal(t, "bearer", result.Tokens.TokenType)
	assert.Equal(t, 1800, result.Tokens.ExpiresIn)

	decoded, err := credentials.DecodeAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, decoded)

	claims, err := credentials.DecodeToken(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeRefresh, claims.Type)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestRegister_EmailTaken(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestAuthService(t)
	ctx := context.Background()
	input := fakeRegisterInput()

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, gomock.Any()).Return(&models.User{ID: uuid.New()}, nil).Times(1)
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	result, err := svc.Register(ctx, input)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_EmailTakenByConcurrentInsert(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания: проверка прошла, но уникальный индекс сработал при вставке
	repoMock.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, ErrNotFound).Times(1)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(ErrEmailTaken).Times(1)

	// Действие
	_, err := svc.Register(ctx, fakeRegisterInput())

	// Проверки
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_RepositoryError(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestAuthService(t)
	ctx := context.Background()
	dbError := errors.New("connection refused")

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, dbError).Times(1)

	// Действие
	_, err := svc.Register(ctx, fakeRegisterInput())

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, dbError)
	assert.False(t, errors.Is(err, ErrEmailTaken))
}

func TestRegister_InvalidInput(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*models.RegisterInput)
	}{
		{
			// 40 символов кириллицы - 80 байт
			name:   "password longer than 72 bytes",
			mutate: func(in *models.RegisterInput) { in.Password = strings.Repeat("я", 40) },
		},
		{
			name:   "blank first name",
			mutate: func(in *models.RegisterInput) { in.FirstName = "   " },
		},
		{
			name:   "blank last name",
			mutate: func(in *models.RegisterInput) { in.LastName = "" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Подготовка
			svc, repoMock, _ := newTestAuthService(t)
			input := fakeRegisterInput()
			tc.mutate(&input)

			// Ожидания
			repoMock.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Times(0)
			repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

			// Действие
			_, err := svc.Register(context.Background(), input)

			// Проверки
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegister_PasswordOfExactly72Bytes(t *testing.T) {
	// Подготовка
	svc, repoMock, credentials := newTestAuthService(t)
	ctx := context.Background()
	input := fakeRegisterInput()
	input.Password = strings.Repeat("я", 36)

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, ErrNotFound).Times(1)
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User) error {
			assert.True(t, credentials.VerifyPassword(input.Password, user.HashedPassword))
			user.ID = uuid.New()
			return nil
		}).
		Times(1)

	// Действие
	_, err := svc.Register(ctx, input)

	// Проверки
	require.NoError(t, err)
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, credentials := newTestAuthService(t)
	ctx := context.Background()
	password := faker.Password()
	hash, err := credentials.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "driver@example.com", HashedPassword: hash, IsActive: true}

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, "driver@example.com").Return(user, nil).Times(1)

	// Действие
	result, err := svc.Login(ctx, "Driver@Example.com", password)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, user, result.User)
	decoded, err := credentials.DecodeAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, decoded)
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	// Подготовка
	svc, repoMock, credentials := newTestAuthService(t)
	ctx := context.Background()
	hash, err := credentials.HashPassword("correct-password")
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "known@example.com", HashedPassword: hash, IsActive: true}

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, "known@example.com").Return(user, nil).Times(1)
	repoMock.EXPECT().GetByEmail(ctx, "unknown@example.com").Return(nil, ErrNotFound).Times(1)

	// Действие
	_, wrongPasswordErr := svc.Login(ctx, "known@example.com", "wrong-password")
	_, unknownEmailErr := svc.Login(ctx, "unknown@example.com", "correct-password")

	// Проверки
	assert.ErrorIs(t, wrongPasswordErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPasswordErr.Error(), unknownEmailErr.Error())
}

func TestLogin_InactiveUser(t *testing.T) {
	// Подготовка
	svc, repoMock, credentials := newTestAuthService(t)
	ctx := context.Background()
	hash, err := credentials.HashPassword("correct-password")
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "blocked@example.com", HashedPassword: hash, IsActive: false}

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, "blocked@example.com").Return(user, nil).Times(1)

	// Действие
	_, err = svc.Login(ctx, "blocked@example.com", "correct-password")

	// Проверки
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUser_Deleted(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Ожидания: токен еще жив, а пользователя уже нет
	repoMock.EXPECT().GetByID(ctx, userID).Return(nil, ErrNotFound).Times(1)

	// Действие
	user, err := svc.CurrentUser(ctx, userID)

	// Проверки
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrNotFound)
}
