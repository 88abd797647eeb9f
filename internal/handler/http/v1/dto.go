package v1

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/models"
)

// RegisterRequest DTO для регистрации
// @Description DTO для регистрации
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	FirstName   string  `json:"first_name" validate:"required,min=1,max=50"`
	LastName    string  `json:"last_name" validate:"required,min=1,max=50"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
}

func (r *RegisterRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// UserResponse DTO профиля владельца аккаунта
// @Description DTO профиля владельца аккаунта
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber *string   `json:"phone_number"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicUserResponse DTO публичного профиля, без контактных данных
// @Description DTO публичного профиля
type PublicUserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest DTO частичного обновления профиля
// @Description Передаются только изменяемые поля; phone_number: null очищает телефон
type UpdateUserRequest struct {
	FirstName   models.Optional[string] `json:"first_name" validate:"omitempty,min=1,max=50" swaggertype:"string"`
	LastName    models.Optional[string] `json:"last_name" validate:"omitempty,min=1,max=50" swaggertype:"string"`
	PhoneNumber models.Optional[string] `json:"phone_number" validate:"omitempty,max=20" swaggertype:"string"`
}

// TokenResponse DTO пары токенов
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResponse DTO ответа регистрации и входа
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// APIResponse DTO подтверждения действия
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Coordinates DTO координат
type Coordinates struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// CreateReportRequest DTO для создания заявки
// @Description images - URL из /reports/upload-image, пути к файлам или data URI
type CreateReportRequest struct {
	Category    models.DefectCategory `json:"category" validate:"required,oneof=pothole crack erosion drainage signage lighting other"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=1000"`
	Location    *Coordinates          `json:"location" validate:"required"`
	Address     *string               `json:"address,omitempty" validate:"omitempty,max=500"`
	Images      []string              `json:"images" validate:"required,min=1,dive,image_ref"`
}

// UpdateReportRequest DTO частичного обновления заявки
// @Description Передаются только изменяемые поля
type UpdateReportRequest struct {
	Description models.Optional[string]              `json:"description" validate:"omitempty,max=1000" swaggertype:"string"`
	Status      models.Optional[models.ReportStatus] `json:"status" validate:"omitempty,oneof=pending under_review in_progress resolved rejected" swaggertype:"string"`
}

// ReportImageResponse DTO фото заявки
type ReportImageResponse struct {
	ID           uuid.UUID `json:"id"`
	URI          string    `json:"uri"`
	ThumbnailURI *string   `json:"thumbnail_uri"`
}

// LocationResponse DTO координат в ответе
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReportResponse DTO заявки
// @Description DTO заявки
type ReportResponse struct {
	ID                uuid.UUID               `json:"id"`
	UserID            uuid.UUID               `json:"user_id"`
	Category          models.DefectCategory   `json:"category"`
	Description       *string                 `json:"description"`
	Location          LocationResponse        `json:"location"`
	Address           *string                 `json:"address"`
	Images            []ReportImageResponse   `json:"images"`
	Status            models.ReportStatus     `json:"status"`
	Severity          *models.Severity        `json:"severity"`
	AIDetectionResult *models.DetectionResult `json:"ai_detection_result"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	ResolvedAt        *time.Time              `json:"resolved_at"`
}

// PaginatedReportsResponse DTO страницы заявок
type PaginatedReportsResponse struct {
	Data       []*ReportResponse `json:"data"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// UploadImageResponse DTO загруженного фото
type UploadImageResponse struct {
	URL string `json:"url"`
}

// HealthResponse DTO проверки живости
type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app,omitempty"`
	Version string `json:"version,omitempty"`
}
