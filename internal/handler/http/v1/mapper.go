package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/models"
)

func RegisterRequestToInput(dto RegisterRequest) models.RegisterInput {
	return models.RegisterInput{
		Email:       dto.Email,
		Password:    dto.Password,
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		PhoneNumber: dto.PhoneNumber,
	}
}

func UpdateUserRequestToPatch(dto UpdateUserRequest) models.UserPatch {
	return models.UserPatch{
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		PhoneNumber: dto.PhoneNumber,
	}
}

// CreateReportRequestToModel собирает заявку от имени пользователя userID
func CreateReportRequestToModel(dto CreateReportRequest, userID uuid.UUID) *models.Report {
	images := make([]*models.ReportImage, len(dto.Images))
	for i, uri := range dto.Images {
		images[i] = &models.ReportImage{URI: uri}
	}
	return &models.Report{
		UserID:      userID,
		Category:    dto.Category,
		Description: dto.Description,
		Latitude:    *dto.Location.Latitude,
		Longitude:   *dto.Location.Longitude,
		Address:     dto.Address,
		Images:      images,
	}
}

func UpdateReportRequestToPatch(dto UpdateReportRequest) models.ReportPatch {
	return models.ReportPatch{
		Description: dto.Description,
		Status:      dto.Status,
	}
}

// ModelToUserResponse преобразует пользователя в DTO для владельца аккаунта
func ModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// ModelToPublicUserResponse скрывает email и телефон
func ModelToPublicUserResponse(user *models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

func AuthResultToResponse(result *models.AuthResult) AuthResponse {
	return AuthResponse{
		User: ModelToUserResponse(result.User),
		Tokens: TokenResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
			TokenType:    result.Tokens.TokenType,
			ExpiresIn:    result.Tokens.ExpiresIn,
		},
	}
}

// ModelToReportResponse преобразует доменную модель в DTO для ответа
func ModelToReportResponse(model *models.Report) *ReportResponse {
	images := make([]ReportImageResponse, len(model.Images))
	for i, img := range model.Images {
		images[i] = ReportImageResponse{
			ID:           img.ID,
			URI:          img.URI,
			ThumbnailURI: img.ThumbnailURI,
		}
	}
	return &ReportResponse{
		ID:                model.ID,
		UserID:            model.UserID,
		Category:          model.Category,
		Description:       model.Description,
		Location:          LocationResponse{Latitude: model.Latitude, Longitude: model.Longitude},
		Address:           model.Address,
		Images:            images,
		Status:            model.Status,
		Severity:          model.Severity,
		AIDetectionResult: model.DetectionResult,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		ResolvedAt:        model.ResolvedAt,
	}
}

func ReportPageToResponse(page *models.ReportPage) PaginatedReportsResponse {
	data := make([]*ReportResponse, len(page.Reports))
	for i, report := range page.Reports {
		data[i] = ModelToReportResponse(report)
	}
	return PaginatedReportsResponse{
		Data:       data,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
