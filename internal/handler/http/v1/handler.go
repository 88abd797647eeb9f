package v1

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/config"
	"github.com/shenikar/jalanguard/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// ImageStorage сохраняет загруженные фото и возвращает их публичный URL
type ImageStorage interface {
	SaveImage(ctx context.Context, originalName string, body io.Reader) (string, error)
	SaveDataURI(ctx context.Context, ref string) (string, error)
}

// normalizer - DTO, которые приводят поля к каноничному виду до валидации
type normalizer interface {
	normalize()
}

// Services - зависимости хендлеров от бизнес-логики
type Services struct {
	Auth    service.AuthService
	Reports service.ReportService
	Users   service.UserService
}

type Handler struct {
	authService   service.AuthService
	reportService service.ReportService
	userService   service.UserService
	tokens        TokenDecoder
	images        ImageStorage
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(services Services, tokens TokenDecoder, images ImageStorage, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		authService:   services.Auth,
		reportService: services.Reports,
		userService:   services.Users,
		tokens:        tokens,
		images:        images,
		logger:        logger,
		validate:      newValidator(cfg),
		cfg:           cfg,
	}
}

// bindJSON разбирает тело запроса и валидирует DTO; при ошибке ответ уже отправлен
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if n, ok := input.(normalizer); ok {
		n.normalize()
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		respondValidationError(c, err)
		return false
	}
	return true
}

// parseID разбирает UUID из пути; при ошибке ответ уже отправлен
func parseID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + resource + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination читает page и page_size; диапазоны проверяет сервис
func parsePagination(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
		return 0, 0, false
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_size must be an integer"})
		return 0, 0, false
	}
	return page, pageSize, true
}
