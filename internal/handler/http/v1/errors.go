package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/jalanguard/internal/service"
	"github.com/shenikar/jalanguard/internal/storage"
	"github.com/sirupsen/logrus"
)

// respondError сопоставляет ошибки сервисов с HTTP статусами
func respondError(c *gin.Context, log *logrus.Entry, err error, resource string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		log.WithError(err).Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": clientMessage(err, service.ErrInvalidInput)})
	case errors.Is(err, service.ErrEmailTaken):
		log.WithError(err).Warn("Email already registered")
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Warn("Invalid credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, service.ErrForbidden):
		log.WithError(err).Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to modify this " + resource})
	case errors.Is(err, service.ErrNotFound):
		log.WithError(err).Warn("Not found")
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
	case errors.Is(err, storage.ErrUnsupportedExtension),
		errors.Is(err, storage.ErrEmptyFile),
		errors.Is(err, storage.ErrNotImage),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidDataURI):
		log.WithError(err).Warn("Upload rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": clientMessage(err, nil)})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// clientMessage убирает из текста ошибки внутренние префиксы слоев
func clientMessage(err error, sentinel error) string {
	msg := err.Error()
	for _, prefix := range []string{"service: ", "storage: "} {
		msg = strings.ReplaceAll(msg, prefix, "")
	}
	if sentinel != nil {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}

// respondValidationError отдает ошибки валидатора в виде {"error", "fields"}
func respondValidationError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

// fieldPath возвращает путь к полю в терминах JSON, без имени корневой структуры
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
