package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/jalanguard/internal/models"
)

// @Summary Create a report
// @Description Create a road defect report owned by the caller. Status is always pending.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body CreateReportRequest true "Report data"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	var input CreateReportRequest
	log := h.logger.WithField("method", "createReport")
	if !h.bindJSON(c, log, &input) {
		return
	}

	images, err := h.storeInlineImages(c.Request.Context(), input.Images)
	if err != nil {
		respondError(c, log, err, "report")
		return
	}
	input.Images = images

	model := CreateReportRequestToModel(input, currentUserID(c))
	if err := h.reportService.CreateReport(c.Request.Context(), model); err != nil {
		respondError(c, log, err, "report")
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(model))
}

// @Summary List reports
// @Description Paginated list of all reports, newest first.
// @Tags Reports
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (1..100)" default(20)
// @Param status query string false "Status filter" Enums(pending, under_review, in_progress, resolved, rejected)
// @Param category query string false "Category filter" Enums(pothole, crack, erosion, drainage, signage, lighting, other)
// @Success 200 {object} PaginatedReportsResponse
// @Failure 400 {object} map[string]string "Invalid pagination or filter"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	var filter models.ReportFilter
	if v, ok := c.GetQuery("status"); ok {
		status := models.ReportStatus(v)
		filter.Status = &status
	}
	if v, ok := c.GetQuery("category"); ok {
		category := models.DefectCategory(v)
		filter.Category = &category
	}

	result, err := h.reportService.ListReports(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, log, err, "report")
		return
	}
	c.JSON(http.StatusOK, ReportPageToResponse(result))
}

// @Summary List my reports
// @Description Paginated list of the caller's reports, newest first.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (1..100)" default(20)
// @Success 200 {object} PaginatedReportsResponse
// @Failure 400 {object} map[string]string "Invalid pagination"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /reports/me [get]
func (h *Handler) listMyReports(c *gin.Context) {
	log := h.logger.WithField("method", "listMyReports")
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.reportService.ListUserReports(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		respondError(c, log, err, "report")
		return
	}
	c.JSON(http.StatusOK, ReportPageToResponse(result))
}

// @Summary Get report by ID
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid report ID"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [get]
func (h *Handler) getReport(c *gin.Context) {
	id, ok := parseID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getReport").WithField("id", id)

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "report")
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Update a report
// @Description Partial update. Only the owner may change the description.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param report body UpdateReportRequest true "Fields to change"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid report ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [patch]
func (h *Handler) updateReport(c *gin.Context) {
	id, ok := parseID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateReport").WithField("id", id)

	var input UpdateReportRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), id, currentUserID(c), UpdateReportRequestToPatch(input))
	if err != nil {
		respondError(c, log, err, "report")
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Delete a report
// @Description Delete a report and its images. Owner only.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} map[string]string "Invalid report ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [delete]
func (h *Handler) deleteReport(c *gin.Context) {
	id, ok := parseID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteReport").WithField("id", id)

	if err := h.reportService.DeleteReport(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, log, err, "report")
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Report deleted successfully"})
}

// @Summary Upload a report image
// @Description Store an image and return the URL to put into images[] of a new report.
// @Tags Reports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} UploadImageResponse
// @Failure 400 {object} map[string]string "Missing file, bad extension, too large or not an image"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /reports/upload-image [post]
func (h *Handler) uploadImage(c *gin.Context) {
	log := h.logger.WithField("method", "uploadImage").WithField("user_id", currentUserID(c))

	fileHeader, err := c.FormFile("image")
	if err != nil {
		log.WithError(err).Warn("Image file missing")
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > h.cfg.MaxFileSize {
		log.WithField("size", fileHeader.Size).Warn("Image too large")
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, log, err, "image")
		return
	}
	defer file.Close()

	url, err := h.images.SaveImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		respondError(c, log, err, "image")
		return
	}
	log.WithField("url", url).Info("Image uploaded")
	c.JSON(http.StatusCreated, UploadImageResponse{URL: url})
}

// storeInlineImages сохраняет фото из data URI в хранилище и подменяет их ссылками на файлы.
// Остальные ссылки возвращаются без изменений, порядок сохраняется.
func (h *Handler) storeInlineImages(ctx context.Context, refs []string) ([]string, error) {
	result := make([]string, len(refs))
	for i, ref := range refs {
		ref = strings.TrimSpace(ref)
		if !strings.HasPrefix(ref, "data:") {
			result[i] = ref
			continue
		}
		url, err := h.images.SaveDataURI(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("images[%d]: %w", i, err)
		}
		result[i] = url
	}
	return result, nil
}
