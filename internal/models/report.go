package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus - статус обработки заявки
type ReportStatus string

const (
	StatusPending     ReportStatus = "pending"
	StatusUnderReview ReportStatus = "under_review"
	StatusInProgress  ReportStatus = "in_progress"
	StatusResolved    ReportStatus = "resolved"
	StatusRejected    ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// DefectCategory - тип дефекта дорожного покрытия
type DefectCategory string

const (
	CategoryPothole  DefectCategory = "pothole"
	CategoryCrack    DefectCategory = "crack"
	CategoryErosion  DefectCategory = "erosion"
	CategoryDrainage DefectCategory = "drainage"
	CategorySignage  DefectCategory = "signage"
	CategoryLighting DefectCategory = "lighting"
	CategoryOther    DefectCategory = "other"
)

func (c DefectCategory) Valid() bool {
	switch c {
	case CategoryPothole, CategoryCrack, CategoryErosion, CategoryDrainage,
		CategorySignage, CategoryLighting, CategoryOther:
		return true
	}
	return false
}

// Severity - приоритет обработки
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// BoundingBox - область дефекта на снимке, в пикселях
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectionResult - результат внешней модели детекции, хранится как jsonb
type DetectionResult struct {
	DefectType  string       `json:"defect_type"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

type ReportImage struct {
	ID           uuid.UUID `json:"id"`
	ReportID     uuid.UUID `json:"report_id"`
	URI          string    `json:"uri"`
	ThumbnailURI *string   `json:"thumbnail_uri,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Report struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	Category        DefectCategory   `json:"category"`
	Description     *string          `json:"description,omitempty"`
	Latitude        float64          `json:"latitude"`
	Longitude       float64          `json:"longitude"`
	Address         *string          `json:"address,omitempty"`
	Status          ReportStatus     `json:"status"`
	Severity        *Severity        `json:"severity,omitempty"`
	DetectionResult *DetectionResult `json:"ai_detection_result,omitempty"`
	Images          []*ReportImage   `json:"images"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
}

// IsOwnedBy проверяет, что заявка создана указанным пользователем
func (r *Report) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// ReportPatch - частичное обновление заявки
type ReportPatch struct {
	Description Optional[string]
	Status      Optional[ReportStatus]
}

func (p ReportPatch) IsEmpty() bool {
	return !p.Description.Set && !p.Status.Set
}

// ReportFilter - условия выборки списка заявок; nil означает отсутствие фильтра
type ReportFilter struct {
	Status   *ReportStatus
	Category *DefectCategory
	UserID   *uuid.UUID
}

// ReportPage - страница заявок
type ReportPage struct {
	Reports    []*Report
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}
