package models

import "time"

// ===== UPLOAD DTOs =====

type UploadCategory string

const (
	UploadCategoryDocument UploadCategory = "document"
	UploadCategoryImage    UploadCategory = "image"
	UploadCategoryArchive  UploadCategory = "archive"
)

type UploadedFile struct {
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	URL        string         `json:"url"`
	Size       int64          `json:"size"`
	Category   UploadCategory `json:"category"`
	UploadedBy string         `json:"uploadedBy"`
	UploadedAt time.Time      `json:"uploadedAt"`
}

// ===== VALIDATION RESPONSES =====

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}
