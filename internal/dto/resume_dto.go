package dto

import "github.com/google/uuid"

type UploadResumeResponse struct {
	Message     string    `json:"message"`
	ID          uuid.UUID `json:"id"`
	PreviewText string    `json:"previewText"`
}
