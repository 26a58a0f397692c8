package domain

import (
	"context"
	"time"
)

// CVSubmission is a CV dropped through the public form.
type CVSubmission struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Position    string    `json:"position"`
	Summary     string    `json:"summary,omitempty"`
	FileKey     string    `json:"-"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

// CVSubmissionRequest holds the text fields of the CV form.
type CVSubmissionRequest struct {
	FirstName  string `form:"first_name" validate:"required,max=100,valid_name"`
	LastName   string `form:"last_name" validate:"required,max=100,valid_name"`
	Email      string `form:"email" validate:"required,email,max=254"`
	Phone      string `form:"phone" validate:"required,valid_phone"`
	Address    string `form:"address" validate:"omitempty,max=255,no_emoji"`
	City       string `form:"city" validate:"omitempty,max=100,valid_name"`
	PostalCode string `form:"postal_code" validate:"omitempty,postcode_iso3166_alpha2=FR"`
	Position   string `form:"position" validate:"required,max=150,no_emoji"`
	Summary    string `form:"summary" validate:"omitempty,max=2000"`
}

// CVFile is the uploaded document.
type CVFile struct {
	Filename string
	Data     []byte
}

// FileStorage stores uploaded documents.
type FileStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type CVRepository interface {
	Create(ctx context.Context, submission *CVSubmission) error
}

type CVUsecase interface {
	Submit(ctx context.Context, req *CVSubmissionRequest, file CVFile) (*CVSubmission, error)
}
