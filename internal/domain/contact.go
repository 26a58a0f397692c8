package domain

import "context"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}
