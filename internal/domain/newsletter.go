package domain

import (
	"context"
	"time"
)

type NewsletterSubscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type NewsletterRequest struct {
	Email  string `json:"email" validate:"required,email,max=254"`
	Source string `json:"source" validate:"omitempty,oneof=popup footer"`
}

type NewsletterRepository interface {
	// Subscribe inserts the address unless it is already subscribed and reports
	// whether a new row was created.
	Subscribe(ctx context.Context, sub *NewsletterSubscriber) (bool, error)
}

type NewsletterUsecase interface {
	Subscribe(ctx context.Context, req *NewsletterRequest) (bool, error)
}
