package usecase

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/email"
	"skillijob-backend/pkg/logger"
	"skillijob-backend/pkg/security"
	"skillijob-backend/pkg/security/antivirus"
	"skillijob-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type cvUsecase struct {
	repo     domain.CVRepository
	storage  domain.FileStorage
	scanner  antivirus.Scanner
	mailer   email.Mailer
	audit    *security.SecurityLogger
	validate *validator.Validate
	maxBytes int64
	now      func() time.Time
}

func NewCVUsecase(
	repo domain.CVRepository,
	storage domain.FileStorage,
	scanner antivirus.Scanner,
	mailer email.Mailer,
	audit *security.SecurityLogger,
	validate *validator.Validate,
	maxBytes int64,
) domain.CVUsecase {
	if scanner == nil {
		scanner = antivirus.NoOpScanner{}
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &cvUsecase{
		repo:     repo,
		storage:  storage,
		scanner:  scanner,
		mailer:   mailer,
		audit:    audit,
		validate: validate,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// CVObjectKey is where a CV is stored: cv/<yyyy>/<mm>/<id><ext>.
func CVObjectKey(at time.Time, id, ext string) string {
	return fmt.Sprintf("cv/%04d/%02d/%s%s", at.Year(), int(at.Month()), id, ext)
}

func (u *cvUsecase) Submit(ctx context.Context, req *domain.CVSubmissionRequest, file domain.CVFile) (*domain.CVSubmission, error) {
	trimCVRequest(req)
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	if len(file.Data) == 0 {
		return nil, apperror.BadRequest("Veuillez joindre votre CV")
	}
	if int64(len(file.Data)) > u.maxBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge, fmt.Sprintf("Le CV ne doit pas dépasser %d Mo", u.maxBytes>>20), nil)
	}

	check := security.ValidateCVFile(file.Filename, file.Data)
	if !check.Valid {
		u.audit.Log(ctx, security.SecurityEvent{
			Event:   security.EventUploadRejected,
			Details: map[string]any{"reason": check.Error, "extension": check.Extension, "mime": check.DetectedMIME},
		})
		return nil, apperror.BadRequest("Format de CV non accepté (PDF, DOC ou DOCX uniquement)").WithDetails([]string{check.Error})
	}

	verdict, err := u.scanner.Scan(ctx, file.Data)
	if err != nil {
		return nil, apperror.Unavailable("Analyse du fichier impossible, réessayez plus tard", err)
	}
	if verdict.Infected {
		u.audit.Log(ctx, security.SecurityEvent{
			Event:   security.EventUploadRejected,
			Details: map[string]any{"reason": "malware", "threat": verdict.ThreatName, "scanner": verdict.Scanner},
		})
		return nil, apperror.BadRequest("Le fichier a été refusé par l'analyse antivirus")
	}

	now := u.now().UTC()
	id := uuid.NewString()
	sub := &domain.CVSubmission{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       normalizeEmail(req.Email),
		Phone:       validation.NormalizePhone(req.Phone),
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Position:    req.Position,
		Summary:     req.Summary,
		FileKey:     CVObjectKey(now, id, check.Extension),
		FileName:    filepath.Base(file.Filename),
		ContentType: security.ContentTypeFor(check.Extension),
		FileSize:    int64(len(file.Data)),
		CreatedAt:   now,
	}

	if err := u.storage.Put(ctx, sub.FileKey, sub.ContentType, file.Data); err != nil {
		return nil, apperror.Unavailable("Stockage du CV indisponible, réessayez plus tard", err)
	}
	if err := u.repo.Create(ctx, sub); err != nil {
		// No record points at the object any more.
		if delErr := u.storage.Delete(context.WithoutCancel(ctx), sub.FileKey); delErr != nil {
			logger.Log.Error("Failed to remove orphaned CV", "key", sub.FileKey, "error", delErr)
		}
		return nil, err
	}

	u.notify(sub)
	return sub, nil
}

// notify tells the team about the new CV. Failures only get logged.
func (u *cvUsecase) notify(sub *domain.CVSubmission) {
	if !u.mailer.IsConfigured() {
		logger.Log.Warn("Email service not configured, CV notification skipped", "submission_id", sub.ID)
		return
	}
	err := u.mailer.SendCVNotification(email.CVEmailData{
		SubmissionID: sub.ID,
		FirstName:    sub.FirstName,
		LastName:     sub.LastName,
		Email:        sub.Email,
		Phone:        sub.Phone,
		City:         sub.City,
		Position:     sub.Position,
		Summary:      sub.Summary,
		FileName:     sub.FileName,
	})
	if err != nil {
		logger.Log.Error("Failed to send CV notification", "submission_id", sub.ID, "error", err)
	}
}

func trimCVRequest(req *domain.CVSubmissionRequest) {
	for _, f := range []*string{
		&req.FirstName, &req.LastName, &req.Email, &req.Phone, &req.Address,
		&req.City, &req.PostalCode, &req.Position, &req.Summary,
	} {
		*f = strings.TrimSpace(*f)
	}
}
