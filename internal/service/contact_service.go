package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"estatehub/internal/apperrors"
	"estatehub/internal/model"
	"estatehub/internal/repository"
)

var (
	contactEmailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	contactPhoneRe = regexp.MustCompile(`^[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`)
)

// ContactInput carries a contact-form submission.
type ContactInput struct {
	Fullname string
	Email    string
	Subject  string
	Phone    string
	Message  string
}

// ContactService exposes the contact-form inbox.
type ContactService interface {
	Create(ctx context.Context, input ContactInput) (*model.Contact, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context) ([]model.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	repo repository.ContactRepository
}

// NewContactService builds a ContactService.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

// Create validates and stores a submission.
func (s *contactService) Create(ctx context.Context, input ContactInput) (*model.Contact, error) {
	if msg := validateContactInput(input); msg != "" {
		return nil, apperrors.BadRequest(msg)
	}

	contact := &model.Contact{
		Fullname: strings.TrimSpace(input.Fullname),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Subject:  strings.TrimSpace(input.Subject),
		Phone:    strings.TrimSpace(input.Phone),
		Message:  strings.TrimSpace(input.Message),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

// Get returns one submission.
func (s *contactService) Get(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("Contact not found")
	}
	return contact, nil
}

// List returns all submissions newest first.
func (s *contactService) List(ctx context.Context) ([]model.Contact, error) {
	return s.repo.List(ctx)
}

// Delete removes a submission.
func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperrors.NotFound("Contact not found")
	}
	return s.repo.Delete(ctx, id)
}

// validateContactInput returns an empty string when the submission is valid,
// otherwise the message for the first failing field.
func validateContactInput(input ContactInput) string {
	if len(strings.TrimSpace(input.Fullname)) < 2 {
		return "Full name must be at least 2 characters"
	}
	if !contactEmailRe.MatchString(strings.TrimSpace(input.Email)) {
		return "Please provide a valid email address"
	}
	if len(strings.TrimSpace(input.Subject)) < 2 {
		return "Subject must be at least 2 characters"
	}
	if !contactPhoneRe.MatchString(strings.TrimSpace(input.Phone)) {
		return "Please provide a valid phone number"
	}
	if len(strings.TrimSpace(input.Message)) < 10 {
		return "Message must be at least 10 characters"
	}
	return ""
}
