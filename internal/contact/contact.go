// Package contact forwards messages from the website contact form to the salon inbox.
package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/internal/notify"
	"github.com/wolfman30/luxe-salon/internal/validation"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

// ThankYou is returned to the visitor after a message is accepted.
const ThankYou = "Thank you for your message! We'll get back to you soon."

var subjects = map[string]string{
	"appointment": "Appointment Inquiry",
	"services":    "Service Questions",
	"pricing":     "Pricing Information",
	"feedback":    "Feedback",
	"other":       "Other",
}

// SubjectLabel returns the display label for a subject key, or "" if unknown.
func SubjectLabel(key string) string {
	return subjects[key]
}

// Form is one contact form submission. Phone is optional.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Subject: strings.ToLower(strings.TrimSpace(f.Subject)),
		Message: strings.TrimSpace(f.Message),
	}
}

func (f Form) Validate() error {
	subject := validation.Required("subject", "Subject", f.Subject)
	if subject == nil && SubjectLabel(f.Subject) == "" {
		subject = &validation.FieldError{Field: "subject", Reason: "Please select a valid subject"}
	}
	return validation.Collect(
		validation.Name("name", "Name", f.Name),
		validation.Email("email", f.Email),
		validation.Phone("phone", f.Phone, false),
		subject,
		validation.Message("message", f.Message),
	)
}

// Service delivers contact messages.
type Service struct {
	sender notify.EmailSender
	inbox  string
	salon  catalog.Salon
	logger *logging.Logger
}

func NewService(sender notify.EmailSender, inbox string, salon catalog.Salon, logger *logging.Logger) *Service {
	if sender == nil {
		panic("contact: email sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, inbox: inbox, salon: salon, logger: logger}
}

// Submit validates the form and emails it to the salon inbox with the visitor
// as reply-to.
func (s *Service) Submit(ctx context.Context, form Form) error {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return err
	}

	phone := form.Phone
	if phone == "" {
		phone = "not provided"
	}
	body := fmt.Sprintf("From: %s <%s>\nPhone: %s\nSubject: %s\n\n%s\n",
		form.Name, form.Email, phone, SubjectLabel(form.Subject), form.Message)

	err := s.sender.Send(ctx, notify.EmailMessage{
		To:      s.inbox,
		ToName:  s.salon.Name,
		ReplyTo: form.Email,
		Subject: fmt.Sprintf("[%s] %s from %s", s.salon.Name, SubjectLabel(form.Subject), form.Name),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("contact: deliver message: %w", err)
	}
	s.logger.Info("contact message forwarded", "subject", form.Subject)
	return nil
}

// Handler serves POST /contact.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	err := h.svc.Submit(r.Context(), form)
	if fields := validation.Fields(err); fields != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "fields": fields})
		return
	}
	if err != nil {
		h.logger.Error("contact submission failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "message could not be delivered"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": ThankYou})
}
