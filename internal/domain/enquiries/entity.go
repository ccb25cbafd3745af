package enquiries

import (
	"net/mail"
	"strings"
	"time"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

// ID tipe untuk Enquiry
type ID string

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed:
		return true
	}
	return false
}

// Enquiry is a contact request about one listing. UserID is empty for anonymous senders.
type Enquiry struct {
	ID         ID        `json:"id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	PropertyTitle string `json:"property_title,omitempty"`
}

func (e *Enquiry) Validate() error {
	if strings.TrimSpace(e.PropertyID) == "" {
		return errs.Invalid("property_id", "is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errs.Invalid("name", "is required")
	}
	if strings.TrimSpace(e.Message) == "" {
		return errs.Invalid("message", "is required")
	}
	if _, err := mail.ParseAddress(e.Email); err != nil {
		return errs.Invalid("email", "invalid email address")
	}
	return nil
}
