package properties

import (
	"strings"
	"time"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
)

// ID tipe untuk Property
type ID string

// Type enum
type Type string

const (
	TypeSingleFamily Type = "Single Family"
	TypeCondo        Type = "Condo"
	TypeTownhouse    Type = "Townhouse"
	TypeMultiFamily  Type = "Multi Family"
	TypeLand         Type = "Land"
	TypeOther        Type = "Other"
)

// Status enum
type Status string

const (
	StatusForSale Status = "For Sale"
	StatusForRent Status = "For Rent"
	StatusPending Status = "Pending"
	StatusSold    Status = "Sold"
	StatusRented  Status = "Rented"
)

// Verification enum, set by moderators
type Verification string

const (
	VerificationPending  Verification = "pending"
	VerificationVerified Verification = "verified"
	VerificationRejected Verification = "rejected"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSingleFamily, TypeCondo, TypeTownhouse, TypeMultiFamily, TypeLand, TypeOther:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusForSale, StatusForRent, StatusPending, StatusSold, StatusRented:
		return true
	}
	return false
}

func (v Verification) Valid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Image is an opaque image URL attached to a listing.
type Image struct {
	ID         string    `json:"id"`
	PropertyID ID        `json:"property_id"`
	ImageURL   string    `json:"image_url"`
	IsPrimary  bool      `json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}

// Aggregate Root: Property
type Property struct {
	ID                 ID           `json:"id"`
	UserID             string       `json:"user_id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Price              float64      `json:"price"`
	Bedrooms           int          `json:"bedrooms"`
	Bathrooms          float64      `json:"bathrooms"`
	SquareFeet         int          `json:"square_feet"`
	Type               Type         `json:"property_type"`
	Status             Status       `json:"status"`
	Address            string       `json:"address"`
	City               string       `json:"city"`
	State              string       `json:"state"`
	ZipCode            string       `json:"zip_code"`
	Latitude           *float64     `json:"latitude,omitempty"`
	Longitude          *float64     `json:"longitude,omitempty"`
	Featured           bool         `json:"featured"`
	VerificationStatus Verification `json:"verification_status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`

	// read-only projections
	AgentName    string   `json:"agent_name,omitempty"`
	AgentEmail   string   `json:"agent_email,omitempty"`
	PrimaryImage string   `json:"primary_image,omitempty"`
	Images       []*Image `json:"images,omitempty"`
}

// SavedProperty is a favourite together with the time it was saved.
type SavedProperty struct {
	Property
	SavedAt time.Time `json:"saved_at"`
}

// Validate checks the fields a listing must carry before it is stored.
func (p *Property) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "description")
	}
	if p.Price == 0 {
		missing = append(missing, "price")
	}
	if p.Bedrooms == 0 {
		missing = append(missing, "bedrooms")
	}
	if p.Bathrooms == 0 {
		missing = append(missing, "bathrooms")
	}
	if p.SquareFeet == 0 {
		missing = append(missing, "square_feet")
	}
	if p.Type == "" {
		missing = append(missing, "property_type")
	}
	if p.Status == "" {
		missing = append(missing, "status")
	}
	if strings.TrimSpace(p.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(p.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(p.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(p.ZipCode) == "" {
		missing = append(missing, "zip_code")
	}
	if len(missing) > 0 {
		return errs.Invalid("", "missing required fields: "+strings.Join(missing, ", "))
	}
	if p.Price < 0 {
		return errs.Invalid("price", "must not be negative")
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 || p.SquareFeet < 0 {
		return errs.Invalid("", "bedrooms, bathrooms and square_feet must not be negative")
	}
	if !p.Type.Valid() {
		return errs.Invalid("property_type", "unknown property type "+string(p.Type))
	}
	if !p.Status.Valid() {
		return errs.Invalid("status", "unknown status "+string(p.Status))
	}
	if p.VerificationStatus != "" && !p.VerificationStatus.Valid() {
		return errs.Invalid("verification_status", "unknown verification status "+string(p.VerificationStatus))
	}
	return nil
}
