package properties

import (
	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/patch"
)

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Title              *string       `json:"title"`
	Description        *string       `json:"description"`
	Price              *float64      `json:"price"`
	Bedrooms           *int          `json:"bedrooms"`
	Bathrooms          *float64      `json:"bathrooms"`
	SquareFeet         *int          `json:"square_feet"`
	Type               *Type         `json:"property_type"`
	Status             *Status       `json:"status"`
	Address            *string       `json:"address"`
	City               *string       `json:"city"`
	State              *string       `json:"state"`
	ZipCode            *string       `json:"zip_code"`
	Latitude           *float64      `json:"latitude"`
	Longitude          *float64      `json:"longitude"`
	Featured           *bool         `json:"featured"`
	VerificationStatus *Verification `json:"verification_status"`
}

// ModerationPatch is the subset moderators toggle from the listing table.
type ModerationPatch struct {
	Status             *Status       `json:"status"`
	Featured           *bool         `json:"featured"`
	VerificationStatus *Verification `json:"verification_status"`
}

func (m ModerationPatch) Patch() Patch {
	return Patch{Status: m.Status, Featured: m.Featured, VerificationStatus: m.VerificationStatus}
}

// Empty reports whether no field is set.
func (p Patch) Empty() bool { return p == Patch{} }

// Assignments validates the patch and lists the columns to change.
func (p Patch) Assignments() (patch.Set, error) {
	var s patch.Set
	if p.Title != nil {
		s = s.Add("title", *p.Title)
	}
	if p.Description != nil {
		s = s.Add("description", *p.Description)
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, errs.Invalid("price", "must not be negative")
		}
		s = s.Add("price", *p.Price)
	}
	if p.Bedrooms != nil {
		s = s.Add("bedrooms", *p.Bedrooms)
	}
	if p.Bathrooms != nil {
		s = s.Add("bathrooms", *p.Bathrooms)
	}
	if p.SquareFeet != nil {
		s = s.Add("square_feet", *p.SquareFeet)
	}
	if p.Type != nil {
		if !p.Type.Valid() {
			return nil, errs.Invalid("property_type", "unknown property type "+string(*p.Type))
		}
		s = s.Add("property_type", string(*p.Type))
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, errs.Invalid("status", "unknown status "+string(*p.Status))
		}
		s = s.Add("status", string(*p.Status))
	}
	if p.Address != nil {
		s = s.Add("address", *p.Address)
	}
	if p.City != nil {
		s = s.Add("city", *p.City)
	}
	if p.State != nil {
		s = s.Add("state", *p.State)
	}
	if p.ZipCode != nil {
		s = s.Add("zip_code", *p.ZipCode)
	}
	if p.Latitude != nil {
		s = s.Add("latitude", *p.Latitude)
	}
	if p.Longitude != nil {
		s = s.Add("longitude", *p.Longitude)
	}
	if p.Featured != nil {
		s = s.Add("featured", *p.Featured)
	}
	if p.VerificationStatus != nil {
		if !p.VerificationStatus.Valid() {
			return nil, errs.Invalid("verification_status", "unknown verification status "+string(*p.VerificationStatus))
		}
		s = s.Add("verification_status", string(*p.VerificationStatus))
	}
	if s.Empty() {
		return nil, errs.Invalid("", "no fields to update")
	}
	return s, nil
}
