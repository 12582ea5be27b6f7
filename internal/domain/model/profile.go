package model

import "time"

type Profile struct {
	UserID       string    `json:"-"`
	FullName     string    `json:"fullName"`
	Phone        *string   `json:"phone,omitempty"`
	AddressLine1 *string   `json:"addressLine1,omitempty"`
	City         *string   `json:"city,omitempty"`
	Postcode     *string   `json:"postcode,omitempty"`
	BusinessName *string   `json:"businessName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfilePatch carries the optional fields of a profile update; nil means "leave as is".
type ProfilePatch struct {
	FullName     *string `json:"fullName,omitempty" validate:"omitempty,min=2"`
	Phone        *string `json:"phone,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	City         *string `json:"city,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
}

// Apply copies the set fields of the patch onto p.
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		p.Phone = patch.Phone
	}
	if patch.AddressLine1 != nil {
		p.AddressLine1 = patch.AddressLine1
	}
	if patch.City != nil {
		p.City = patch.City
	}
	if patch.Postcode != nil {
		p.Postcode = patch.Postcode
	}
	if patch.BusinessName != nil {
		p.BusinessName = patch.BusinessName
	}
}
