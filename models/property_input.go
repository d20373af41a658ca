package models

import (
	"reflect"
	"time"
)

type SizeInput struct {
	Value *float64  `json:"value"`
	Unit  *AreaUnit `json:"unit"`
}

type RentInput struct {
	Monthly         *float64 `json:"monthly"`
	Currency        *string  `json:"currency"`
	SecurityDeposit *float64 `json:"securityDeposit"`
}

type AddressInput struct {
	Street      *string      `json:"street"`
	Area        *string      `json:"area"`
	City        *string      `json:"city"`
	State       *string      `json:"state"`
	Pincode     *string      `json:"pincode"`
	Coordinates *Coordinates `json:"coordinates"`
}

// PropertyInput is the owner-editable subset of a Property. Nil fields are
// left untouched. Verification and stats are not owner-editable.
type PropertyInput struct {
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	PropertyType  *PropertyType  `json:"propertyType"`
	Size          *SizeInput     `json:"size"`
	Rent          *RentInput     `json:"rent"`
	Address       *AddressInput  `json:"address"`
	Amenities     *[]Amenity     `json:"amenities"`
	Images        *[]Image       `json:"images"`
	Documents     *[]Document    `json:"documents"`
	IsAvailable   *bool          `json:"isAvailable"`
	AvailableFrom *time.Time     `json:"availableFrom"`
	LeaseTerms    *LeaseTerms    `json:"leaseTerms"`
	Status        *ListingStatus `json:"status"`
}

func assign[T any](dst *T, src *T, path string, changed *[]string) {
	if src == nil || reflect.DeepEqual(*dst, *src) {
		return
	}
	*dst = *src
	*changed = append(*changed, path)
}

// ApplyTo copies the supplied fields onto p and returns the document paths
// whose values actually changed, including derived paths that follow from them.
func (in PropertyInput) ApplyTo(p *Property) []string {
	var changed []string

	assign(&p.Title, in.Title, "title", &changed)
	assign(&p.Description, in.Description, "description", &changed)
	assign(&p.PropertyType, in.PropertyType, "propertyType", &changed)
	if in.Size != nil {
		assign(&p.Size.Value, in.Size.Value, "size.value", &changed)
		assign(&p.Size.Unit, in.Size.Unit, "size.unit", &changed)
	}
	if in.Rent != nil {
		assign(&p.Rent.Monthly, in.Rent.Monthly, "rent.monthly", &changed)
		assign(&p.Rent.Currency, in.Rent.Currency, "rent.currency", &changed)
		assign(&p.Rent.SecurityDeposit, in.Rent.SecurityDeposit, "rent.securityDeposit", &changed)
	}
	if a := in.Address; a != nil {
		assign(&p.Address.Street, a.Street, "address.street", &changed)
		assign(&p.Address.Area, a.Area, "address.area", &changed)
		assign(&p.Address.City, a.City, "address.city", &changed)
		assign(&p.Address.State, a.State, "address.state", &changed)
		assign(&p.Address.Pincode, a.Pincode, "address.pincode", &changed)
		if a.Coordinates != nil {
			coords := *a.Coordinates
			if p.Address.Coordinates == nil || *p.Address.Coordinates != coords {
				p.Address.Coordinates = &coords
				changed = append(changed, "address.coordinates")
			}
		}
	}
	assign(&p.Amenities, in.Amenities, "amenities", &changed)
	assign(&p.Images, in.Images, "images", &changed)
	assign(&p.Documents, in.Documents, "documents", &changed)
	assign(&p.IsAvailable, in.IsAvailable, "isAvailable", &changed)
	if in.AvailableFrom != nil && (p.AvailableFrom == nil || !p.AvailableFrom.Equal(*in.AvailableFrom)) {
		t := *in.AvailableFrom
		p.AvailableFrom = &t
		changed = append(changed, "availableFrom")
	}
	assign(&p.LeaseTerms, in.LeaseTerms, "leaseTerms", &changed)
	assign(&p.Status, in.Status, "status", &changed)

	return withDerived(changed)
}

func withDerived(changed []string) []string {
	touched := make(map[string]bool, len(changed))
	for _, path := range changed {
		touched[path] = true
	}
	if touched["rent.monthly"] || touched["size.value"] {
		changed = append(changed, "rent.perSqft")
	}
	if touched["address.coordinates"] {
		changed = append(changed, "location", "geohash")
	}
	if touched["title"] {
		changed = append(changed, "slug")
	}
	return changed
}

// Update applies the owner's edit to p in place and returns the paths to
// persist. An empty result means the payload matched the stored document.
func (in PropertyInput) Update(p *Property, now time.Time) []string {
	changed := in.ApplyTo(p)
	if len(changed) == 0 {
		return nil
	}
	p.RecomputeDerived()
	for _, path := range changed {
		if path == "slug" {
			p.GenerateSlug()
			break
		}
	}
	p.UpdatedAt = now
	return append(changed, "updatedAt")
}
