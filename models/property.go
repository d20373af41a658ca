package models

import (
	"ConnectSpace/geo"
	"ConnectSpace/utils"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PropertyType string

const (
	PropertyTypeOffice     PropertyType = "office"
	PropertyTypeRetail     PropertyType = "retail"
	PropertyTypeIndustrial PropertyType = "industrial"
	PropertyTypeWarehouse  PropertyType = "warehouse"
	PropertyTypeShowroom   PropertyType = "showroom"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeOffice, PropertyTypeRetail, PropertyTypeIndustrial, PropertyTypeWarehouse, PropertyTypeShowroom:
		return true
	}
	return false
}

type AreaUnit string

const (
	AreaUnitSqft AreaUnit = "sqft"
	AreaUnitSqm  AreaUnit = "sqm"
)

type Amenity string

var knownAmenities = map[Amenity]struct{}{
	"parking":          {},
	"wifi":             {},
	"power_backup":     {},
	"security":         {},
	"lift":             {},
	"cafeteria":        {},
	"conference_room":  {},
	"air_conditioning": {},
	"fire_safety":      {},
	"loading_dock":     {},
}

func (a Amenity) Valid() bool {
	_, ok := knownAmenities[a]
	return ok
}

type ListingStatus string

const (
	StatusDraft    ListingStatus = "draft"
	StatusActive   ListingStatus = "active"
	StatusRented   ListingStatus = "rented"
	StatusInactive ListingStatus = "inactive"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusRented, StatusInactive:
		return true
	}
	return false
}

type DocumentType string

type Size struct {
	Value float64  `bson:"value" json:"value"`
	Unit  AreaUnit `bson:"unit" json:"unit"`
}

type Rent struct {
	Monthly         float64 `bson:"monthly" json:"monthly"`
	PerSqft         float64 `bson:"perSqft" json:"perSqft"`
	Currency        string  `bson:"currency" json:"currency"`
	SecurityDeposit float64 `bson:"securityDeposit" json:"securityDeposit"`
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

type Address struct {
	Street      string       `bson:"street" json:"street"`
	Area        string       `bson:"area" json:"area"`
	City        string       `bson:"city" json:"city"`
	State       string       `bson:"state" json:"state"`
	Pincode     string       `bson:"pincode" json:"pincode"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Formatted joins the non-empty address parts for display.
func (a Address) Formatted() string {
	out := ""
	for _, part := range []string{a.Street, a.Area, a.City, a.State} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	if a.Pincode != "" {
		if out != "" {
			out += " - "
		}
		out += a.Pincode
	}
	return out
}

// GeoPoint is the GeoJSON form of the coordinates, kept for the 2dsphere index.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

type Image struct {
	URL       string `bson:"url" json:"url"`
	Caption   string `bson:"caption,omitempty" json:"caption,omitempty"`
	IsPrimary bool   `bson:"isPrimary" json:"isPrimary"`
}

type Document struct {
	Type       DocumentType `bson:"type" json:"type"`
	URL        string       `bson:"url" json:"url"`
	IsVerified bool         `bson:"isVerified" json:"isVerified"`
}

type LeaseTerms struct {
	MinMonths        int `bson:"minMonths" json:"minMonths"`
	MaxMonths        int `bson:"maxMonths" json:"maxMonths"`
	NoticePeriodDays int `bson:"noticePeriodDays" json:"noticePeriodDays"`
}

type Stats struct {
	Views     int64 `bson:"views" json:"views"`
	Inquiries int64 `bson:"inquiries" json:"inquiries"`
}

type Property struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title              string              `bson:"title" json:"title"`
	Description        string              `bson:"description" json:"description"`
	PropertyType       PropertyType        `bson:"propertyType" json:"propertyType"`
	Size               Size                `bson:"size" json:"size"`
	Rent               Rent                `bson:"rent" json:"rent"`
	Address            Address             `bson:"address" json:"address"`
	Location           *GeoPoint           `bson:"location,omitempty" json:"-"`
	Geohash            string              `bson:"geohash,omitempty" json:"geohash,omitempty"`
	Amenities          []Amenity           `bson:"amenities" json:"amenities"`
	Images             []Image             `bson:"images" json:"images"`
	Documents          []Document          `bson:"documents" json:"documents"`
	Landlord           primitive.ObjectID  `bson:"landlord" json:"landlord"`
	IsVerified         bool                `bson:"isVerified" json:"isVerified"`
	VerificationStatus VerificationStatus  `bson:"verificationStatus" json:"verificationStatus"`
	VerifiedBy         *primitive.ObjectID `bson:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`
	VerifiedAt         *time.Time          `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	IsAvailable        bool                `bson:"isAvailable" json:"isAvailable"`
	AvailableFrom      *time.Time          `bson:"availableFrom,omitempty" json:"availableFrom,omitempty"`
	LeaseTerms         LeaseTerms          `bson:"leaseTerms" json:"leaseTerms"`
	Stats              Stats               `bson:"stats" json:"stats"`
	Status             ListingStatus       `bson:"status" json:"status"`
	Slug               string              `bson:"slug,omitempty" json:"slug"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PerUnitRent is round(monthly / size), or 0 when size is not positive.
func PerUnitRent(monthly, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return math.Round(monthly / size)
}

// RecomputeDerived refreshes every field that is a function of other fields,
// except the slug which only changes with the title.
func (p *Property) RecomputeDerived() {
	p.Rent.PerSqft = PerUnitRent(p.Rent.Monthly, p.Size.Value)

	if c := p.Address.Coordinates; c != nil {
		p.Location = &GeoPoint{Type: "Point", Coordinates: []float64{c.Longitude, c.Latitude}}
		p.Geohash = geo.Encode(c.Latitude, c.Longitude)
	} else {
		p.Location = nil
		p.Geohash = ""
	}
}

func (p *Property) GenerateSlug() {
	p.Slug = utils.Slug(p.Title, p.ID.Hex())
}

// HasCoordinates reports whether the property can appear on the map.
func (p *Property) HasCoordinates() bool {
	return p.Address.Coordinates != nil
}

func (p *Property) PrimaryImage() *Image {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// NewProperty prepares a listing for insertion on behalf of a landlord.
func NewProperty(in PropertyInput, landlord primitive.ObjectID, now time.Time) *Property {
	p := &Property{
		ID:                 primitive.NewObjectID(),
		Landlord:           landlord,
		VerificationStatus: VerificationPending,
		IsAvailable:        true,
		Status:             StatusDraft,
		Amenities:          []Amenity{},
		Images:             []Image{},
		Documents:          []Document{},
		Rent:               Rent{Currency: "INR"},
		Size:               Size{Unit: AreaUnitSqft},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	in.ApplyTo(p)
	p.RecomputeDerived()
	p.GenerateSlug()
	return p
}

type PropertySummary struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	Slug         string             `json:"slug"`
	PropertyType PropertyType       `json:"propertyType"`
	Size         Size               `json:"size"`
	Rent         Rent               `json:"rent"`
	Address      Address            `json:"address"`
	Amenities    []Amenity          `json:"amenities"`
	PrimaryImage *Image             `json:"primaryImage,omitempty"`
	Landlord     primitive.ObjectID `json:"landlord"`
	IsVerified   bool               `json:"isVerified"`
	IsAvailable  bool               `json:"isAvailable"`
	Status       ListingStatus      `json:"status"`
	Stats        Stats              `json:"stats"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (p *Property) Summary() PropertySummary {
	return PropertySummary{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		PropertyType: p.PropertyType,
		Size:         p.Size,
		Rent:         p.Rent,
		Address:      p.Address,
		Amenities:    p.Amenities,
		PrimaryImage: p.PrimaryImage(),
		Landlord:     p.Landlord,
		IsVerified:   p.IsVerified,
		IsAvailable:  p.IsAvailable,
		Status:       p.Status,
		Stats:        p.Stats,
		CreatedAt:    p.CreatedAt,
	}
}

type MapProperty struct {
	ID               primitive.ObjectID `json:"id"`
	Title            string             `json:"title"`
	PropertyType     PropertyType       `json:"propertyType"`
	Rent             float64            `json:"rent"`
	Size             Size               `json:"size"`
	Coordinates      Coordinates        `json:"coordinates"`
	FormattedAddress string             `json:"formattedAddress"`
	PrimaryImage     string             `json:"primaryImage,omitempty"`
	LandlordName     string             `json:"landlordName,omitempty"`
	DistanceKm       float64            `json:"distanceKm"`
	Geohash          string             `json:"geohash,omitempty"`
}

func (p *Property) MapMarker(landlordName string, distanceKm float64) MapProperty {
	m := MapProperty{
		ID:               p.ID,
		Title:            p.Title,
		PropertyType:     p.PropertyType,
		Rent:             p.Rent.Monthly,
		Size:             p.Size,
		FormattedAddress: p.Address.Formatted(),
		LandlordName:     landlordName,
		DistanceKm:       math.Round(distanceKm*100) / 100,
		Geohash:          p.Geohash,
	}
	if p.Address.Coordinates != nil {
		m.Coordinates = *p.Address.Coordinates
	}
	if img := p.PrimaryImage(); img != nil {
		m.PrimaryImage = img.URL
	}
	return m
}
