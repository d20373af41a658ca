// Package search turns listing query strings into typed, validated queries.
package search

import (
	"ConnectSpace/geo"
	"ConnectSpace/models"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
	MapLimit     = 100
)

var ErrInvalidQuery = errors.New("invalid query")

type SortOrder int

const (
	Desc SortOrder = -1
	Asc  SortOrder = 1
)

// sortFields maps accepted sortBy values to document paths.
var sortFields = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"title":     "title",
	"rent":      "rent.monthly",
	"monthly":   "rent.monthly",
	"price":     "rent.monthly",
	"size":      "size.value",
	"views":     "stats.views",
}

// Query is the listing filter shared by the public search and the owner's dashboard.
type Query struct {
	City         string
	PropertyType models.PropertyType
	MinRent      *float64
	MaxRent      *float64
	MinSize      *float64
	MaxSize      *float64
	Amenities    []models.Amenity
	Text         string

	SortField string
	SortOrder SortOrder
	Page      int
	Limit     int

	// Public restricts results to active, available listings.
	Public   bool
	Landlord *primitive.ObjectID
	Status   models.ListingStatus
}

func (q Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// TotalPages is ceil(total / limit).
func (q Query) TotalPages(total int64) int64 {
	if q.Limit <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(q.Limit)))
}

type GeoQuery struct {
	Center       geo.Point
	RadiusKm     float64
	PropertyType models.PropertyType
	MinRent      *float64
	MaxRent      *float64
	Limit        int
}

type parser struct {
	values url.Values
	errs   []string
}

func (p *parser) fail(format string, args ...any) {
	p.errs = append(p.errs, fmt.Sprintf(format, args...))
}

func (p *parser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(p.errs, "; "))
}

func (p *parser) str(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

func (p *parser) float(key string) *float64 {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail("%s must be a number", key)
		return nil
	}
	if v < 0 {
		p.fail("%s must not be negative", key)
		return nil
	}
	return &v
}

func (p *parser) positiveInt(key string, def, max int) int {
	raw := p.str(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		p.fail("%s must be a positive integer", key)
		return def
	}
	if max > 0 && v > max {
		p.fail("%s must not exceed %d", key, max)
		return def
	}
	return v
}

func (p *parser) propertyType() models.PropertyType {
	raw := p.str("propertyType")
	if raw == "" {
		return ""
	}
	t := models.PropertyType(raw)
	if !t.Valid() {
		p.fail("unknown propertyType %q", raw)
		return ""
	}
	return t
}

func (p *parser) bounds(minKey, maxKey string) (*float64, *float64) {
	lo, hi := p.float(minKey), p.float(maxKey)
	if lo != nil && hi != nil && *lo > *hi {
		p.fail("%s must not exceed %s", minKey, maxKey)
	}
	return lo, hi
}

// ParseQuery reads the public listing filters. Absent parameters never narrow
// the result set; malformed ones are reported together.
func ParseQuery(values url.Values) (Query, error) {
	p := &parser{values: values}
	q := p.query()
	return q, p.err()
}

// ParseOwnerQuery reads the landlord dashboard filters: same pagination and
// sort, any listing status, scoped to the landlord.
func ParseOwnerQuery(values url.Values, landlord primitive.ObjectID) (Query, error) {
	p := &parser{values: values}
	q := p.query()

	q.Public = false
	q.Landlord = &landlord
	if raw := p.str("status"); raw != "" {
		s := models.ListingStatus(raw)
		if !s.Valid() {
			p.fail("unknown status %q", raw)
		} else {
			q.Status = s
		}
	}

	return q, p.err()
}

// ParseGeoQuery reads the map view parameters; lat and lng are required.
func ParseGeoQuery(values url.Values) (GeoQuery, error) {
	p := &parser{values: values}

	q := GeoQuery{
		Center:       p.point(),
		RadiusKm:     geo.DefaultRadiusKm,
		PropertyType: p.propertyType(),
		Limit:        MapLimit,
	}
	q.MinRent, q.MaxRent = p.bounds("minRent", "maxRent")
	if r := p.float("radius"); r != nil {
		q.RadiusKm = *r
	}

	return q, p.err()
}

// ParsePoint reads a required lat/lng pair.
func ParsePoint(values url.Values) (geo.Point, error) {
	p := &parser{values: values}
	center := p.point()
	return center, p.err()
}

func (p *parser) query() Query {
	q := Query{
		City:         p.str("city"),
		PropertyType: p.propertyType(),
		Text:         p.str("search"),
		Page:         p.positiveInt("page", DefaultPage, 0),
		Limit:        p.positiveInt("limit", DefaultLimit, MaxLimit),
		Public:       true,
	}
	if int64(q.Page-1) > math.MaxInt64/int64(q.Limit) {
		p.fail("page is too large")
		q.Page = DefaultPage
	}
	q.MinRent, q.MaxRent = p.bounds("minRent", "maxRent")
	q.MinSize, q.MaxSize = p.bounds("minSize", "maxSize")

	if raw := p.str("amenities"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			a := models.Amenity(tag)
			if !a.Valid() {
				p.fail("unknown amenity %q", tag)
				continue
			}
			q.Amenities = append(q.Amenities, a)
		}
	}

	q.SortField = sortFields["createdAt"]
	if raw := p.str("sortBy"); raw != "" {
		field, ok := sortFields[raw]
		if !ok {
			p.fail("cannot sort by %q", raw)
		} else {
			q.SortField = field
		}
	}

	q.SortOrder = Desc
	switch strings.ToLower(p.str("sortOrder")) {
	case "", "desc":
	case "asc":
		q.SortOrder = Asc
	default:
		p.fail("sortOrder must be asc or desc")
	}

	return q
}

// point reads a required lat/lng pair; out-of-range values are rejected, not clamped.
func (p *parser) point() geo.Point {
	rawLat, rawLng := p.str("lat"), p.str("lng")
	if rawLat == "" || rawLng == "" {
		p.fail("lat and lng are required")
		return geo.Point{}
	}
	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lng, errLng := strconv.ParseFloat(rawLng, 64)
	if errLat != nil || errLng != nil {
		p.fail("lat and lng must be numbers")
		return geo.Point{}
	}
	pt := geo.Point{Lat: lat, Lng: lng}
	if err := pt.Validate(); err != nil {
		p.fail("%s", strings.TrimPrefix(err.Error(), geo.ErrInvalidPoint.Error()+": "))
	}
	return pt
}
