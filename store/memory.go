package store

import (
	"ConnectSpace/geo"
	"ConnectSpace/models"
	"ConnectSpace/search"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPropertyStore keeps listings in process. It follows the same query
// semantics as the MongoDB store and backs STORE_DRIVER=memory and the tests.
type MemoryPropertyStore struct {
	mu         sync.RWMutex
	properties map[primitive.ObjectID]*models.Property
}

func NewMemoryPropertyStore() *MemoryPropertyStore {
	return &MemoryPropertyStore{properties: make(map[primitive.ObjectID]*models.Property)}
}

func cloneProperty(p *models.Property) *models.Property {
	c := *p
	c.Amenities = append([]models.Amenity{}, p.Amenities...)
	c.Images = append([]models.Image{}, p.Images...)
	c.Documents = append([]models.Document{}, p.Documents...)
	if p.Address.Coordinates != nil {
		coords := *p.Address.Coordinates
		c.Address.Coordinates = &coords
	}
	if p.Location != nil {
		loc := *p.Location
		loc.Coordinates = append([]float64(nil), p.Location.Coordinates...)
		c.Location = &loc
	}
	return &c
}

func (s *MemoryPropertyStore) Create(ctx context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[p.ID]; ok {
		return fmt.Errorf("%w: property %s", ErrDuplicate, p.ID.Hex())
	}
	for _, existing := range s.properties {
		if p.Slug != "" && existing.Slug == p.Slug {
			return fmt.Errorf("%w: slug %s", ErrDuplicate, p.Slug)
		}
	}
	s.properties[p.ID] = cloneProperty(p)
	return nil
}

func (s *MemoryPropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProperty(p), nil
}

// copyPath copies the value at one document path from src onto dst.
func copyPath(dst, src *models.Property, path string) error {
	switch path {
	case "title":
		dst.Title = src.Title
	case "description":
		dst.Description = src.Description
	case "propertyType":
		dst.PropertyType = src.PropertyType
	case "size.value":
		dst.Size.Value = src.Size.Value
	case "size.unit":
		dst.Size.Unit = src.Size.Unit
	case "rent.monthly":
		dst.Rent.Monthly = src.Rent.Monthly
	case "rent.perSqft":
		dst.Rent.PerSqft = src.Rent.PerSqft
	case "rent.currency":
		dst.Rent.Currency = src.Rent.Currency
	case "rent.securityDeposit":
		dst.Rent.SecurityDeposit = src.Rent.SecurityDeposit
	case "address.street":
		dst.Address.Street = src.Address.Street
	case "address.area":
		dst.Address.Area = src.Address.Area
	case "address.city":
		dst.Address.City = src.Address.City
	case "address.state":
		dst.Address.State = src.Address.State
	case "address.pincode":
		dst.Address.Pincode = src.Address.Pincode
	case "address.coordinates":
		dst.Address.Coordinates = src.Address.Coordinates
	case "location":
		dst.Location = src.Location
	case "geohash":
		dst.Geohash = src.Geohash
	case "amenities":
		dst.Amenities = src.Amenities
	case "images":
		dst.Images = src.Images
	case "documents":
		dst.Documents = src.Documents
	case "isAvailable":
		dst.IsAvailable = src.IsAvailable
	case "availableFrom":
		dst.AvailableFrom = src.AvailableFrom
	case "leaseTerms":
		dst.LeaseTerms = src.LeaseTerms
	case "status":
		dst.Status = src.Status
	case "slug":
		dst.Slug = src.Slug
	case "verificationStatus":
		dst.VerificationStatus = src.VerificationStatus
	case "isVerified":
		dst.IsVerified = src.IsVerified
	case "verifiedBy":
		dst.VerifiedBy = src.VerifiedBy
	case "verifiedAt":
		dst.VerifiedAt = src.VerifiedAt
	case "updatedAt":
		dst.UpdatedAt = src.UpdatedAt
	default:
		return fmt.Errorf("update property: unsupported path %q", path)
	}
	return nil
}

// applyPaths copies the listed paths from p onto a copy of stored, leaving
// every other field as stored.
func applyPaths(stored, p *models.Property, paths []string) (*models.Property, error) {
	src := cloneProperty(p)
	next := cloneProperty(stored)
	for _, path := range paths {
		if err := copyPath(next, src, path); err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (s *MemoryPropertyStore) slugTaken(id primitive.ObjectID, slug string) bool {
	for otherID, existing := range s.properties {
		if otherID != id && slug != "" && existing.Slug == slug {
			return true
		}
	}
	return false
}

func (s *MemoryPropertyStore) Update(ctx context.Context, p *models.Property, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.properties[p.ID]
	if !ok {
		return ErrNotFound
	}
	next, err := applyPaths(stored, p, paths)
	if err != nil {
		return err
	}
	if next.Slug != stored.Slug && s.slugTaken(p.ID, next.Slug) {
		return fmt.Errorf("%w: slug %s", ErrDuplicate, next.Slug)
	}
	s.properties[p.ID] = next
	return nil
}

func (s *MemoryPropertyStore) UpdateVerification(ctx context.Context, p *models.Property, from models.VerificationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.properties[p.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.VerificationStatus != from {
		return fmt.Errorf("%w: verification is %s, expected %s", ErrConflict, stored.VerificationStatus, from)
	}
	next, err := applyPaths(stored, p, models.VerificationPaths)
	if err != nil {
		return err
	}
	s.properties[p.ID] = next
	return nil
}

func (s *MemoryPropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return ErrNotFound
	}
	delete(s.properties, id)
	return nil
}

func matchRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func matchAnyAmenity(have, want []models.Amenity) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// matchText approximates $text: any term appearing in an indexed field matches.
func matchText(p *models.Property, text string) bool {
	if text == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{p.Title, p.Description, p.Address.Area, p.Address.City}, " "))
	for _, term := range strings.Fields(strings.ToLower(text)) {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func matchQuery(p *models.Property, q search.Query) bool {
	if q.Public && (p.Status != models.StatusActive || !p.IsAvailable) {
		return false
	}
	if q.Landlord != nil && p.Landlord != *q.Landlord {
		return false
	}
	if q.Status != "" && !q.Public && p.Status != q.Status {
		return false
	}
	if q.City != "" && !strings.Contains(strings.ToLower(p.Address.City), strings.ToLower(q.City)) {
		return false
	}
	if q.PropertyType != "" && p.PropertyType != q.PropertyType {
		return false
	}
	return matchRange(p.Rent.Monthly, q.MinRent, q.MaxRent) &&
		matchRange(p.Size.Value, q.MinSize, q.MaxSize) &&
		matchAnyAmenity(p.Amenities, q.Amenities) &&
		matchText(p, q.Text)
}

func compareField(a, b *models.Property, field string) int {
	cmpFloat := func(x, y float64) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	cmpTime := func(x, y time.Time) int { return x.Compare(y) }

	switch field {
	case "rent.monthly":
		return cmpFloat(a.Rent.Monthly, b.Rent.Monthly)
	case "size.value":
		return cmpFloat(a.Size.Value, b.Size.Value)
	case "stats.views":
		return cmpFloat(float64(a.Stats.Views), float64(b.Stats.Views))
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "updatedAt":
		return cmpTime(a.UpdatedAt, b.UpdatedAt)
	}
	return cmpTime(a.CreatedAt, b.CreatedAt)
}

func (s *MemoryPropertyStore) Search(ctx context.Context, q search.Query) ([]models.Property, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Property
	for _, p := range s.properties {
		if matchQuery(p, q) {
			matched = append(matched, p)
		}
	}

	dir := int(q.SortOrder)
	sort.Slice(matched, func(i, j int) bool {
		c := compareField(matched[i], matched[j], q.SortField)
		if c == 0 {
			c = strings.Compare(matched[i].ID.Hex(), matched[j].ID.Hex())
		}
		return c*dir < 0
	})

	total := int64(len(matched))
	page := []models.Property{}
	start := q.Skip()
	if start >= 0 && start < total {
		end := start + int64(q.Limit)
		if end > total || end < start {
			end = total
		}
		for _, p := range matched[start:end] {
			c := cloneProperty(p)
			c.Documents = nil
			page = append(page, *c)
		}
	}
	return page, total, nil
}

func (s *MemoryPropertyStore) Nearby(ctx context.Context, q search.GeoQuery) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type hit struct {
		p    *models.Property
		dist float64
	}
	var hits []hit
	for _, p := range s.properties {
		if !p.HasCoordinates() || p.Status != models.StatusActive || !p.IsAvailable {
			continue
		}
		if q.PropertyType != "" && p.PropertyType != q.PropertyType {
			continue
		}
		if !matchRange(p.Rent.Monthly, q.MinRent, q.MaxRent) {
			continue
		}
		c := p.Address.Coordinates
		d := geo.Haversine(q.Center, geo.Point{Lat: c.Latitude, Lng: c.Longitude})
		if d <= q.RadiusKm {
			hits = append(hits, hit{p: p, dist: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := []models.Property{}
	for i, h := range hits {
		if q.Limit > 0 && i >= q.Limit {
			break
		}
		out = append(out, *cloneProperty(h.p))
	}
	return out, nil
}

func (s *MemoryPropertyStore) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Stats.Views++
	return cloneProperty(p), nil
}

func (s *MemoryPropertyStore) IncrementInquiries(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return ErrNotFound
	}
	p.Stats.Inquiries++
	return nil
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: email %s", ErrDuplicate, u.Email)
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			u.Password = ""
			out[id] = u
		}
	}
	return out, nil
}

func (s *MemoryUserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return &u, nil
}

type MemoryFavoriteStore struct {
	mu        sync.RWMutex
	favorites []models.Favorite
}

func NewMemoryFavoriteStore() *MemoryFavoriteStore {
	return &MemoryFavoriteStore{}
}

func (s *MemoryFavoriteStore) Add(ctx context.Context, f *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.favorites {
		if existing.UserID == f.UserID && existing.PropertyID == f.PropertyID {
			return fmt.Errorf("%w: favorite", ErrDuplicate)
		}
	}
	s.favorites = append(s.favorites, *f)
	return nil
}

func (s *MemoryFavoriteStore) List(ctx context.Context, userID primitive.ObjectID) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Favorite{}
	for i := len(s.favorites) - 1; i >= 0; i-- {
		if s.favorites[i].UserID == userID {
			out = append(out, s.favorites[i])
		}
	}
	return out, nil
}

func (s *MemoryFavoriteStore) Remove(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type MemoryInquiryStore struct {
	mu        sync.RWMutex
	inquiries []models.Inquiry
}

func NewMemoryInquiryStore() *MemoryInquiryStore {
	return &MemoryInquiryStore{}
}

func (s *MemoryInquiryStore) Create(ctx context.Context, i *models.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inquiries = append(s.inquiries, *i)
	return nil
}

func (s *MemoryInquiryStore) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]models.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Inquiry{}
	for i := len(s.inquiries) - 1; i >= 0; i-- {
		if s.inquiries[i].PropertyID == propertyID {
			out = append(out, s.inquiries[i])
		}
	}
	return out, nil
}
