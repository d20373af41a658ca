package routes

import (
	"ConnectSpace/cache"
	"ConnectSpace/events"
	"ConnectSpace/handlers"
	"ConnectSpace/logger"
	"ConnectSpace/middleware"
	"ConnectSpace/models"
	"ConnectSpace/payments"
	"ConnectSpace/store"
	"ConnectSpace/utils"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testServer struct {
	e          *echo.Echo
	tokens     *utils.TokenManager
	properties *store.MemoryPropertyStore
	users      *store.MemoryUserStore
	events     *events.Recorder
	gateway    *payments.SandboxGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	gateway, err := payments.NewSandboxGateway("sandbox-secret")
	require.NoError(t, err)

	ts := &testServer{
		tokens:     tokens,
		properties: store.NewMemoryPropertyStore(),
		users:      store.NewMemoryUserStore(),
		events:     events.NewRecorder(),
		gateway:    gateway,
	}
	favorites := store.NewMemoryFavoriteStore()
	inquiries := store.NewMemoryInquiryStore()

	ts.e = NewEcho(ServerOptions{Logger: logger.Discard(), RequestTimeout: 5 * time.Second})
	RegisterRoutes(ts.e, Controllers{
		Properties: handlers.NewPropertyController(ts.properties, inquiries, cache.NewMemoryCache(), ts.events),
		Maps:       handlers.NewMapController(ts.properties, ts.users),
		Users:      handlers.NewUserController(ts.users, tokens, []string{"Ops@ConnectSpace.in"}),
		Favorites:  handlers.NewFavoriteController(favorites, ts.properties),
		Payments:   handlers.NewPaymentController(gateway),
		Health:     handlers.NewHealthController(map[string]handlers.Check{}),
	}, tokens)
	return ts
}

// user stores an account with the given role and returns a bearer token for it.
func (ts *testServer) user(t *testing.T, name, role string) (primitive.ObjectID, string) {
	t.Helper()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     strings.ToLower(name) + "@example.com",
		Name:      name,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, ts.users.Create(context.Background(), &u))
	token, err := ts.tokens.GenerateJWT(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return u.ID, token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func officeBody(title string, monthly, size float64, coords *models.Coordinates) map[string]interface{} {
	address := map[string]interface{}{
		"street":  "14 Nariman Point",
		"area":    "Nariman Point",
		"city":    "Mumbai",
		"state":   "Maharashtra",
		"pincode": "400021",
	}
	if coords != nil {
		address["coordinates"] = coords
	}
	return map[string]interface{}{
		"title":        title,
		"description":  "Fully furnished floor plate",
		"propertyType": "office",
		"size":         map[string]interface{}{"value": size, "unit": "sqft"},
		"rent":         map[string]interface{}{"monthly": monthly},
		"address":      address,
		"amenities":    []string{"parking", "wifi"},
		"status":       "active",
	}
}

func (ts *testServer) create(t *testing.T, token string, body interface{}) *models.Property {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/properties", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp handlers.PropertyResponse
	decode(t, rec, &resp)
	require.NotNil(t, resp.Property)
	return resp.Property
}

func listIDs(t *testing.T, rec *httptest.ResponseRecorder) (handlers.PropertyListResponse, []primitive.ObjectID) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handlers.PropertyListResponse
	decode(t, rec, &resp)
	ids := make([]primitive.ObjectID, 0, len(resp.Properties))
	for _, p := range resp.Properties {
		ids = append(ids, p.ID)
	}
	return resp, ids
}

func TestModernOfficeScenario(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)

	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))
	assert.Equal(t, 50.0, created.Rent.PerSqft)
	assert.Equal(t, "INR", created.Rent.Currency)
	assert.Equal(t, models.VerificationPending, created.VerificationStatus)
	suffix := created.ID.Hex()[18:]
	assert.Equal(t, "modern-office-"+suffix, created.Slug)

	_, ids := listIDs(t, ts.do(t, http.MethodGet, "/properties?minRent=40000&maxRent=60000", "", nil))
	assert.Contains(t, ids, created.ID)

	_, ids = listIDs(t, ts.do(t, http.MethodGet, "/properties?minRent=60001", "", nil))
	assert.NotContains(t, ids, created.ID)

	path := "/properties/" + created.ID.Hex()
	rec := ts.do(t, http.MethodPut, path, landlord, map[string]interface{}{"title": "Modern Office Deluxe"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var renamed handlers.PropertyResponse
	decode(t, rec, &renamed)
	assert.Equal(t, "modern-office-deluxe-"+suffix, renamed.Property.Slug)

	rec = ts.do(t, http.MethodPut, path, landlord, map[string]interface{}{"rent": map[string]interface{}{"monthly": 55000}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var repriced handlers.PropertyResponse
	decode(t, rec, &repriced)
	assert.Equal(t, 55.0, repriced.Property.Rent.PerSqft)
	assert.Equal(t, 55000.0, repriced.Property.Rent.Monthly)
	assert.Equal(t, renamed.Property.Slug, repriced.Property.Slug)

	stored, err := ts.properties.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.0, stored.Rent.PerSqft)
	assert.Equal(t, "Modern Office Deluxe", stored.Title)

	assert.Equal(t, 1, ts.events.Count(events.SubjectPropertyCreated))
	assert.Equal(t, 2, ts.events.Count(events.SubjectPropertyUpdated))
}

func TestSearchSeesUpdatesThroughCache(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	created := ts.create(t, landlord, officeBody("Corner Office", 50000, 1000, nil))

	_, ids := listIDs(t, ts.do(t, http.MethodGet, "/properties?maxRent=52000", "", nil))
	assert.Contains(t, ids, created.ID)

	rec := ts.do(t, http.MethodPut, "/properties/"+created.ID.Hex(), landlord, map[string]interface{}{"rent": map[string]interface{}{"monthly": 60000}})
	require.Equal(t, http.StatusOK, rec.Code)

	_, ids = listIDs(t, ts.do(t, http.MethodGet, "/properties?maxRent=52000", "", nil))
	assert.NotContains(t, ids, created.ID)
}

func TestViewCount(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))

	const n = 5
	var last handlers.PropertyResponse
	for i := 0; i < n; i++ {
		rec := ts.do(t, http.MethodGet, "/properties/"+created.ID.Hex(), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &last)
	}
	assert.Equal(t, int64(n), last.Property.Stats.Views)
	assert.Equal(t, n, ts.events.Count(events.SubjectPropertyViewed))

	// A general update never touches the counters.
	rec := ts.do(t, http.MethodPut, "/properties/"+created.ID.Hex(), landlord, map[string]interface{}{"description": "Refreshed"})
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := ts.properties.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), stored.Stats.Views)
}

func TestIdempotentUpdate(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	body := officeBody("Modern Office", 50000, 1000, &models.Coordinates{Latitude: 18.9256, Longitude: 72.8242})
	created := ts.create(t, landlord, body)

	before, err := ts.properties.FindByID(context.Background(), created.ID)
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPut, "/properties/"+created.ID.Hex(), landlord, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	after, err := ts.properties.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, created.Slug, after.Slug)
	assert.Zero(t, ts.events.Count(events.SubjectPropertyUpdated))
}

func TestPropertyAuthorization(t *testing.T) {
	ts := newTestServer(t)
	_, owner := ts.user(t, "Owner", models.RoleLandlord)
	_, other := ts.user(t, "Other", models.RoleLandlord)
	_, tenant := ts.user(t, "Tenant", models.RoleTenant)
	created := ts.create(t, owner, officeBody("Modern Office", 50000, 1000, nil))
	path := "/properties/" + created.ID.Hex()
	update := map[string]interface{}{"title": "Hijacked"}

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"create without token", http.MethodPost, "/properties", "", officeBody("X Office", 1, 1, nil), http.StatusUnauthorized},
		{"create with garbage token", http.MethodPost, "/properties", "not-a-jwt", officeBody("X Office", 1, 1, nil), http.StatusUnauthorized},
		{"create as tenant", http.MethodPost, "/properties", tenant, officeBody("X Office", 1, 1, nil), http.StatusForbidden},
		{"update by other landlord", http.MethodPut, path, other, update, http.StatusForbidden},
		{"delete by other landlord", http.MethodDelete, path, other, nil, http.StatusForbidden},
		{"update unknown property", http.MethodPut, "/properties/" + primitive.NewObjectID().Hex(), owner, update, http.StatusNotFound},
		{"update malformed id", http.MethodPut, "/properties/PROP1001", owner, update, http.StatusBadRequest},
		{"get unknown property", http.MethodGet, "/properties/" + primitive.NewObjectID().Hex(), "", nil, http.StatusNotFound},
		{"get malformed id", http.MethodGet, "/properties/nope", "", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			var body models.ErrorResponse
			decode(t, rec, &body)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}

	rec := ts.do(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRejectsInvalidBody(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)

	body := officeBody("Modern Office", 50000, 1000, nil)
	body["address"].(map[string]interface{})["pincode"] = "12"
	rec := ts.do(t, http.MethodPost, "/properties", landlord, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "address.pincode")

	rec = ts.do(t, http.MethodPost, "/properties", landlord, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOversizedBodyRejected(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))

	body := officeBody("Modern Office", 50000, 1000, nil)
	body["description"] = strings.Repeat("a", 2<<20)

	rec := ts.do(t, http.MethodPost, "/properties", landlord, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	rec = ts.do(t, http.MethodPut, "/properties/"+created.ID.Hex(), landlord, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHugePageRejected(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))

	rec := ts.do(t, http.MethodGet, "/properties?page=768614336404564652", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "page is too large")
}

func TestListValidationAndPagination(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	for i := 0; i < 3; i++ {
		ts.create(t, landlord, officeBody("Office Suite", 40000+float64(i), 800, nil))
	}
	draft := officeBody("Hidden Draft", 45000, 900, nil)
	delete(draft, "status")
	hidden := ts.create(t, landlord, draft)
	assert.Equal(t, models.StatusDraft, hidden.Status)

	resp, ids := listIDs(t, ts.do(t, http.MethodGet, "/properties?limit=2&sortBy=rent&sortOrder=asc", "", nil))
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, int64(2), resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage)
	require.Len(t, ids, 2)
	assert.Equal(t, 40000.0, resp.Properties[0].Rent.Monthly)

	resp, ids = listIDs(t, ts.do(t, http.MethodGet, "/properties?limit=2&page=9", "", nil))
	assert.Empty(t, ids)
	assert.Equal(t, int64(3), resp.Total)
	assert.NotNil(t, resp.Properties)

	rec := ts.do(t, http.MethodGet, "/properties?minRent=cheap", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp, ids = listIDs(t, ts.do(t, http.MethodGet, "/properties/landlord/my-properties?status=draft", landlord, nil))
	assert.Equal(t, []primitive.ObjectID{hidden.ID}, ids)
	assert.Equal(t, int64(1), resp.Total)
}

func TestMapProperties(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)

	center := models.Coordinates{Latitude: 19.0760, Longitude: 72.8777}
	near := ts.create(t, landlord, officeBody("Central Office", 50000, 1000, &center))
	far := ts.create(t, landlord, officeBody("Suburban Office", 30000, 1000, &models.Coordinates{Latitude: 19.2500, Longitude: 72.8777}))
	ts.create(t, landlord, officeBody("Unmapped Office", 30000, 1000, nil))

	rec := ts.do(t, http.MethodGet, "/maps/properties?lat=19.0760&lng=72.8777&radius=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handlers.MapResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Properties, 1)
	marker := resp.Properties[0]
	assert.Equal(t, near.ID, marker.ID)
	assert.Zero(t, marker.DistanceKm)
	assert.Equal(t, "Asha", marker.LandlordName)
	assert.Equal(t, 50000.0, marker.Rent)
	assert.Len(t, marker.Geohash, 9)

	rec = ts.do(t, http.MethodGet, "/maps/properties?lat=19.0760&lng=72.8777&radius=50", "", nil)
	decode(t, rec, &resp)
	require.Len(t, resp.Properties, 2)
	assert.Equal(t, near.ID, resp.Properties[0].ID)
	assert.Equal(t, far.ID, resp.Properties[1].ID)

	rec = ts.do(t, http.MethodGet, "/maps/properties?lat=95&lng=72.8777", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(t, http.MethodGet, "/maps/properties?lng=72.8777", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearbyPlaces(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/maps/nearby?lat=19.0760&lng=72.8777&type=bank", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Places []handlers.PointOfInterest `json:"places"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Places, 8)
	for i, p := range resp.Places {
		assert.Equal(t, "bank", p.Type)
		assert.Less(t, p.DistanceKm, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, p.DistanceKm, resp.Places[i-1].DistanceKm)
		}
	}

	rec = ts.do(t, http.MethodGet, "/maps/nearby?lat=19.0760&lng=72.8777&type=casino", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificationFlow(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	adminID, admin := ts.user(t, "Root", models.RoleAdmin)
	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))
	path := "/properties/" + created.ID.Hex() + "/verification"

	rec := ts.do(t, http.MethodPatch, path, landlord, map[string]string{"status": "verified"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPatch, path, admin, map[string]string{"status": "verified"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "pending cannot jump to verified")

	rec = ts.do(t, http.MethodPatch, path, admin, map[string]string{"status": "in_review"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPatch, path, admin, map[string]string{"status": "verified"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handlers.PropertyResponse
	decode(t, rec, &resp)
	assert.True(t, resp.Property.IsVerified)
	require.NotNil(t, resp.Property.VerifiedBy)
	assert.Equal(t, adminID, *resp.Property.VerifiedBy)
	assert.NotNil(t, resp.Property.VerifiedAt)

	rec = ts.do(t, http.MethodPatch, path, admin, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "verified is terminal")

	rec = ts.do(t, http.MethodPatch, path, admin, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// moderatedStore lets another moderator's decision land between the handler's
// read and its write.
type moderatedStore struct {
	*store.MemoryPropertyStore
	interleave func(p *models.Property)
}

func (s *moderatedStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	p, err := s.MemoryPropertyStore.FindByID(ctx, id)
	if err == nil && s.interleave != nil {
		s.interleave(p)
	}
	return p, err
}

func TestConcurrentVerificationConflict(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	otherAdmin, admin := ts.user(t, "Root", models.RoleAdmin)
	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))
	path := "/properties/" + created.ID.Hex() + "/verification"
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPatch, path, admin, map[string]string{"status": "in_review"}).Code)

	racing := &moderatedStore{MemoryPropertyStore: ts.properties}
	racing.interleave = func(seen *models.Property) {
		racing.interleave = nil
		winner := *seen
		require.NoError(t, winner.Transition(models.VerificationVerified, otherAdmin, time.Now().UTC()))
		require.NoError(t, ts.properties.UpdateVerification(context.Background(), &winner, seen.VerificationStatus))
	}

	e := NewEcho(ServerOptions{Logger: logger.Discard()})
	RegisterRoutes(e, Controllers{
		Properties: handlers.NewPropertyController(racing, store.NewMemoryInquiryStore(), cache.NewMemoryCache(), events.NewRecorder()),
		Maps:       handlers.NewMapController(racing, ts.users),
		Users:      handlers.NewUserController(ts.users, ts.tokens, nil),
		Favorites:  handlers.NewFavoriteController(store.NewMemoryFavoriteStore(), racing),
		Payments:   handlers.NewPaymentController(ts.gateway),
		Health:     handlers.NewHealthController(map[string]handlers.Check{}),
	}, ts.tokens)

	body, err := json.Marshal(map[string]string{"status": "rejected"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+admin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	stored, err := ts.properties.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, stored.VerificationStatus)
	assert.True(t, stored.IsVerified)
}

func TestInquiries(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	_, otherLandlord := ts.user(t, "Other", models.RoleLandlord)
	tenantID, tenant := ts.user(t, "Tenant", models.RoleTenant)
	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))
	path := "/properties/" + created.ID.Hex() + "/inquiries"

	rec := ts.do(t, http.MethodPost, path, tenant, map[string]string{"message": "Is it available from March?", "contactPhone": "+919812345678"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, path, tenant, map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, path, landlord, map[string]string{"message": "self"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/properties/"+primitive.NewObjectID().Hex()+"/inquiries", tenant, map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, path, landlord, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Inquiries []models.Inquiry `json:"inquiries"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Inquiries, 1)
	assert.Equal(t, tenantID, list.Inquiries[0].TenantID)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, path, otherLandlord, nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, path, tenant, nil).Code)

	stored, err := ts.properties.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Stats.Inquiries)
	assert.Equal(t, 1, ts.events.Count(events.SubjectPropertyInquired))
}

func TestFavorites(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	_, tenant := ts.user(t, "Tenant", models.RoleTenant)
	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))
	body := map[string]string{"propertyId": created.ID.Hex()}

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/favorites", "", nil).Code)
	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/favorites", tenant, body).Code)
	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/favorites", tenant, body).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/favorites", tenant, map[string]string{"propertyId": primitive.NewObjectID().Hex()}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/favorites", tenant, map[string]string{"propertyId": "PROP1001"}).Code)

	rec := ts.do(t, http.MethodGet, "/favorites", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Favorites []models.Favorite `json:"favorites"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Favorites, 1)
	assert.Equal(t, created.ID, list.Favorites[0].PropertyID)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, "/favorites/"+created.ID.Hex(), tenant, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/favorites/"+created.ID.Hex(), tenant, nil).Code)
}

func TestRegisterLoginProfile(t *testing.T) {
	ts := newTestServer(t)
	register := map[string]string{
		"email":    "Priya@Example.com",
		"password": "hunter22",
		"name":     "Priya",
		"role":     "landlord",
	}

	rec := ts.do(t, http.MethodPost, "/auth/register", "", register)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var registered models.LoginResponse
	decode(t, rec, &registered)
	assert.True(t, registered.Success)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "priya@example.com", registered.User.Email)
	assert.Empty(t, registered.User.Password)

	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/auth/register", "", register).Code)

	admin := map[string]string{"email": "evil@example.com", "password": "hunter22", "name": "Evil", "role": "admin"}
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/auth/register", "", admin).Code)

	rec = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "priya@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "priya@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code)
	var loggedIn models.LoginResponse
	decode(t, rec, &loggedIn)

	rec = ts.do(t, http.MethodPut, "/auth/me", loggedIn.Token, map[string]string{"name": "Priya S"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/auth/me", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User models.User `json:"user"`
	}
	decode(t, rec, &me)
	assert.Equal(t, "Priya S", me.User.Name)
	assert.Equal(t, models.RoleLandlord, me.User.Role)
}

func TestConfiguredAdminRegistration(t *testing.T) {
	ts := newTestServer(t)
	_, landlord := ts.user(t, "Asha", models.RoleLandlord)
	created := ts.create(t, landlord, officeBody("Modern Office", 50000, 1000, nil))

	rec := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    " ops@connectspace.in ",
		"password": "hunter22",
		"name":     "Ops",
		"role":     "tenant",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var registered models.LoginResponse
	decode(t, rec, &registered)
	assert.Equal(t, models.RoleAdmin, registered.User.Role)

	path := "/properties/" + created.ID.Hex() + "/verification"
	rec = ts.do(t, http.MethodPatch, path, registered.Token, map[string]string{"status": "in_review"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPayments(t *testing.T) {
	ts := newTestServer(t)
	_, tenant := ts.user(t, "Tenant", models.RoleTenant)

	rec := ts.do(t, http.MethodPost, "/payments/create-order", tenant, map[string]interface{}{"amount": 5000000, "receipt": "deposit-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Order payments.Order `json:"order"`
	}
	decode(t, rec, &created)
	assert.True(t, strings.HasPrefix(created.Order.ID, "order_"))

	sig := ts.gateway.Sign(created.Order.ID, "pay_123")
	rec = ts.do(t, http.MethodPost, "/payments/verify", tenant, map[string]string{"orderId": created.Order.ID, "paymentId": "pay_123", "signature": sig})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/payments/verify", tenant, map[string]string{"orderId": created.Order.ID, "paymentId": "pay_999", "signature": sig})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/payments/refund", tenant, map[string]interface{}{"paymentId": "pay_123", "amount": 1000})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/payments/create-order", tenant, map[string]interface{}{"amount": 0, "receipt": "deposit-2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/payments/refund", "", nil).Code)
}

func TestHealthAndTraceID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(middleware.TraceHeader))
	assert.NoError(t, err)

	traceID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.TraceHeader, traceID)
	rec = httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	assert.Equal(t, traceID, rec.Header().Get(middleware.TraceHeader))

	rec = ts.do(t, http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body models.ErrorResponse
	decode(t, rec, &body)
	assert.False(t, body.Success)
}
