package handlers

import (
	"ConnectSpace/cache"
	"ConnectSpace/events"
	"ConnectSpace/logger"
	"ConnectSpace/middleware"
	"ConnectSpace/models"
	"ConnectSpace/search"
	"ConnectSpace/store"
	"ConnectSpace/utils"
	"ConnectSpace/validation"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const listCacheNamespace = "properties"

type PropertyListResponse struct {
	Success     bool                     `json:"success"`
	Properties  []models.PropertySummary `json:"properties"`
	TotalPages  int64                    `json:"totalPages"`
	CurrentPage int                      `json:"currentPage"`
	Total       int64                    `json:"total"`
}

type PropertyResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Property *models.Property `json:"property"`
}

type PropertyController struct {
	properties store.PropertyStore
	inquiries  store.InquiryStore
	cache      cache.Cache
	events     events.Publisher
	now        func() time.Time
}

func NewPropertyController(properties store.PropertyStore, inquiries store.InquiryStore, c cache.Cache, pub events.Publisher) *PropertyController {
	return &PropertyController{
		properties: properties,
		inquiries:  inquiries,
		cache:      c,
		events:     pub,
		now:        time.Now,
	}
}

func (pc *PropertyController) ListProperties(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	params := c.QueryParams()

	q, err := search.ParseQuery(params)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	cacheKey, err := pc.cache.Key(ctx, listCacheNamespace, params)
	if err != nil {
		log.Warn("cache key unavailable", "error", err)
	} else {
		var cached PropertyListResponse
		hit, err := pc.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn("cache read failed", "error", err)
		} else if hit {
			return c.JSON(http.StatusOK, cached)
		}
	}

	resp, err := pc.search(c, q)
	if err != nil {
		return err
	}

	if cacheKey != "" {
		if err := pc.cache.Set(ctx, cacheKey, resp); err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (pc *PropertyController) MyProperties(c echo.Context) error {
	q, err := search.ParseOwnerQuery(c.QueryParams(), principal(c).UserID)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	resp, err := pc.search(c, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (pc *PropertyController) search(c echo.Context, q search.Query) (PropertyListResponse, error) {
	properties, total, err := pc.properties.Search(c.Request().Context(), q)
	if err != nil {
		return PropertyListResponse{}, serverError("Failed to fetch properties", err)
	}

	summaries := make([]models.PropertySummary, 0, len(properties))
	for i := range properties {
		summaries = append(summaries, properties[i].Summary())
	}
	return PropertyListResponse{
		Success:     true,
		Properties:  summaries,
		TotalPages:  q.TotalPages(total),
		CurrentPage: q.Page,
		Total:       total,
	}, nil
}

func (pc *PropertyController) GetProperty(c echo.Context) error {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid property ID")
	}

	property, err := pc.properties.IncrementViews(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Property not found")
	}
	if err != nil {
		return serverError("Failed to fetch property", err)
	}

	pc.publish(c, events.SubjectPropertyViewed, property, "")
	return c.JSON(http.StatusOK, PropertyResponse{Success: true, Property: property})
}

func (pc *PropertyController) CreateProperty(c echo.Context) error {
	body, ok, err := readBody(c)
	if !ok {
		return err
	}
	if err := validation.PropertyCreate(body); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var in models.PropertyInput
	if err := json.Unmarshal(body, &in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	property := models.NewProperty(in, principal(c).UserID, pc.now().UTC())
	err = pc.properties.Create(c.Request().Context(), property)
	if errors.Is(err, store.ErrDuplicate) {
		return fail(c, http.StatusConflict, "Property with this slug already exists")
	}
	if err != nil {
		return serverError("Failed to create property", err)
	}

	pc.invalidate(c)
	pc.publish(c, events.SubjectPropertyCreated, property, string(property.Status))
	return c.JSON(http.StatusCreated, PropertyResponse{
		Success:  true,
		Message:  "Property created successfully",
		Property: property,
	})
}

// loadOwned fetches the property named in the path and checks that the caller
// owns it. On failure the response has already been written.
func (pc *PropertyController) loadOwned(c echo.Context, action string) (*models.Property, bool, error) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return nil, false, fail(c, http.StatusBadRequest, "Invalid property ID")
	}
	property, err := pc.properties.FindByID(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, fail(c, http.StatusNotFound, "Property not found")
	}
	if err != nil {
		return nil, false, serverError("Failed to fetch property", err)
	}
	if property.Landlord != principal(c).UserID {
		return nil, false, fail(c, http.StatusForbidden, "You are not authorized to "+action+" this property")
	}
	return property, true, nil
}

func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	property, ok, err := pc.loadOwned(c, "update")
	if !ok {
		return err
	}

	body, ok, err := readBody(c)
	if !ok {
		return err
	}
	if err := validation.PropertyUpdate(body); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var in models.PropertyInput
	if err := json.Unmarshal(body, &in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	paths := in.Update(property, pc.now().UTC())
	if len(paths) > 0 {
		err := pc.properties.Update(c.Request().Context(), property, paths)
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Property not found")
		}
		if errors.Is(err, store.ErrDuplicate) {
			return fail(c, http.StatusConflict, "Property with this slug already exists")
		}
		if err != nil {
			return serverError("Failed to update property", err)
		}
		pc.invalidate(c)
		pc.publish(c, events.SubjectPropertyUpdated, property, string(property.Status))
	}

	return c.JSON(http.StatusOK, PropertyResponse{
		Success:  true,
		Message:  "Property updated successfully",
		Property: property,
	})
}

func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	property, ok, err := pc.loadOwned(c, "delete")
	if !ok {
		return err
	}

	err = pc.properties.Delete(c.Request().Context(), property.ID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Property not found")
	}
	if err != nil {
		return serverError("Failed to delete property", err)
	}

	pc.invalidate(c)
	pc.publish(c, events.SubjectPropertyDeleted, property, "")
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Property deleted successfully"})
}

func (pc *PropertyController) UpdateVerification(c echo.Context) error {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid property ID")
	}
	var req models.VerificationRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx := c.Request().Context()
	property, err := pc.properties.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Property not found")
	}
	if err != nil {
		return serverError("Failed to fetch property", err)
	}

	from := property.VerificationStatus
	if err := property.Transition(req.Status, principal(c).UserID, pc.now().UTC()); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	err = pc.properties.UpdateVerification(ctx, property, from)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Property not found")
	}
	if errors.Is(err, store.ErrConflict) {
		return fail(c, http.StatusConflict, "Verification status was changed by another request")
	}
	if err != nil {
		return serverError("Failed to update verification", err)
	}

	pc.invalidate(c)
	pc.publish(c, events.SubjectPropertyVerification, property, string(property.VerificationStatus))
	return c.JSON(http.StatusOK, PropertyResponse{
		Success:  true,
		Message:  "Verification status updated",
		Property: property,
	})
}

func (pc *PropertyController) CreateInquiry(c echo.Context) error {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "Invalid property ID")
	}
	var req models.InquiryRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ctx := c.Request().Context()
	caller := principal(c)
	property, err := pc.properties.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Property not found")
	}
	if err != nil {
		return serverError("Failed to fetch property", err)
	}
	if property.Landlord == caller.UserID {
		return fail(c, http.StatusBadRequest, "You cannot inquire about your own property")
	}

	inquiry := models.Inquiry{
		ID:           primitive.NewObjectID(),
		PropertyID:   property.ID,
		TenantID:     caller.UserID,
		Message:      req.Message,
		ContactPhone: req.ContactPhone,
		CreatedAt:    pc.now().UTC(),
	}
	if err := pc.inquiries.Create(ctx, &inquiry); err != nil {
		return serverError("Failed to record inquiry", err)
	}
	if err := pc.properties.IncrementInquiries(ctx, property.ID); err != nil {
		logger.FromContext(ctx).Warn("inquiry counter not incremented", "property_id", property.ID.Hex(), "error", err)
	}

	pc.publish(c, events.SubjectPropertyInquired, property, "")
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Inquiry sent successfully",
		"inquiry": inquiry,
	})
}

func (pc *PropertyController) ListInquiries(c echo.Context) error {
	property, ok, err := pc.loadOwned(c, "view inquiries for")
	if !ok {
		return err
	}

	inquiries, err := pc.inquiries.ListByProperty(c.Request().Context(), property.ID)
	if err != nil {
		return serverError("Failed to fetch inquiries", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "inquiries": inquiries})
}

func (pc *PropertyController) invalidate(c echo.Context) {
	ctx := c.Request().Context()
	if err := pc.cache.Invalidate(ctx, listCacheNamespace); err != nil {
		logger.FromContext(ctx).Warn("cache invalidation failed", "error", err)
	}
}

func (pc *PropertyController) publish(c echo.Context, subject string, p *models.Property, status string) {
	ctx := c.Request().Context()
	event := events.PropertyEvent{
		PropertyID: p.ID.Hex(),
		Status:     status,
		OccurredAt: pc.now().UTC(),
	}
	if caller, ok := middleware.PrincipalFrom(c); ok {
		event.ActorID = caller.UserID.Hex()
	}
	if err := pc.events.Publish(ctx, subject, event); err != nil {
		logger.FromContext(ctx).Warn("event not published", "subject", subject, "error", err)
	}
}

// readBody reads the raw request body. Oversized bodies surface the 413 raised
// by the body limit middleware.
func readBody(c echo.Context) ([]byte, bool, error) {
	body, err := io.ReadAll(c.Request().Body)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return nil, false, he
	}
	if err != nil {
		return nil, false, fail(c, http.StatusBadRequest, "Invalid request body")
	}
	return body, true, nil
}
