package handlers

import (
	"ConnectSpace/geo"
	"ConnectSpace/logger"
	"ConnectSpace/models"
	"ConnectSpace/search"
	"ConnectSpace/store"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// poiPrecision sizes the geohash cells whose centres stand in for nearby
// places, roughly 150 m across.
const poiPrecision = 7

var poiTypes = []string{"metro_station", "bank", "restaurant", "cafe", "atm", "hospital", "bus_stop", "parking"}

type MapResponse struct {
	Success    bool                 `json:"success"`
	Properties []models.MapProperty `json:"properties"`
	Total      int                  `json:"total"`
}

type PointOfInterest struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Coordinates models.Coordinates `json:"coordinates"`
	DistanceKm  float64            `json:"distanceKm"`
}

type MapController struct {
	properties store.PropertyStore
	users      store.UserStore
}

func NewMapController(properties store.PropertyStore, users store.UserStore) *MapController {
	return &MapController{properties: properties, users: users}
}

func (mc *MapController) MapProperties(c echo.Context) error {
	ctx := c.Request().Context()

	q, err := search.ParseGeoQuery(c.QueryParams())
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	candidates, err := mc.properties.Nearby(ctx, q)
	if err != nil {
		return serverError("Failed to fetch map properties", err)
	}

	type hit struct {
		property   *models.Property
		distanceKm float64
	}
	hits := make([]hit, 0, len(candidates))
	landlordIDs := make([]primitive.ObjectID, 0, len(candidates))
	seen := make(map[primitive.ObjectID]bool)
	for i := range candidates {
		p := &candidates[i]
		if !p.HasCoordinates() {
			continue
		}
		pt := geo.Point{Lat: p.Address.Coordinates.Latitude, Lng: p.Address.Coordinates.Longitude}
		d := geo.Haversine(q.Center, pt)
		if d > q.RadiusKm {
			continue
		}
		hits = append(hits, hit{property: p, distanceKm: d})
		if !seen[p.Landlord] {
			seen[p.Landlord] = true
			landlordIDs = append(landlordIDs, p.Landlord)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distanceKm < hits[j].distanceKm })
	if len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	landlords, err := mc.users.FindByIDs(ctx, landlordIDs)
	if err != nil {
		logger.FromContext(ctx).Warn("landlord names unavailable", "error", err)
		landlords = nil
	}

	markers := make([]models.MapProperty, 0, len(hits))
	for _, h := range hits {
		markers = append(markers, h.property.MapMarker(landlords[h.property.Landlord].Name, h.distanceKm))
	}
	return c.JSON(http.StatusOK, MapResponse{Success: true, Properties: markers, Total: len(markers)})
}

// Nearby lists placeholder points of interest around a location. No places
// provider backs it; each point sits at the centre of a neighbouring geohash cell.
func (mc *MapController) Nearby(c echo.Context) error {
	center, err := search.ParsePoint(c.QueryParams())
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	filter := strings.TrimSpace(c.QueryParam("type"))
	if filter != "" && filter != "all" && !knownPOIType(filter) {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("unknown type %q", filter))
	}

	caser := cases.Title(language.English)
	cells := geo.NeighbourCells(center, poiPrecision)
	places := make([]PointOfInterest, 0, len(cells))
	for i, cell := range cells {
		kind := poiTypes[i%len(poiTypes)]
		if filter != "" && filter != "all" {
			kind = filter
		}
		places = append(places, PointOfInterest{
			ID:          geo.Encode(cell.Lat, cell.Lng),
			Name:        fmt.Sprintf("%s %d", caser.String(strings.ReplaceAll(kind, "_", " ")), i+1),
			Type:        kind,
			Coordinates: models.Coordinates{Latitude: cell.Lat, Longitude: cell.Lng},
			DistanceKm:  math.Round(geo.Haversine(center, cell)*100) / 100,
		})
	}
	sort.SliceStable(places, func(i, j int) bool { return places[i].DistanceKm < places[j].DistanceKm })

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "places": places})
}

func knownPOIType(t string) bool {
	for _, known := range poiTypes {
		if known == t {
			return true
		}
	}
	return false
}
