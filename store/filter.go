package store

import (
	"ConnectSpace/geo"
	"ConnectSpace/models"
	"ConnectSpace/search"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// listProjection drops the fields list views never render.
var listProjection = bson.M{"documents": 0}

func addRange(filter bson.M, field string, min, max *float64) {
	if min == nil && max == nil {
		return
	}
	bounds := bson.M{}
	if min != nil {
		bounds["$gte"] = *min
	}
	if max != nil {
		bounds["$lte"] = *max
	}
	filter[field] = bounds
}

func publicScope(filter bson.M) {
	filter["status"] = models.StatusActive
	filter["isAvailable"] = true
}

// SearchFilter builds the MongoDB predicate for a listing query.
func SearchFilter(q search.Query) bson.M {
	filter := bson.M{}

	if q.Public {
		publicScope(filter)
	}
	if q.Landlord != nil {
		filter["landlord"] = *q.Landlord
	}
	if q.Status != "" && !q.Public {
		filter["status"] = q.Status
	}
	if q.City != "" {
		filter["address.city"] = bson.M{"$regex": regexp.QuoteMeta(q.City), "$options": "i"}
	}
	if q.PropertyType != "" {
		filter["propertyType"] = q.PropertyType
	}
	addRange(filter, "rent.monthly", q.MinRent, q.MaxRent)
	addRange(filter, "size.value", q.MinSize, q.MaxSize)
	if len(q.Amenities) > 0 {
		filter["amenities"] = bson.M{"$in": q.Amenities}
	}
	if q.Text != "" {
		filter["$text"] = bson.M{"$search": q.Text}
	}

	return filter
}

// SearchSort orders by the requested field, breaking ties on _id so pages are stable.
func SearchSort(q search.Query) bson.D {
	dir := int(q.SortOrder)
	return bson.D{{Key: q.SortField, Value: dir}, {Key: "_id", Value: dir}}
}

// NearbyFilter builds the $nearSphere predicate for the map view. Documents
// without a location never match a geo predicate.
func NearbyFilter(q search.GeoQuery) bson.M {
	filter := bson.M{
		"location": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{q.Center.Lng, q.Center.Lat},
				},
				"$maxDistance": geo.MongoMaxDistance(q.RadiusKm),
			},
		},
	}
	publicScope(filter)
	if q.PropertyType != "" {
		filter["propertyType"] = q.PropertyType
	}
	addRange(filter, "rent.monthly", q.MinRent, q.MaxRent)
	return filter
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}
