// Package geo holds the spherical-earth helpers behind the map view.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmcloughlin/geohash"
)

const (
	// EarthRadiusKm is the mean radius used by Haversine.
	EarthRadiusKm = 6371.0

	// MongoEarthRadiusKm is the radius MongoDB assumes for GeoJSON $nearSphere distances.
	MongoEarthRadiusKm = 6378.1

	DefaultRadiusKm = 10.0

	// Precision of the geohash stored on each listing (~5m cells).
	MarkerPrecision = 9
)

var ErrInvalidPoint = errors.New("invalid coordinates")

type Point struct {
	Lat float64
	Lng float64
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidPoint, p.Lat)
	}
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidPoint, p.Lng)
	}
	return nil
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180.0
	lon1 := a.Lng * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	lon2 := b.Lng * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLon / 2)
	vSin *= vSin

	h := hSin + math.Cos(lat1)*math.Cos(lat2)*vSin
	if h > 1 {
		h = 1
	}

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Within reports whether p lies inside the circle of radiusKm around center.
func Within(center, p Point, radiusKm float64) bool {
	return Haversine(center, p) <= radiusKm
}

// MongoMaxDistance converts a radius in km into the metre bound for $nearSphere,
// scaled so the store never drops a point that Haversine keeps.
func MongoMaxDistance(radiusKm float64) float64 {
	return radiusKm * 1000 * MongoEarthRadiusKm / EarthRadiusKm
}

func Encode(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, MarkerPrecision)
}

// NeighbourCells returns the centres of the eight cells around p at the given precision.
func NeighbourCells(p Point, precision uint) []Point {
	hash := geohash.EncodeWithPrecision(p.Lat, p.Lng, precision)
	neighbours := geohash.Neighbors(hash)

	out := make([]Point, 0, len(neighbours))
	for _, n := range neighbours {
		lat, lng := geohash.DecodeCenter(n)
		out = append(out, Point{Lat: lat, Lng: lng})
	}
	return out
}
