package physics

import (
	"math"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"
)

// Constants
const (
	EarthRadiusKm = 6371.0 // Mean Earth radius
	FeetToMeters  = 0.3048 // Conversion factor from feet to meters
	DegToRad      = math.Pi / 180
	RadToDeg      = 180 / math.Pi
)

// Point is a geodetic position in decimal degrees
type Point struct {
	Lat float64
	Lon float64
}

// ------------------------------------------------------------------------------------------------
// ROUTE GEOMETRY
// ------------------------------------------------------------------------------------------------

// Interpolate returns the point at fraction f of the straight lat/lon segment from a to b.
// f is clamped to [0, 1].
func Interpolate(a, b Point, f float64) Point {
	f = Clamp01(f)
	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*f,
		Lon: a.Lon + (b.Lon-a.Lon)*f,
	}
}

// PlanarHeading returns the compass direction from a to b treating lat/lon as a flat grid.
// The result is in [0, 360). Identical points yield 0.
func PlanarHeading(a, b Point) float64 {
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon
	if dLat == 0 && dLon == 0 {
		return 0
	}
	// atan2(east, north) is already a compass bearing
	return NormalizeHeading(math.Atan2(dLon, dLat) * RadToDeg)
}

// NormalizeHeading wraps any angle into [0, 360)
func NormalizeHeading(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	return h
}

// HaversineKm returns the great-circle distance between two points in kilometers
func HaversineKm(a, b Point) float64 {
	lat1 := a.Lat * DegToRad
	lat2 := b.Lat * DegToRad
	dLat := (b.Lat - a.Lat) * DegToRad
	dLon := (b.Lon - a.Lon) * DegToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Clamp01 bounds f to [0, 1]
func Clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// ------------------------------------------------------------------------------------------------
// MAGNETICS
// ------------------------------------------------------------------------------------------------

// CalculateMagneticVariation calculates the magnetic declination for a given position and time
// Returns declination in degrees (+East, -West)
func CalculateMagneticVariation(lat, lon, altFt float64, date time.Time) float64 {
	altM := altFt * FeetToMeters

	loc := egm96.NewLocationGeodetic(lat, lon, altM)

	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		// Outside the model's validity window
		return 0.0
	}

	return mag.D()
}

// MagneticHeading converts a true heading into a magnetic one at the given position and time
func MagneticHeading(trueHeading float64, p Point, altFt float64, date time.Time) float64 {
	return NormalizeHeading(trueHeading - CalculateMagneticVariation(p.Lat, p.Lon, altFt, date))
}
