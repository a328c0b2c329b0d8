package flights

import (
	"errors"
	"fmt"
	"time"

	"github.com/yegors/flightboard/internal/airports"
	"github.com/yegors/flightboard/internal/physics"
	"github.com/yegors/flightboard/pkg/logger"
)

const (
	// Assumed cruise level for estimated live blocks
	estimatedCruiseAltitudeFt = 37000.0
)

// ErrUnknownAirport is returned when a route endpoint has no catalog coordinates
var ErrUnknownAirport = errors.New("airport has no known coordinates")

// StatusAt classifies a flight against now. Checked in order: before
// departure is scheduled, after arrival is landed, anything else is active.
func StatusAt(departure, arrival, now time.Time) Status {
	if now.Before(departure) {
		return StatusScheduled
	}
	if now.After(arrival) {
		return StatusLanded
	}
	return StatusActive
}

// ScheduledTimes parses the scheduled departure and arrival of a record
func ScheduledTimes(r *FlightRecord, now time.Time) (time.Time, time.Time, error) {
	dep, err := ParseTimestamp(r.Departure.Scheduled, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("departure %q: %w", r.Departure.Scheduled, err)
	}
	arr, err := ParseTimestamp(r.Arrival.Scheduled, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("arrival %q: %w", r.Arrival.Scheduled, err)
	}
	return dep, arr, nil
}

// StateDeriver recomputes lifecycle status from scheduled timestamps and keeps
// the live block in step with it
type StateDeriver struct {
	catalog *airports.Catalog
	logger  *logger.Logger
}

// NewStateDeriver creates a deriver that estimates positions from the catalog
func NewStateDeriver(catalog *airports.Catalog, logger *logger.Logger) *StateDeriver {
	return &StateDeriver{
		catalog: catalog,
		logger:  logger.Named("flight-state"),
	}
}

// Derive updates a single record in place. On error the record is left
// exactly as it was.
func (d *StateDeriver) Derive(r *FlightRecord, now time.Time) error {
	dep, arr, err := ScheduledTimes(r, now)
	if err != nil {
		return err
	}

	status := StatusAt(dep, arr, now)
	if status != StatusActive {
		r.FlightStatus = status
		r.Live = nil
		return nil
	}

	if r.Live == nil {
		live, err := d.EstimateLive(r, dep, arr, now)
		if err != nil {
			return err
		}
		r.Live = live
	}
	r.FlightStatus = StatusActive
	return nil
}

// DeriveAll runs Derive over every record. Failures are logged and the
// affected record is served unchanged.
func (d *StateDeriver) DeriveAll(records []FlightRecord, now time.Time) {
	for i := range records {
		if err := d.Derive(&records[i], now); err != nil {
			d.logger.Warn("Could not derive flight status, keeping previous state",
				logger.String("flight", records[i].Flight.IATA),
				logger.String("status", string(records[i].FlightStatus)),
				logger.Error(err))
		}
	}
}

// EstimateLive builds a live block for an airborne flight by placing it on the
// straight origin-destination segment at the elapsed fraction of its schedule.
func (d *StateDeriver) EstimateLive(r *FlightRecord, dep, arr, now time.Time) (*LivePosition, error) {
	origin, ok := d.catalog.Lookup(r.Departure.IATA)
	if !ok {
		return nil, fmt.Errorf("%s: %w", r.Departure.IATA, ErrUnknownAirport)
	}
	dest, ok := d.catalog.Lookup(r.Arrival.IATA)
	if !ok {
		return nil, fmt.Errorf("%s: %w", r.Arrival.IATA, ErrUnknownAirport)
	}

	progress := 0.5
	total := arr.Sub(dep)
	if total > 0 {
		progress = physics.Clamp01(float64(now.Sub(dep)) / float64(total))
	}

	from := physics.Point{Lat: origin.Latitude, Lon: origin.Longitude}
	to := physics.Point{Lat: dest.Latitude, Lon: dest.Longitude}

	speed := 0.0
	if hours := total.Hours(); hours > 0 {
		speed = physics.HaversineKm(from, to) / hours
	}

	return newLivePosition(from, to, progress, estimatedCruiseAltitudeFt, speed, now), nil
}

// newLivePosition assembles a live block at the given progress along from->to
func newLivePosition(from, to physics.Point, progress, altitudeFt, speed float64, now time.Time) *LivePosition {
	pos := physics.Interpolate(from, to, progress)
	heading := physics.PlanarHeading(from, to)

	return &LivePosition{
		Updated:           now.Format(time.RFC3339),
		Latitude:          pos.Lat,
		Longitude:         pos.Lon,
		Altitude:          altitudeFt,
		Direction:         heading,
		MagneticDirection: physics.MagneticHeading(heading, pos, altitudeFt, now),
		SpeedHorizontal:   speed,
		SpeedVertical:     0,
		IsGround:          false,
		Progress:          physics.Clamp01(progress),
	}
}
