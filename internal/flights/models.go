package flights

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a flight
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusLanded    Status = "landed"
)

// Valid reports whether s is one of the three lifecycle states
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusLanded:
		return true
	}
	return false
}

// Source tags where a response came from
type Source string

const (
	SourceCache        Source = "cache"
	SourceMockData     Source = "mock-data"
	SourceAviationAPI  Source = "aviationstack-api"
	SourceMockFallback Source = "mock-fallback"
	SourceMockOffers   Source = "mock-offers"
	SourceAmadeusAPI   Source = "amadeus-api"
	SourceAmadeusEmpty Source = "amadeus-empty"
)

// TimestampLayout is the naive second-precision format of scheduled times
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the calendar date format used for flight_date
const DateLayout = "2006-01-02"

var (
	// ErrInvalidTimestamp is returned for missing or malformed scheduled times
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrNoOfferData signals a fare-provider response without a data field
	ErrNoOfferData = errors.New("fare provider returned no data")
)

// FlightRecord is one flight in the provider's flight-status shape
type FlightRecord struct {
	FlightDate   string        `json:"flight_date"`
	FlightStatus Status        `json:"flight_status"`
	Departure    Endpoint      `json:"departure"`
	Arrival      Endpoint      `json:"arrival"`
	Airline      Airline       `json:"airline"`
	Flight       FlightIdent   `json:"flight"`
	Live         *LivePosition `json:"live,omitempty"`
}

// Endpoint is the departure or arrival side of a flight
type Endpoint struct {
	Airport   string `json:"airport"`
	IATA      string `json:"iata"`
	ICAO      string `json:"icao,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Terminal  string `json:"terminal,omitempty"`
	Gate      string `json:"gate,omitempty"`
	Delay     *int   `json:"delay,omitempty"`
	Scheduled string `json:"scheduled"`
	Estimated string `json:"estimated,omitempty"`
	Actual    string `json:"actual,omitempty"`
}

// Airline identifies the operating carrier
type Airline struct {
	Name string `json:"name"`
	IATA string `json:"iata"`
	ICAO string `json:"icao,omitempty"`
}

// FlightIdent identifies the flight itself
type FlightIdent struct {
	Number string `json:"number"`
	IATA   string `json:"iata"`
	ICAO   string `json:"icao,omitempty"`
}

// LivePosition is the in-flight telemetry block, present only while active
type LivePosition struct {
	Updated           string  `json:"updated"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Altitude          float64 `json:"altitude"`
	Direction         float64 `json:"direction"`
	MagneticDirection float64 `json:"magnetic_direction"`
	SpeedHorizontal   float64 `json:"speed_horizontal"`
	SpeedVertical     float64 `json:"speed_vertical"`
	IsGround          bool    `json:"is_ground"`
	Progress          float64 `json:"progress"`
}

// FlightOffer is a fare offer in the fare provider's shape
type FlightOffer struct {
	ID                     string      `json:"id"`
	Source                 string      `json:"source,omitempty"`
	Price                  Price       `json:"price"`
	Itineraries            []Itinerary `json:"itineraries"`
	NumberOfBookableSeats  int         `json:"numberOfBookableSeats,omitempty"`
	ValidatingAirlineCodes []string    `json:"validatingAirlineCodes,omitempty"`
}

// Price of an offer
type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// Itinerary is one direction of travel
type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment is a single flown leg
type Segment struct {
	Departure   SegmentPoint `json:"departure"`
	Arrival     SegmentPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Operating   *Operating   `json:"operating,omitempty"`
}

// SegmentPoint is where and when a segment starts or ends
type SegmentPoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

// Operating is the carrier actually flying a segment
type Operating struct {
	CarrierCode string `json:"carrierCode"`
	CarrierName string `json:"carrierName,omitempty"`
}

// OfferQuery holds the parameters of a fare search
type OfferQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	Adults        int
	CabinClass    string
}

// Pagination describes the returned page. There is no server-side paging so
// every count equals the list length.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

// Result is the response envelope shared by flight and offer queries
type Result[T any] struct {
	Data        []T        `json:"data"`
	Pagination  Pagination `json:"pagination"`
	Source      Source     `json:"source"`
	FromStorage bool       `json:"fromStorage"`
	BatchID     string     `json:"batchId,omitempty"`
}

func newResult[T any](data []T, source Source, fromStorage bool) Result[T] {
	if data == nil {
		data = []T{}
	}
	n := len(data)
	return Result[T]{
		Data:        data,
		Pagination:  Pagination{Limit: n, Offset: 0, Count: n, Total: n},
		Source:      source,
		FromStorage: fromStorage,
	}
}

// Clock returns the current instant
type Clock func() time.Time

// SystemClock returns a clock reading wall time in the given location.
// A nil location means the process local zone.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		return time.Now
	}
	return func() time.Time { return time.Now().In(loc) }
}

// ParseTimestamp parses the first 19 characters of s as a naive timestamp in
// the location of ref. Fractional seconds and zone suffixes are ignored.
func ParseTimestamp(s string, ref time.Time) (time.Time, error) {
	if len(s) < len(TimestampLayout) {
		return time.Time{}, ErrInvalidTimestamp
	}
	t, err := time.ParseInLocation(TimestampLayout, s[:len(TimestampLayout)], ref.Location())
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return t, nil
}

// FormatTimestamp renders t in the naive scheduled-time format
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
