package flights

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/yegors/flightboard/internal/airports"
	"github.com/yegors/flightboard/internal/physics"
	"github.com/yegors/flightboard/pkg/logger"
)

// routeTemplate is one fixed synthetic route
type routeTemplate struct {
	Origin      string
	OriginName  string
	Destination string
	DestName    string
	Airline     string
	AirlineCode string
}

var routeTemplates = []routeTemplate{
	{"MAD", "Madrid-Barajas", "BCN", "Barcelona-El Prat", "Iberia", "IB"},
	{"LHR", "London Heathrow", "CDG", "Paris Charles de Gaulle", "British Airways", "BA"},
	{"FRA", "Frankfurt", "AMS", "Amsterdam Schiphol", "Lufthansa", "LH"},
	{"FCO", "Rome Fiumicino", "MUC", "Munich", "Alitalia", "AZ"},
	{"BCN", "Barcelona-El Prat", "LIS", "Lisbon", "Vueling", "VY"},
	{"MAD", "Madrid-Barajas", "LHR", "London Heathrow", "Iberia", "IB"},
	{"CDG", "Paris Charles de Gaulle", "FCO", "Rome Fiumicino", "Air France", "AF"},
	{"AMS", "Amsterdam Schiphol", "VIE", "Vienna", "KLM", "KL"},
	{"MUC", "Munich", "ZRH", "Zurich", "Lufthansa", "LH"},
	{"LIS", "Lisbon", "MAD", "Madrid-Barajas", "TAP Portugal", "TP"},
	{"BCN", "Barcelona-El Prat", "FRA", "Frankfurt", "Vueling", "VY"},
	{"LHR", "London Heathrow", "AMS", "Amsterdam Schiphol", "British Airways", "BA"},
	{"VIE", "Vienna", "PRG", "Prague", "Austrian Airlines", "OS"},
	{"CPH", "Copenhagen", "ARN", "Stockholm Arlanda", "SAS", "SK"},
	{"DUB", "Dublin", "EDI", "Edinburgh", "Ryanair", "FR"},
	{"ATH", "Athens", "FCO", "Rome Fiumicino", "Aegean Airlines", "A3"},
	{"WAW", "Warsaw", "BER", "Berlin Brandenburg", "LOT Polish Airlines", "LO"},
	{"BRU", "Brussels", "GVA", "Geneva", "Brussels Airlines", "SN"},
	{"HEL", "Helsinki", "OSL", "Oslo Gardermoen", "Finnair", "AY"},
	{"PMI", "Palma de Mallorca", "DUS", "Düsseldorf", "Eurowings", "EW"},
}

// offerCarriers is the fixed carrier list used for synthetic fare offers
var offerCarriers = []struct {
	Name string
	Code string
}{
	{"Iberia", "IB"},
	{"Vueling", "VY"},
	{"Ryanair", "FR"},
	{"Air Europa", "UX"},
	{"Lufthansa", "LH"},
}

// Band boundaries as percentages of the route table
const (
	landedBandPct = 35
	activeBandPct = 65

	syntheticOfferCount = 5
	offerCurrency       = "EUR"
)

// Generator produces synthetic flights and offers relative to now.
// All randomness comes from the injected source.
type Generator struct {
	catalog *airports.Catalog
	logger  *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. A nil rng is replaced by a time-seeded one.
func NewGenerator(catalog *airports.Catalog, rng *rand.Rand, logger *logger.Logger) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Generator{
		catalog: catalog,
		logger:  logger.Named("flight-generator"),
		rng:     rng,
	}
}

// RouteCount returns the number of synthetic routes, which is the size of
// every generated batch
func (g *Generator) RouteCount() int {
	return len(routeTemplates)
}

// Flights generates one record per route template. Routes are split by index
// into landed, active and scheduled bands with times staggered inside each band.
func (g *Generator) Flights(now time.Time) []FlightRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(routeTemplates)
	landedEnd := n * landedBandPct / 100
	activeEnd := n * activeBandPct / 100
	flightDate := now.Format(DateLayout)

	records := make([]FlightRecord, 0, n)
	for i, route := range routeTemplates {
		var dep, arr time.Time
		var status Status

		switch {
		case i < landedEnd:
			status = StatusLanded
			dep = now.Add(-time.Duration(2+i%4)*time.Hour - g.minutes(30))
			arr = dep.Add(time.Duration(1+i%3)*time.Hour + g.minutes(30))
			if !arr.Before(now) {
				arr = now.Add(-(5*time.Minute + g.minutes(20)))
			}
		case i < activeEnd:
			status = StatusActive
			j := i - landedEnd
			dep = now.Add(-(time.Duration(5+j*12)*time.Minute + g.minutes(10)))
			arr = now.Add(time.Duration(10+j*24)*time.Minute + g.minutes(20))
		default:
			status = StatusScheduled
			j := i - activeEnd
			dep = now.Add(time.Duration(30+j*35)*time.Minute + g.minutes(20))
			arr = dep.Add(time.Duration(1+i%3)*time.Hour + g.minutes(30))
		}

		number := strconv.Itoa(1000 + i*11)
		record := FlightRecord{
			FlightDate:   flightDate,
			FlightStatus: status,
			Departure: Endpoint{
				Airport:   route.OriginName,
				IATA:      route.Origin,
				Scheduled: FormatTimestamp(dep.Truncate(time.Minute)),
			},
			Arrival: Endpoint{
				Airport:   route.DestName,
				IATA:      route.Destination,
				Scheduled: FormatTimestamp(arr.Truncate(time.Minute)),
			},
			Airline: Airline{Name: route.Airline, IATA: route.AirlineCode},
			Flight:  FlightIdent{Number: number, IATA: route.AirlineCode + number},
		}

		if status == StatusActive {
			record.Live = g.live(route, now)
		}

		records = append(records, record)
	}

	return records
}

// live builds the telemetry block for an active synthetic flight
func (g *Generator) live(route routeTemplate, now time.Time) *LivePosition {
	origin, ok := g.catalog.Lookup(route.Origin)
	if !ok {
		g.logger.Warn("Route origin missing from airport catalog", logger.String("iata", route.Origin))
	}
	dest, ok := g.catalog.Lookup(route.Destination)
	if !ok {
		g.logger.Warn("Route destination missing from airport catalog", logger.String("iata", route.Destination))
	}

	progress := 0.3 + g.rng.Float64()*0.4
	altitude := float64(35000 + g.rng.IntN(5000))
	speed := float64(450 + g.rng.IntN(100))

	return newLivePosition(
		physics.Point{Lat: origin.Latitude, Lon: origin.Longitude},
		physics.Point{Lat: dest.Latitude, Lon: dest.Longitude},
		progress, altitude, speed, now,
	)
}

// Offers generates five fare offers for the query, one per carrier, with
// departures spread through the day
func (g *Generator) Offers(q OfferQuery) []FlightOffer {
	g.mu.Lock()
	defer g.mu.Unlock()

	offers := make([]FlightOffer, 0, syntheticOfferCount)
	for i := 0; i < syntheticOfferCount; i++ {
		carrier := offerCarriers[i%len(offerCarriers)]

		depHour, depMin := 6+i*2, g.rng.IntN(60)
		arrHour, arrMin := 8+i*2+g.rng.IntN(2), g.rng.IntN(60)
		duration := time.Duration(arrHour-depHour)*time.Hour + time.Duration(arrMin-depMin)*time.Minute

		offers = append(offers, FlightOffer{
			ID:     strconv.Itoa(i + 1),
			Source: "GDS",
			Price: Price{
				Total:    fmt.Sprintf("%.2f", 50+g.rng.Float64()*200),
				Currency: offerCurrency,
			},
			Itineraries: []Itinerary{{
				Duration: isoDuration(duration),
				Segments: []Segment{{
					Departure: SegmentPoint{
						IATACode: q.Origin,
						At:       fmt.Sprintf("%sT%02d:%02d:00", q.DepartureDate, depHour, depMin),
					},
					Arrival: SegmentPoint{
						IATACode: q.Destination,
						At:       fmt.Sprintf("%sT%02d:%02d:00", q.DepartureDate, arrHour, arrMin),
					},
					CarrierCode: carrier.Code,
					Number:      strconv.Itoa(1000 + g.rng.IntN(9000)),
					Operating:   &Operating{CarrierCode: carrier.Code, CarrierName: carrier.Name},
				}},
			}},
			NumberOfBookableSeats:  1 + g.rng.IntN(9),
			ValidatingAirlineCodes: []string{carrier.Code},
		})
	}

	return offers
}

// SampleHubs picks k distinct codes at random. Fewer are returned when the
// list is shorter than k.
func (g *Generator) SampleHubs(codes []string, k int) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	pool := slices.Clone(codes)
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if k < len(pool) {
		pool = pool[:k]
	}
	return pool
}

func (g *Generator) minutes(n int) time.Duration {
	return time.Duration(g.rng.IntN(n)) * time.Minute
}

// isoDuration renders d as an ISO-8601 duration such as PT2H5M
func isoDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("PT%dH%dM", h, m)
}
