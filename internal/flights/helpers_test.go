package flights

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/yegors/flightboard/internal/airports"
	"github.com/yegors/flightboard/pkg/logger"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable clock shared by the cache and the engine
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestGenerator() *Generator {
	return NewGenerator(airports.NewCatalog(), rand.New(rand.NewPCG(1, 2)), logger.NewNop())
}

func newTestDeriver() *StateDeriver {
	return NewStateDeriver(airports.NewCatalog(), logger.NewNop())
}

// fakeFlightSource serves canned departures per hub
type fakeFlightSource struct {
	mu      sync.Mutex
	enabled bool
	byHub   map[string][]FlightRecord
	fail    map[string]error
	failAll error
	calls   []string
}

func (f *fakeFlightSource) Enabled() bool { return f.enabled }

func (f *fakeFlightSource) FetchDepartures(ctx context.Context, hub string) ([]FlightRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, hub)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failAll != nil {
		return nil, f.failAll
	}
	if err := f.fail[hub]; err != nil {
		return nil, err
	}
	return f.byHub[hub], nil
}

func (f *fakeFlightSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeOfferSource returns canned offers or an error
type fakeOfferSource struct {
	enabled bool
	offers  []FlightOffer
	err     error
	queries []OfferQuery
}

func (f *fakeOfferSource) Enabled() bool { return f.enabled }

func (f *fakeOfferSource) SearchOffers(_ context.Context, q OfferQuery) ([]FlightOffer, error) {
	f.queries = append(f.queries, q)
	return f.offers, f.err
}

// memoryRecorder keeps fetch events in memory
type memoryRecorder struct {
	mu     sync.Mutex
	events []FetchEvent
}

func (m *memoryRecorder) RecordFetch(_ context.Context, e FetchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func providerRecord(flightIATA, dep, arr, depTime, arrTime string, status Status) FlightRecord {
	return FlightRecord{
		FlightDate:   "2020-01-01",
		FlightStatus: status,
		Departure:    Endpoint{Airport: dep, IATA: dep, Scheduled: depTime},
		Arrival:      Endpoint{Airport: arr, IATA: arr, Scheduled: arrTime},
		Airline:      Airline{Name: "Test Air", IATA: "TA"},
		Flight:       FlightIdent{Number: flightIATA[2:], IATA: flightIATA},
	}
}

func newTestEngine(t *testing.T, clock *fakeClock, fs FlightSource, os OfferSource, allowed []string) *Engine {
	t.Helper()
	cache, err := NewCache(30*time.Minute, clock.Now, logger.NewNop())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	return NewEngine(
		EngineConfig{AllowedAirports: allowed, HubSampleSize: 7, MaxAccumulated: 40, MaxBatch: 20},
		cache,
		newTestDeriver(),
		newTestGenerator(),
		fs,
		os,
		clock.Now,
		logger.NewNop(),
	)
}

func nopLogger() *logger.Logger { return logger.NewNop() }
