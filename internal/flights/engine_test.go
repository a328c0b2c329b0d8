package flights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowList = []string{"MAD", "BCN", "LHR"}

func flightCodes(records []FlightRecord) []string {
	codes := make([]string, len(records))
	for i, r := range records {
		codes[i] = r.Flight.IATA
	}
	return codes
}

func assertLiveInvariant(t *testing.T, records []FlightRecord) {
	t.Helper()
	for _, r := range records {
		assert.True(t, r.FlightStatus.Valid(), "status %q of %s", r.FlightStatus, r.Flight.IATA)
		assert.Equal(t, r.FlightStatus == StatusActive, r.Live != nil, "live/active pairing of %s", r.Flight.IATA)
	}
}

func TestGetFlightsWithoutCredentialsUsesSyntheticData(t *testing.T) {
	clock := newFakeClock(testNow)
	e := newTestEngine(t, clock, &fakeFlightSource{enabled: false}, nil, testAllowList)

	res := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceMockData, res.Source)
	assert.False(t, res.FromStorage)
	require.Len(t, res.Data, 20)
	assert.Equal(t, Pagination{Limit: 20, Offset: 0, Count: 20, Total: 20}, res.Pagination)
	assert.NotEmpty(t, res.BatchID)
	assertLiveInvariant(t, res.Data)
}

func TestGetFlightsServesCacheWithinTTL(t *testing.T) {
	clock := newFakeClock(testNow)
	e := newTestEngine(t, clock, nil, nil, testAllowList)

	first := e.GetFlights(context.Background(), false)
	clock.Advance(10 * time.Minute)
	second := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceCache, second.Source)
	assert.True(t, second.FromStorage)
	assert.Equal(t, first.BatchID, second.BatchID)
	assert.Equal(t, flightCodes(first.Data), flightCodes(second.Data))
	assertLiveInvariant(t, second.Data)
}

func TestGetFlightsForceRefreshBypassesCache(t *testing.T) {
	clock := newFakeClock(testNow)
	e := newTestEngine(t, clock, nil, nil, testAllowList)

	first := e.GetFlights(context.Background(), false)
	forced := e.GetFlights(context.Background(), true)

	assert.NotEqual(t, SourceCache, forced.Source)
	assert.False(t, forced.FromStorage)
	assert.NotEqual(t, first.BatchID, forced.BatchID)

	// The forced batch replaced the cached one
	cached := e.GetFlights(context.Background(), false)
	assert.Equal(t, forced.BatchID, cached.BatchID)
}

func TestGetFlightsRefetchesAfterTTL(t *testing.T) {
	clock := newFakeClock(testNow)
	e := newTestEngine(t, clock, nil, nil, testAllowList)

	first := e.GetFlights(context.Background(), false)
	clock.Advance(31 * time.Minute)
	second := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceMockData, second.Source)
	assert.NotEqual(t, first.BatchID, second.BatchID)
}

func TestCacheHitRederivesStatus(t *testing.T) {
	clock := newFakeClock(testNow)
	cache, err := NewCache(24*time.Hour, clock.Now, nopLogger())
	require.NoError(t, err)
	e := NewEngine(EngineConfig{AllowedAirports: testAllowList}, cache, newTestDeriver(), newTestGenerator(), nil, nil, clock.Now, nopLogger())

	first := e.GetFlights(context.Background(), false)
	require.Equal(t, SourceMockData, first.Source)

	// Long after every synthetic flight has arrived
	clock.Advance(12 * time.Hour)
	later := e.GetFlights(context.Background(), false)

	require.Equal(t, SourceCache, later.Source)
	for _, r := range later.Data {
		assert.Equal(t, StatusLanded, r.FlightStatus, r.Flight.IATA)
		assert.Nil(t, r.Live)
	}

	// The stored batch itself was not touched
	batch, ok := cache.Get(CacheKey)
	require.True(t, ok)
	active := 0
	for _, r := range batch.Flights {
		if r.FlightStatus == StatusActive {
			active++
		}
	}
	assert.Equal(t, 6, active)
}

func TestGetFlightsFromProvider(t *testing.T) {
	clock := newFakeClock(testNow)
	src := &fakeFlightSource{
		enabled: true,
		byHub: map[string][]FlightRecord{
			"MAD": {
				providerRecord("IB3001", "MAD", "BCN", "2020-01-01T11:00:00+00:00", "2020-01-01T13:00:00+00:00", StatusScheduled),
				providerRecord("IB6251", "MAD", "JFK", "2020-01-01T11:00:00+00:00", "2020-01-01T19:00:00+00:00", StatusActive),
				providerRecord("IB0001", "MAD", "", "2020-01-01T11:00:00+00:00", "2020-01-01T13:00:00+00:00", StatusScheduled),
			},
			"LHR": {
				providerRecord("BA0456", "LHR", "MAD", "2020-01-01T06:00:00+00:00", "2020-01-01T08:30:00+00:00", StatusActive),
			},
		},
	}
	e := newTestEngine(t, clock, src, nil, testAllowList)

	res := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceAviationAPI, res.Source)
	require.Len(t, res.Data, 2)
	assert.ElementsMatch(t, []string{"IB3001", "BA0456"}, flightCodes(res.Data))
	assertLiveInvariant(t, res.Data)

	for _, r := range res.Data {
		assert.Equal(t, "2025-06-01", r.FlightDate)
		switch r.Flight.IATA {
		case "IB3001":
			assert.Equal(t, "2025-06-01T11:00:00+00:00", r.Departure.Scheduled, "time of day preserved")
			assert.Equal(t, StatusActive, r.FlightStatus)
			require.NotNil(t, r.Live)
		case "BA0456":
			assert.Equal(t, StatusLanded, r.FlightStatus)
		}
	}
	assert.Equal(t, 3, src.callCount(), "every allow-listed hub queried")
}

func TestGetFlightsStopsAtAccumulationLimit(t *testing.T) {
	clock := newFakeClock(testNow)
	batch := func(dep, arr string) []FlightRecord {
		out := make([]FlightRecord, 30)
		for i := range out {
			out[i] = providerRecord(fmt.Sprintf("TA%04d", i), dep, arr, "2020-01-01T14:00:00", "2020-01-01T16:00:00", StatusScheduled)
		}
		return out
	}
	src := &fakeFlightSource{
		enabled: true,
		byHub: map[string][]FlightRecord{
			"MAD": batch("MAD", "BCN"),
			"BCN": batch("BCN", "LHR"),
			"LHR": batch("LHR", "MAD"),
		},
	}
	e := newTestEngine(t, clock, src, nil, testAllowList)

	res := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceAviationAPI, res.Source)
	assert.Len(t, res.Data, 20)
	assert.Equal(t, 2, src.callCount(), "third hub skipped once 40 records accumulated")
}

func TestGetFlightsPartialHubFailure(t *testing.T) {
	clock := newFakeClock(testNow)
	src := &fakeFlightSource{
		enabled: true,
		byHub: map[string][]FlightRecord{
			"BCN": {providerRecord("VY1234", "BCN", "MAD", "2020-01-01T15:00:00", "2020-01-01T16:30:00", StatusScheduled)},
		},
		fail: map[string]error{
			"MAD": errors.New("connection reset"),
			"LHR": errors.New("unexpected status 500"),
		},
	}
	e := newTestEngine(t, clock, src, nil, testAllowList)

	res := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceAviationAPI, res.Source)
	require.Len(t, res.Data, 1)
	assert.Equal(t, StatusScheduled, res.Data[0].FlightStatus)
}

func TestGetFlightsFallsBackWhenProviderFails(t *testing.T) {
	clock := newFakeClock(testNow)
	history := &memoryRecorder{}
	src := &fakeFlightSource{enabled: true, failAll: errors.New("dial tcp: timeout")}
	e := newTestEngine(t, clock, src, nil, testAllowList)
	e.SetHistory(history)

	res := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceMockFallback, res.Source)
	assert.Len(t, res.Data, 20)
	assertLiveInvariant(t, res.Data)

	require.Len(t, history.events, 1)
	assert.Equal(t, OperationFlights, history.events[0].Operation)
	assert.Equal(t, SourceMockFallback, history.events[0].Source)
	assert.Contains(t, history.events[0].Error, "timeout")
	assert.Equal(t, res.BatchID, history.events[0].BatchID)
}

func TestGetFlightsEmptyProviderResponse(t *testing.T) {
	clock := newFakeClock(testNow)
	src := &fakeFlightSource{enabled: true, byHub: map[string][]FlightRecord{}}
	e := newTestEngine(t, clock, src, nil, testAllowList)

	res := e.GetFlights(context.Background(), false)

	assert.Equal(t, SourceAviationAPI, res.Source)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestNormalizeProviderStatuses(t *testing.T) {
	clock := newFakeClock(testNow)
	src := &fakeFlightSource{
		enabled: true,
		byHub: map[string][]FlightRecord{
			"MAD": {
				providerRecord("IB0100", "MAD", "BCN", "", "", "cancelled"),
				providerRecord("IB0200", "MAD", "BCN", "", "", StatusLanded),
				providerRecord("IB0300", "MAD", "BCN", "", "", StatusActive),
			},
		},
	}
	e := newTestEngine(t, clock, src, nil, []string{"MAD", "BCN"})

	res := e.GetFlights(context.Background(), false)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "IB0200", res.Data[0].Flight.IATA)
	assert.Equal(t, StatusLanded, res.Data[0].FlightStatus)
}

func TestConcurrentColdCallersShareOneBatch(t *testing.T) {
	clock := newFakeClock(testNow)
	e := newTestEngine(t, clock, nil, nil, testAllowList)

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = e.GetFlights(context.Background(), false).BatchID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestFindFlight(t *testing.T) {
	clock := newFakeClock(testNow)
	e := newTestEngine(t, clock, nil, nil, testAllowList)

	r, ok := e.FindFlight(context.Background(), "ib1000")
	require.True(t, ok)
	assert.Equal(t, "MAD", r.Departure.IATA)

	_, ok = e.FindFlight(context.Background(), "ZZ9999")
	assert.False(t, ok)
}

func TestSearchOffersWithoutCredentials(t *testing.T) {
	e := newTestEngine(t, newFakeClock(testNow), nil, &fakeOfferSource{enabled: false}, testAllowList)

	res := e.SearchOffers(context.Background(), OfferQuery{Origin: "mad", Destination: "bcn", DepartureDate: "2024-06-01"})

	assert.Equal(t, SourceMockOffers, res.Source)
	assert.False(t, res.FromStorage)
	require.Len(t, res.Data, 5)
	for _, o := range res.Data {
		seg := o.Itineraries[0].Segments[0]
		assert.Equal(t, "MAD", seg.Departure.IATACode)
		assert.Equal(t, "BCN", seg.Arrival.IATACode)
		assert.Equal(t, "2024-06-01", seg.Departure.At[:10])
	}
}

func TestSearchOffersFromProvider(t *testing.T) {
	src := &fakeOfferSource{enabled: true, offers: []FlightOffer{{ID: "1"}, {ID: "2"}}}
	e := newTestEngine(t, newFakeClock(testNow), nil, src, testAllowList)

	res := e.SearchOffers(context.Background(), OfferQuery{Origin: "MAD", Destination: "BCN", DepartureDate: "2024-06-01"})

	assert.Equal(t, SourceAmadeusAPI, res.Source)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, 2, res.Pagination.Total)

	require.Len(t, src.queries, 1)
	assert.Equal(t, 1, src.queries[0].Adults)
	assert.Equal(t, "ECONOMY", src.queries[0].CabinClass)
}

func TestSearchOffersProviderOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    Source
		wantLen int
	}{
		{"failure falls back", errors.New("unexpected status 500"), SourceMockFallback, 5},
		{"missing data is empty", ErrNoOfferData, SourceAmadeusEmpty, 0},
		{"wrapped missing data is empty", fmt.Errorf("search: %w", ErrNoOfferData), SourceAmadeusEmpty, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeOfferSource{enabled: true, err: tt.err}
			e := newTestEngine(t, newFakeClock(testNow), nil, src, testAllowList)

			res := e.SearchOffers(context.Background(), OfferQuery{Origin: "MAD", Destination: "BCN", DepartureDate: "2024-06-01"})

			assert.Equal(t, tt.want, res.Source)
			assert.NotNil(t, res.Data)
			assert.Len(t, res.Data, tt.wantLen)
		})
	}
}

func healthySource() *fakeFlightSource {
	departures := []FlightRecord{
		providerRecord("VY1234", "BCN", "MAD", "2020-01-01T15:00:00", "2020-01-01T16:30:00", StatusScheduled),
	}
	return &fakeFlightSource{
		enabled: true,
		byHub:   map[string][]FlightRecord{"MAD": departures, "BCN": departures, "LHR": departures},
	}
}

func TestGetFlightsCancelledCallerDoesNotPoisonCache(t *testing.T) {
	clock := newFakeClock(testNow)
	src := healthySource()
	e := newTestEngine(t, clock, src, nil, testAllowList)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := e.GetFlights(ctx, false)
	assert.Equal(t, SourceAviationAPI, first.Source, "shared acquisition runs detached from the caller")
	calls := src.callCount()
	assert.Positive(t, calls)

	next := e.GetFlights(context.Background(), false)
	assert.Equal(t, SourceCache, next.Source)
	assert.Equal(t, first.BatchID, next.BatchID)
	assert.Equal(t, []string{"VY1234"}, flightCodes(next.Data)[:1])
	assert.Equal(t, calls, src.callCount())
}

func TestForcedRefreshCancelledCallerIsNotCached(t *testing.T) {
	clock := newFakeClock(testNow)
	src := healthySource()
	e := newTestEngine(t, clock, src, nil, testAllowList)
	history := &memoryRecorder{}
	e.SetHistory(history)

	first := e.GetFlights(context.Background(), false)
	require.Equal(t, SourceAviationAPI, first.Source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	forced := e.GetFlights(ctx, true)
	assert.Equal(t, SourceMockFallback, forced.Source)
	assert.Empty(t, forced.BatchID)

	cached := e.GetFlights(context.Background(), false)
	assert.Equal(t, SourceCache, cached.Source)
	assert.Equal(t, first.BatchID, cached.BatchID)

	history.mu.Lock()
	defer history.mu.Unlock()
	assert.Len(t, history.events, 1, "cancelled refresh leaves no history entry")
}
