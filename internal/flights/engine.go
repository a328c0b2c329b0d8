package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brunoga/deep"
	"golang.org/x/sync/singleflight"

	"github.com/yegors/flightboard/internal/metrics"
	"github.com/yegors/flightboard/pkg/logger"
)

// Operation names used in metrics and fetch history
const (
	OperationFlights = "flights"
	OperationOffers  = "offers"
)

// FlightSource fetches departures from the flight-status provider
type FlightSource interface {
	// Enabled reports whether usable credentials are configured
	Enabled() bool
	FetchDepartures(ctx context.Context, hub string) ([]FlightRecord, error)
}

// OfferSource searches the fare provider. A response without a data field
// must be reported as ErrNoOfferData.
type OfferSource interface {
	Enabled() bool
	SearchOffers(ctx context.Context, q OfferQuery) ([]FlightOffer, error)
}

// FetchEvent describes one acquisition for the fetch history
type FetchEvent struct {
	Operation string
	Source    Source
	Count     int
	Duration  time.Duration
	Error     string
	BatchID   string
	At        time.Time
}

// FetchRecorder persists fetch events
type FetchRecorder interface {
	RecordFetch(ctx context.Context, event FetchEvent) error
}

// Acquisition defaults
const (
	DefaultHubSampleSize  = 7
	DefaultMaxAccumulated = 40
	DefaultMaxBatch       = 20
)

// EngineConfig holds the acquisition limits
type EngineConfig struct {
	AllowedAirports []string
	HubSampleSize   int
	MaxAccumulated  int
	MaxBatch        int
}

// Engine decides between cache, provider and synthetic data and assembles
// responses. It never returns provider failures to its callers.
type Engine struct {
	config    EngineConfig
	allowed   map[string]struct{}
	cache     *Cache
	deriver   *StateDeriver
	generator *Generator
	flights   FlightSource
	offers    OfferSource
	clock     Clock
	history   FetchRecorder
	metrics   *metrics.Metrics
	logger    *logger.Logger

	group singleflight.Group
}

// NewEngine wires the engine. Either source may be nil, which is treated the
// same as a source without credentials.
func NewEngine(
	config EngineConfig,
	cache *Cache,
	deriver *StateDeriver,
	generator *Generator,
	flightSource FlightSource,
	offerSource OfferSource,
	clock Clock,
	logger *logger.Logger,
) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if config.HubSampleSize <= 0 {
		config.HubSampleSize = DefaultHubSampleSize
	}
	if config.MaxAccumulated <= 0 {
		config.MaxAccumulated = DefaultMaxAccumulated
	}
	if config.MaxBatch <= 0 {
		config.MaxBatch = DefaultMaxBatch
	}

	allowed := make(map[string]struct{}, len(config.AllowedAirports))
	for _, code := range config.AllowedAirports {
		allowed[strings.ToUpper(code)] = struct{}{}
	}

	return &Engine{
		config:    config,
		allowed:   allowed,
		cache:     cache,
		deriver:   deriver,
		generator: generator,
		flights:   flightSource,
		offers:    offerSource,
		clock:     clock,
		logger:    logger.Named("flight-engine"),
	}
}

// SetHistory attaches a fetch recorder
func (e *Engine) SetHistory(history FetchRecorder) {
	e.history = history
}

// SetMetrics attaches prometheus collectors
func (e *Engine) SetMetrics(m *metrics.Metrics) {
	e.metrics = m
}

// GetFlights returns the current flight batch. Without forceRefresh a live
// cached batch is served after re-deriving every status against now.
func (e *Engine) GetFlights(ctx context.Context, forceRefresh bool) Result[FlightRecord] {
	if forceRefresh {
		e.logger.Info("Forced flight refresh requested")
		return e.respond(OperationFlights, e.acquire(ctx))
	}

	if res, ok := e.fromCache(); ok {
		return e.respond(OperationFlights, res)
	}

	// Concurrent cold-cache callers share one acquisition. It runs detached
	// from the first caller so its cancellation cannot fail the others.
	shared := context.WithoutCancel(ctx)
	v, _, _ := e.group.Do(CacheKey, func() (any, error) {
		if res, ok := e.fromCache(); ok {
			return res, nil
		}
		return e.acquire(shared), nil
	})
	res := v.(Result[FlightRecord])
	res.Data = deep.MustCopy(res.Data)
	return e.respond(OperationFlights, res)
}

// FindFlight looks up a flight in the current batch by IATA flight code
func (e *Engine) FindFlight(ctx context.Context, flightIATA string) (FlightRecord, bool) {
	res := e.GetFlights(ctx, false)
	for _, r := range res.Data {
		if strings.EqualFold(r.Flight.IATA, flightIATA) {
			return r, true
		}
	}
	return FlightRecord{}, false
}

// SearchOffers returns fare offers for the query, falling back to synthetic
// offers when the fare provider is unavailable
func (e *Engine) SearchOffers(ctx context.Context, q OfferQuery) Result[FlightOffer] {
	q = q.Normalize()
	start := time.Now()

	if e.offers == nil || !e.offers.Enabled() {
		e.logger.Debug("Fare provider credentials not configured, generating offers",
			logger.String("origin", q.Origin),
			logger.String("destination", q.Destination))
		offers := e.generator.Offers(q)
		e.record(ctx, OperationOffers, SourceMockOffers, len(offers), start, nil, "")
		return e.respondOffers(newResult(offers, SourceMockOffers, false))
	}

	offers, err := e.offers.SearchOffers(ctx, q)
	switch {
	case errors.Is(err, ErrNoOfferData):
		e.logger.Info("Fare provider returned no data",
			logger.String("origin", q.Origin),
			logger.String("destination", q.Destination),
			logger.String("date", q.DepartureDate))
		e.record(ctx, OperationOffers, SourceAmadeusEmpty, 0, start, nil, "")
		return e.respondOffers(newResult[FlightOffer](nil, SourceAmadeusEmpty, false))

	case err != nil:
		e.logger.Warn("Fare provider search failed, using synthetic offers",
			logger.String("origin", q.Origin),
			logger.String("destination", q.Destination),
			logger.Error(err))
		offers = e.generator.Offers(q)
		e.record(ctx, OperationOffers, SourceMockFallback, len(offers), start, err, "")
		return e.respondOffers(newResult(offers, SourceMockFallback, false))
	}

	e.record(ctx, OperationOffers, SourceAmadeusAPI, len(offers), start, nil, "")
	return e.respondOffers(newResult(offers, SourceAmadeusAPI, false))
}

// fromCache serves a non-expired batch, re-derived on a private copy
func (e *Engine) fromCache() (Result[FlightRecord], bool) {
	batch, ok := e.cache.Get(CacheKey)
	e.metrics.ObserveCacheLookup(ok)
	if !ok {
		return Result[FlightRecord]{}, false
	}

	flights := deep.MustCopy(batch.Flights)
	e.deriver.DeriveAll(flights, e.clock())

	res := newResult(flights, SourceCache, true)
	res.BatchID = batch.ID.String()
	return res, true
}

// acquire produces a fresh batch from the provider or the generator and
// stores it
func (e *Engine) acquire(ctx context.Context) Result[FlightRecord] {
	start := time.Now()
	now := e.clock()

	var (
		records  []FlightRecord
		source   Source
		fetchErr error
	)

	if e.flights == nil || !e.flights.Enabled() {
		e.logger.Info("Flight-status credentials not configured, generating synthetic flights")
		records = e.generator.Flights(now)
		source = SourceMockData
	} else {
		records, fetchErr = e.fetchFromProvider(ctx, now)
		if fetchErr != nil && ctx.Err() != nil {
			// The caller went away; synthetic data is returned but not cached
			e.logger.Info("Flight acquisition cancelled by caller, batch not cached", logger.Error(fetchErr))
			return newResult(e.generator.Flights(now), SourceMockFallback, false)
		}
		if fetchErr != nil {
			e.logger.Warn("Flight-status provider failed, using synthetic flights", logger.Error(fetchErr))
			records = e.generator.Flights(now)
			source = SourceMockFallback
		} else {
			source = SourceAviationAPI
		}
	}

	batch := e.cache.Store(CacheKey, records, source)
	e.metrics.SetBatchSize(len(records))
	e.record(ctx, OperationFlights, source, len(records), start, fetchErr, batch.ID.String())

	e.logger.Info("Flight batch acquired",
		logger.String("source", string(source)),
		logger.String("batch_id", batch.ID.String()),
		logger.Int("count", len(records)),
		logger.Duration("took", time.Since(start)))

	res := newResult(deep.MustCopy(records), source, false)
	res.BatchID = batch.ID.String()
	return res
}

// fetchFromProvider queries a random sample of hubs and returns the accepted,
// normalized records. It fails only when every hub failed.
func (e *Engine) fetchFromProvider(ctx context.Context, now time.Time) ([]FlightRecord, error) {
	hubs := e.generator.SampleHubs(e.config.AllowedAirports, e.config.HubSampleSize)
	if len(hubs) == 0 {
		return nil, errors.New("no hub airports configured")
	}

	var (
		accumulated []FlightRecord
		failures    int
		lastErr     error
	)

	for _, hub := range hubs {
		if len(accumulated) >= e.config.MaxAccumulated {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("flight acquisition aborted: %w", err)
		}

		raw, err := e.flights.FetchDepartures(ctx, hub)
		if err != nil {
			failures++
			lastErr = err
			e.logger.Warn("Hub query failed, skipping",
				logger.String("hub", hub),
				logger.Error(err))
			continue
		}

		accepted := 0
		for _, r := range raw {
			if len(accumulated) >= e.config.MaxAccumulated {
				break
			}
			if e.accept(r) {
				accumulated = append(accumulated, r)
				accepted++
			}
		}

		e.logger.Debug("Hub queried",
			logger.String("hub", hub),
			logger.Int("received", len(raw)),
			logger.Int("accepted", accepted))
	}

	if failures == len(hubs) {
		return nil, fmt.Errorf("all %d hub queries failed: %w", failures, lastErr)
	}

	records := make([]FlightRecord, 0, min(len(accumulated), e.config.MaxBatch))
	for _, r := range accumulated {
		if len(records) >= e.config.MaxBatch {
			break
		}
		if e.normalize(&r, now) {
			records = append(records, r)
		}
	}

	return records, nil
}

// accept keeps records with both endpoints set and an allow-listed arrival
func (e *Engine) accept(r FlightRecord) bool {
	if r.Departure.IATA == "" || r.Arrival.IATA == "" {
		return false
	}
	_, ok := e.allowed[strings.ToUpper(r.Arrival.IATA)]
	return ok
}

// normalize re-dates a provider record to today and derives its status.
// It reports false when the record cannot satisfy the live/active pairing.
func (e *Engine) normalize(r *FlightRecord, now time.Time) bool {
	today := now.Format(DateLayout)
	r.FlightDate = today
	r.Departure.Scheduled = redate(r.Departure.Scheduled, today)
	r.Arrival.Scheduled = redate(r.Arrival.Scheduled, today)

	if err := e.deriver.Derive(r, now); err != nil {
		if !r.FlightStatus.Valid() || (r.FlightStatus == StatusActive && r.Live == nil) {
			e.logger.Debug("Dropping provider record without usable state",
				logger.String("flight", r.Flight.IATA),
				logger.String("status", string(r.FlightStatus)),
				logger.Error(err))
			return false
		}
		if r.FlightStatus != StatusActive {
			r.Live = nil
		}
	}
	return true
}

// redate replaces the date part of a timestamp and keeps the rest
func redate(ts, day string) string {
	if len(ts) < len(DateLayout) {
		return ts
	}
	return day + ts[len(DateLayout):]
}

func (e *Engine) respond(op string, res Result[FlightRecord]) Result[FlightRecord] {
	e.metrics.ObserveResponse(op, string(res.Source))
	return res
}

func (e *Engine) respondOffers(res Result[FlightOffer]) Result[FlightOffer] {
	e.metrics.ObserveResponse(OperationOffers, string(res.Source))
	return res
}

// record writes a fetch event. History failures are logged only.
func (e *Engine) record(ctx context.Context, op string, source Source, count int, start time.Time, fetchErr error, batchID string) {
	if e.history == nil {
		return
	}

	event := FetchEvent{
		Operation: op,
		Source:    source,
		Count:     count,
		Duration:  time.Since(start),
		BatchID:   batchID,
		At:        e.clock(),
	}
	if fetchErr != nil {
		event.Error = fetchErr.Error()
	}

	if err := e.history.RecordFetch(context.WithoutCancel(ctx), event); err != nil {
		e.logger.Warn("Failed to record fetch history", logger.Error(err))
	}
}

// Normalize upper-cases codes and applies the default passenger count and cabin
func (q OfferQuery) Normalize() OfferQuery {
	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.DepartureDate = strings.TrimSpace(q.DepartureDate)
	q.CabinClass = strings.ToUpper(strings.TrimSpace(q.CabinClass))
	if q.Adults < 1 {
		q.Adults = 1
	}
	if q.CabinClass == "" {
		q.CabinClass = "ECONOMY"
	}
	return q
}
