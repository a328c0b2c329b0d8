package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/flightboard/internal/airports"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/internal/flights"
	"github.com/yegors/flightboard/internal/storage/sqlite"
	"github.com/yegors/flightboard/pkg/logger"
)

// History limits for /api/flights/history
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Cabin classes accepted by the offer search
var cabinClasses = map[string]bool{
	"ECONOMY":         true,
	"PREMIUM_ECONOMY": true,
	"BUSINESS":        true,
	"FIRST":           true,
}

// FlightService is the part of the flight engine the handlers use
type FlightService interface {
	GetFlights(ctx context.Context, forceRefresh bool) flights.Result[flights.FlightRecord]
	FindFlight(ctx context.Context, flightIATA string) (flights.FlightRecord, bool)
	SearchOffers(ctx context.Context, q flights.OfferQuery) flights.Result[flights.FlightOffer]
}

// HistoryReader reads the fetch history
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]sqlite.FetchRecord, error)
}

// Response is the envelope of every API response
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// Handler contains the API handlers
type Handler struct {
	flights   FlightService
	catalog   *airports.Catalog
	history   HistoryReader
	config    *config.Config
	startedAt time.Time
	logger    *logger.Logger
}

// NewHandler creates a new API handler. history may be nil when the fetch
// history is disabled.
func NewHandler(flightService FlightService, catalog *airports.Catalog, history HistoryReader, cfg *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		flights:   flightService,
		catalog:   catalog,
		history:   history,
		config:    cfg,
		startedAt: time.Now(),
		logger:    logger.Named("api-handler"),
	}
}

// GetFlights returns the current flight batch
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	forceRefresh, _ := strconv.ParseBool(r.URL.Query().Get("forceRefresh"))

	h.logger.Debug("Flights requested", logger.Bool("force_refresh", forceRefresh))

	res := h.flights.GetFlights(r.Context(), forceRefresh)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: res})
}

// RefreshFlights bypasses the cache and returns a fresh batch
func (h *Handler) RefreshFlights(w http.ResponseWriter, r *http.Request) {
	res := h.flights.GetFlights(r.Context(), true)

	h.logger.Info("Flights refreshed",
		logger.String("source", string(res.Source)),
		logger.Int("count", len(res.Data)))

	WriteJSON(w, http.StatusOK, Response{Success: true, Message: "Flights refreshed", Data: res})
}

// GetFlight returns one flight of the current batch by IATA flight code
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "iata"))
	if code == "" {
		WriteError(w, http.StatusBadRequest, "Flight code is required")
		return
	}

	flight, ok := h.flights.FindFlight(r.Context(), code)
	if !ok {
		WriteError(w, http.StatusNotFound, "Flight not found: "+strings.ToUpper(code))
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Data: flight})
}

// SearchOffers returns fare offers for a route and date
func (h *Handler) SearchOffers(w http.ResponseWriter, r *http.Request) {
	q, msg := parseOfferQuery(r)
	if msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	h.logger.Info("Searching flight offers",
		logger.String("origin", q.Origin),
		logger.String("destination", q.Destination),
		logger.String("date", q.DepartureDate),
		logger.Int("adults", q.Adults),
		logger.String("cabin_class", q.CabinClass))

	res := h.flights.SearchOffers(r.Context(), q)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: res})
}

// parseOfferQuery validates the offer search parameters. A non-empty message
// means the request is invalid.
func parseOfferQuery(r *http.Request) (flights.OfferQuery, string) {
	params := r.URL.Query()

	q := flights.OfferQuery{
		Origin:        strings.ToUpper(strings.TrimSpace(params.Get("origin"))),
		Destination:   strings.ToUpper(strings.TrimSpace(params.Get("destination"))),
		DepartureDate: strings.TrimSpace(params.Get("departureDate")),
		Adults:        1,
		CabinClass:    strings.ToUpper(strings.TrimSpace(params.Get("cabinClass"))),
	}

	if !isIATACode(q.Origin) {
		return q, "Invalid origin airport code: " + params.Get("origin")
	}
	if !isIATACode(q.Destination) {
		return q, "Invalid destination airport code: " + params.Get("destination")
	}
	if q.Origin == q.Destination {
		return q, "Origin and destination must differ"
	}
	if _, err := time.Parse(flights.DateLayout, q.DepartureDate); err != nil {
		return q, "Invalid departure date (expected YYYY-MM-DD): " + q.DepartureDate
	}

	if v := params.Get("adults"); v != "" {
		adults, err := strconv.Atoi(v)
		if err != nil || adults < 1 || adults > 9 {
			return q, "Invalid number of adults (1-9): " + v
		}
		q.Adults = adults
	}

	if q.CabinClass == "" {
		q.CabinClass = "ECONOMY"
	}
	if !cabinClasses[q.CabinClass] {
		return q, "Invalid cabin class: " + q.CabinClass
	}

	return q, ""
}

func isIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// GetHistory returns the latest fetch history entries
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		WriteJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Fetch history is disabled",
			Data:    []sqlite.FetchRecord{},
		})
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit: "+v)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read fetch history", logger.Error(err))
		WriteError(w, http.StatusInternalServerError, "Failed to read fetch history")
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Data: records})
}

// GetAirports lists the airport catalog
func (h *Handler) GetAirports(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()

	allowedOnly, _ := strconv.ParseBool(r.URL.Query().Get("allowed"))
	if allowedOnly {
		allowed := make(map[string]bool, len(h.config.Flights.AllowedAirports))
		for _, code := range h.config.Flights.AllowedAirports {
			allowed[code] = true
		}
		filtered := make([]airports.Airport, 0, len(allowed))
		for _, a := range all {
			if allowed[a.IATA] {
				filtered = append(filtered, a)
			}
		}
		all = filtered
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Data: all})
}

// GetHealth returns the health status of the service
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":                "ok",
		"uptime_seconds":        int64(time.Since(h.startedAt).Seconds()),
		"aviationstack_enabled": h.config.HasValidAviationstackKey(),
		"amadeus_enabled":       h.config.HasValidAmadeusCredentials(),
		"history_enabled":       h.history != nil,
		"cache_ttl_minutes":     h.config.Flights.CacheTTLMinutes,
		"allowed_airports":      len(h.config.Flights.AllowedAirports),
		"catalog_airports":      h.catalog.Len(),
		"timestamp":             time.Now().UTC().Format(time.RFC3339),
	}

	WriteJSON(w, http.StatusOK, Response{Success: true, Data: response})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteError writes a failed envelope
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{Success: false, Message: message})
}
