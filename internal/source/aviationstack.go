package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yegors/flightboard/internal/flights"
	"github.com/yegors/flightboard/internal/metrics"
	"github.com/yegors/flightboard/pkg/logger"
)

const providerAviationstack = "aviationstack"

// AviationstackConfig configures the flight-status client
type AviationstackConfig struct {
	APIKey   string
	BaseURL  string
	PageSize int
	Timeout  time.Duration

	// Enabled is decided by the caller from credential validity
	Enabled bool
}

// AviationstackClient fetches departures from the flight-status provider.
// Failures are returned to the caller and never retried here.
type AviationstackClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
	enabled    bool
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// aviationstackResponse is the provider envelope. Data is a pointer so a
// missing field can be told apart from an empty list.
type aviationstackResponse struct {
	Data  *[]flights.FlightRecord `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAviationstackClient creates a new flight-status client
func NewAviationstackClient(cfg AviationstackConfig, m *metrics.Metrics, loggerObj *logger.Logger) *AviationstackClient {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 15
	}
	return &AviationstackClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		enabled:    cfg.Enabled,
		metrics:    m,
		logger:     loggerObj.Named("aviationstack"),
	}
}

// Enabled reports whether a usable API key is configured
func (c *AviationstackClient) Enabled() bool {
	return c.enabled
}

// FetchDepartures returns up to one page of flights departing from hub
func (c *AviationstackClient) FetchDepartures(ctx context.Context, hub string) ([]flights.FlightRecord, error) {
	if !c.enabled {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("dep_iata", hub)
	params.Set("limit", strconv.Itoa(c.pageSize))

	req, err := newRequest(ctx, c.baseURL+"/flights?"+params.Encode())
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetching departures", logger.String("hub", hub), logger.Int("limit", c.pageSize))

	var body aviationstackResponse
	if err := doJSON(c.httpClient, req, providerAviationstack, c.metrics, c.logger, &body); err != nil {
		return nil, fmt.Errorf("aviationstack departures for %s: %w", hub, err)
	}

	if body.Error != nil {
		return nil, fmt.Errorf("aviationstack departures for %s: %s: %s", hub, body.Error.Code, body.Error.Message)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("aviationstack departures for %s: %w", hub, ErrMissingData)
	}

	return *body.Data, nil
}
