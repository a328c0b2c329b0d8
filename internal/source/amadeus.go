package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/yegors/flightboard/internal/flights"
	"github.com/yegors/flightboard/internal/metrics"
	"github.com/yegors/flightboard/pkg/logger"
)

const providerAmadeus = "amadeus"

// AmadeusConfig configures the fare-offer client
type AmadeusConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	BaseURL      string
	MaxOffers    int
	SafetyMargin time.Duration
	Timeout      time.Duration

	Enabled bool
}

// ProviderToken is a bearer credential with the instant it stops being reused
type ProviderToken struct {
	AccessToken string
	Expiry      time.Time
}

// AmadeusClient searches the fare provider. It owns the access token and
// refreshes it through a client-credentials exchange.
type AmadeusClient struct {
	httpClient   *http.Client
	oauth        clientcredentials.Config
	baseURL      string
	maxOffers    int
	safetyMargin time.Duration
	enabled      bool
	clock        func() time.Time
	metrics      *metrics.Metrics
	logger       *logger.Logger

	// Token and expiry are swapped together
	token   atomic.Pointer[ProviderToken]
	refresh singleflight.Group
}

// NewAmadeusClient creates a new fare-offer client
func NewAmadeusClient(cfg AmadeusConfig, m *metrics.Metrics, loggerObj *logger.Logger) *AmadeusClient {
	maxOffers := cfg.MaxOffers
	if maxOffers <= 0 {
		maxOffers = 10
	}
	return &AmadeusClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.AuthURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		maxOffers:    maxOffers,
		safetyMargin: cfg.SafetyMargin,
		enabled:      cfg.Enabled,
		clock:        time.Now,
		metrics:      m,
		logger:       loggerObj.Named("amadeus"),
	}
}

// Enabled reports whether client credentials are configured
func (c *AmadeusClient) Enabled() bool {
	return c.enabled
}

// Token returns a valid access token, exchanging credentials when the cached
// one is missing or inside the safety margin
func (c *AmadeusClient) Token(ctx context.Context) (ProviderToken, error) {
	if tok := c.token.Load(); tok != nil && c.clock().Before(tok.Expiry) {
		return *tok, nil
	}

	// The exchange is shared by every waiting search, so it ignores the
	// cancellation of whichever caller started it
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.refresh.Do("token", func() (any, error) {
		if tok := c.token.Load(); tok != nil && c.clock().Before(tok.Expiry) {
			return *tok, nil
		}
		return c.exchange(shared)
	})
	if err != nil {
		return ProviderToken{}, err
	}
	return v.(ProviderToken), nil
}

// exchange performs the client-credentials grant and stores the result
func (c *AmadeusClient) exchange(ctx context.Context) (ProviderToken, error) {
	start := time.Now()
	now := c.clock()

	tok, err := c.oauth.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	c.metrics.ObserveProviderRequest(providerAmadeus+"-auth", time.Since(start), err)
	if err != nil {
		return ProviderToken{}, fmt.Errorf("amadeus token exchange: %w", err)
	}
	c.metrics.ObserveTokenRefresh()

	ttl := tokenTTL(tok)
	expiry := now.Add(ttl - c.safetyMargin)
	if expiry.Before(now) {
		expiry = now
	}

	pt := ProviderToken{AccessToken: tok.AccessToken, Expiry: expiry}
	c.token.Store(&pt)

	c.logger.Info("Obtained fare provider access token",
		logger.Duration("ttl", ttl),
		logger.Time("reuse_until", expiry))

	return pt, nil
}

// tokenTTL reads the provider lifetime from expires_in, falling back to the
// absolute expiry computed by the oauth2 package
func tokenTTL(tok *oauth2.Token) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	if !tok.Expiry.IsZero() {
		return time.Until(tok.Expiry)
	}
	return 0
}

// SearchOffers queries flight offers for a route and date
func (c *AmadeusClient) SearchOffers(ctx context.Context, q flights.OfferQuery) ([]flights.FlightOffer, error) {
	if !c.enabled {
		return nil, ErrMissingCredentials
	}

	tok, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartureDate)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("travelClass", q.CabinClass)
	params.Set("max", strconv.Itoa(c.maxOffers))

	req, err := newRequest(ctx, c.baseURL+"/shopping/flight-offers?"+params.Encode())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	c.logger.Debug("Searching flight offers",
		logger.String("origin", q.Origin),
		logger.String("destination", q.Destination),
		logger.String("date", q.DepartureDate))

	var body struct {
		Data *[]flights.FlightOffer `json:"data"`
	}
	err = doJSON(c.httpClient, req, providerAmadeus, c.metrics, c.logger, &body)
	if err != nil {
		if hasStatus(err, http.StatusUnauthorized) {
			// Drop the rejected token so the next call exchanges again
			c.token.Store(nil)
		}
		return nil, fmt.Errorf("amadeus flight offers: %w", err)
	}

	if body.Data == nil {
		return nil, flights.ErrNoOfferData
	}
	return *body.Data, nil
}
