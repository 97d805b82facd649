// Package signal talks to the upstream post/emotion aggregator that supplies
// the hourly activity signal. The aggregator is an external service that may
// be slow or down; every call carries retries, backoff and a circuit breaker
// so an unhealthy upstream can never stall the analysis cadence.
package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/campuslife/campus-climate/internal/climate"
)

// AggregatorClient implements climate.SignalSource against the aggregator's
// internal HTTP API.
type AggregatorClient struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewAggregatorClient builds a client for the aggregator at baseURL. The
// resilience settings are normalized here so the request path never has to
// re-validate them.
func NewAggregatorClient(client *http.Client, baseURL string) *AggregatorClient {
	if client == nil {
		client = http.DefaultClient
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "emotion-aggregator",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &AggregatorClient{
		name:    "emotion-aggregator",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries: 2,
			}.withDefaults(),
		},
		circuit: cb,
	}
}

func (c *AggregatorClient) Name() string {
	return c.name
}

// SignalForHour fetches the post count and emotion delta the aggregator
// observed for the given hour of the given campus day.
func (c *AggregatorClient) SignalForHour(ctx context.Context, hour int, campusDate time.Time) (climate.HourlySignal, error) {
	if c.baseURL == "" {
		return climate.HourlySignal{}, fmt.Errorf("aggregator base url is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("date", campusDate.Format("2006-01-02"))
		values.Set("hour", fmt.Sprintf("%d", hour))

		u := fmt.Sprintf("%s/internal/v1/emotion-signal?%s", c.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return climate.HourlySignal{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		PostCount    int     `json:"postCount"`
		EmotionDelta float64 `json:"emotionDelta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return climate.HourlySignal{}, fmt.Errorf("decode aggregator response: %w", err)
	}

	return climate.HourlySignal{
		PostCount:    payload.PostCount,
		EmotionDelta: payload.EmotionDelta,
	}, nil
}
