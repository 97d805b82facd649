package signal

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorClientFetchesSignal(t *testing.T) {
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "http://aggregator.internal/internal/v1/emotion-signal",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "2024-08-29", req.URL.Query().Get("date"))
			assert.Equal(t, "13", req.URL.Query().Get("hour"))
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"postCount":    120,
				"emotionDelta": 2.5,
			})
		})

	c := NewAggregatorClient(client, "http://aggregator.internal")
	sig, err := c.SignalForHour(context.Background(), 13, time.Date(2024, 8, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 120, sig.PostCount)
	assert.InDelta(t, 2.5, sig.EmotionDelta, 1e-9)
}

func TestAggregatorClientClientErrorIsNotRetried(t *testing.T) {
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "http://aggregator.internal/internal/v1/emotion-signal",
		httpmock.NewStringResponder(http.StatusNotFound, "no such hour"))

	c := NewAggregatorClient(client, "http://aggregator.internal")
	_, err := c.SignalForHour(context.Background(), 13, time.Date(2024, 8, 29, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "4xx responses must not burn the retry budget")
}

func TestAggregatorClientDefaultsHTTPClient(t *testing.T) {
	// A nil client is replaced at construction, not rejected per request.
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "http://aggregator.internal/internal/v1/emotion-signal",
		httpmock.NewStringResponder(http.StatusOK, `{"postCount": 7, "emotionDelta": -1.5}`))

	c := NewAggregatorClient(nil, "http://aggregator.internal")
	sig, err := c.SignalForHour(context.Background(), 9, time.Date(2024, 8, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 7, sig.PostCount)
	assert.InDelta(t, -1.5, sig.EmotionDelta, 1e-9)
}

func TestBackoffConfigWithDefaults(t *testing.T) {
	b := BackoffConfig{MaxRetries: -3}.withDefaults()
	assert.Equal(t, 0, b.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, b.InitialInterval)
	assert.Equal(t, 5*time.Second, b.MaxInterval)

	custom := BackoffConfig{MaxRetries: 4, InitialInterval: time.Second, MaxInterval: 10 * time.Second}.withDefaults()
	assert.Equal(t, 4, custom.MaxRetries)
	assert.Equal(t, time.Second, custom.InitialInterval)
	assert.Equal(t, 10*time.Second, custom.MaxInterval)
}

func TestAggregatorClientRequiresBaseURL(t *testing.T) {
	c := NewAggregatorClient(&http.Client{}, "")
	_, err := c.SignalForHour(context.Background(), 13, time.Now())
	require.Error(t, err)
}

func TestRetryableClassification(t *testing.T) {
	assert.True(t, retryable(errRateLimited))
	assert.True(t, retryable(errServerError))
	assert.True(t, retryable(context.DeadlineExceeded))
	assert.False(t, retryable(errUnexpected))
}
