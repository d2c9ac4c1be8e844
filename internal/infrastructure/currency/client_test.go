package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://rates.example.com/latest/USD", 0)

	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, "https://rates.example.com/latest/USD", client.endpoint)
	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestFetchRates_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.9,"INR":83.1,"BAD":0}}`))
	}))
	defer server.Close()

	rates, err := NewClient(server.URL, 600).FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1.0, rates["USD"])
	assert.Equal(t, 0.9, rates["EUR"])
	assert.Equal(t, 83.1, rates["INR"])
	assert.NotContains(t, rates, "BAD")
}

func TestFetchRates_RebasesNonUSDTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base_code":"EUR","rates":{"USD":2,"GBP":1}}`))
	}))
	defer server.Close()

	rates, err := NewClient(server.URL, 600).FetchRates(context.Background())

	require.NoError(t, err)
	assert.InDelta(t, 1.0, rates["USD"], 0.0001)
	assert.InDelta(t, 0.5, rates["EUR"], 0.0001)
	assert.InDelta(t, 0.5, rates["GBP"], 0.0001)
}

func TestFetchRates_ServerError_Retries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"rates":{"EUR":0.9}}`))
	}))
	defer server.Close()

	rates, err := NewClient(server.URL, 600).FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 0.9, rates["EUR"])
}

func TestFetchRates_ClientError_NoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	rates, err := NewClient(server.URL, 600).FetchRates(context.Background())

	assert.Nil(t, rates)
	assert.ErrorIs(t, err, domain.ErrRateRefreshFailed)
	assert.Equal(t, 1, attempts)
}

func TestFetchRates_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 600).FetchRates(context.Background())
	assert.ErrorIs(t, err, domain.ErrRateRefreshFailed)
}

func TestFetchRates_EmptyTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 600).FetchRates(context.Background())
	assert.ErrorIs(t, err, domain.ErrRateRefreshFailed)
}

func TestStaticProvider(t *testing.T) {
	rates, err := StaticProvider{}.FetchRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 74.0, rates["INR"])
}
