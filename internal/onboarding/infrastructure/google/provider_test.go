package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

func staticTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
}

func TestProvider_CreateEvent(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/calendars/primary/events" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "google-evt-42"})
	}))
	defer server.Close()

	provider := NewProviderWithBaseURL(staticTokenSource(), slog.New(slog.DiscardHandler), server.URL)

	start := time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC)
	externalID, err := provider.CreateEvent(context.Background(), services.CreateEventRequest{
		Title:     "HR Induction: Priya Sharma",
		Start:     start,
		End:       start.Add(time.Hour),
		Attendees: []string{"priya@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "google-evt-42", externalID)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "HR Induction: Priya Sharma", gotPayload["summary"])

	attendees, ok := gotPayload["attendees"].([]any)
	require.True(t, ok)
	require.Len(t, attendees, 1)
}

func TestProvider_CreateEvent_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	provider := NewProviderWithBaseURL(staticTokenSource(), slog.New(slog.DiscardHandler), server.URL)

	_, err := provider.CreateEvent(context.Background(), services.CreateEventRequest{
		Title: "Training",
		Start: time.Now(),
		End:   time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
}

func TestProvider_UpdateEvent(t *testing.T) {
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewProviderWithBaseURL(staticTokenSource(), slog.New(slog.DiscardHandler), server.URL)

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	err := provider.UpdateEvent(context.Background(), "google-evt-42", start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/calendars/primary/events/google-evt-42", gotPath)
}

func TestProvider_CancelEvent_ToleratesGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewProviderWithBaseURL(staticTokenSource(), slog.New(slog.DiscardHandler), server.URL)

	err := provider.CancelEvent(context.Background(), "google-evt-42")
	assert.NoError(t, err)
}

func TestProvider_WithCalendarID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewProviderWithBaseURL(staticTokenSource(), slog.New(slog.DiscardHandler), server.URL).
		WithCalendarID("onboarding@joinflow.example")

	require.NoError(t, provider.CancelEvent(context.Background(), "evt-1"))
	assert.Equal(t, "/calendars/onboarding@joinflow.example/events/evt-1", gotPath)
}
