package plex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perrors "github.com/tessro/plexwatch/internal/errors"
	"go.uber.org/zap"
)

func TestClientFetchSessions(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		body         string
		expectedErr  error
		expectedBody string
	}{
		{
			name:         "success",
			statusCode:   http.StatusOK,
			body:         "<MediaContainer/>",
			expectedBody: "<MediaContainer/>",
		},
		{
			name:        "unauthorized",
			statusCode:  http.StatusUnauthorized,
			body:        "nope",
			expectedErr: perrors.ErrUnauthorized,
		},
		{
			name:        "server error",
			statusCode:  http.StatusBadGateway,
			expectedErr: perrors.ErrServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotHeader, gotQuery string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get(TokenHeader)
				gotQuery = r.URL.Query().Get(TokenHeader)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewClient(server.URL+"/status/sessions?X-Plex-Token=secret", "secret", WithLogger(zap.NewNop()))
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}

			data, err := c.FetchSessions(context.Background())

			if gotHeader != "secret" {
				t.Errorf("header token = %q, want secret", gotHeader)
			}
			if gotQuery != "secret" {
				t.Errorf("query token = %q, want secret", gotQuery)
			}

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("FetchSessions() error = %v, want %v", err, tt.expectedErr)
				}
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.statusCode {
					t.Errorf("error = %v, want *StatusError with %d", err, tt.statusCode)
				}
				if data != nil {
					t.Error("data should be nil on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("FetchSessions() error = %v", err)
			}
			if string(data) != tt.expectedBody {
				t.Errorf("body = %q, want %q", data, tt.expectedBody)
			}
		})
	}
}

func TestClientRejectsOversizedBody(t *testing.T) {
	body := "<MediaContainer>" + strings.Repeat(`<Track title="x"/>`, maxBodySize/18+1) + "</MediaContainer>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	c, err := NewClient(server.URL+"/status/sessions", "secret")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	data, err := c.FetchSessions(context.Background())
	if !errors.Is(err, perrors.ErrServerError) {
		t.Fatalf("FetchSessions() error = %v, want %v", err, perrors.ErrServerError)
	}
	if errors.Is(err, perrors.ErrMalformedDocument) {
		t.Error("oversized body must not be reported as malformed")
	}
	if data != nil {
		t.Errorf("data length = %d, want nil", len(data))
	}
}

func TestClientAcceptsBodyAtLimit(t *testing.T) {
	body := strings.Repeat("a", maxBodySize)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	c, err := NewClient(server.URL+"/status/sessions", "secret")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	data, err := c.FetchSessions(context.Background())
	if err != nil {
		t.Fatalf("FetchSessions() error = %v", err)
	}
	if len(data) != maxBodySize {
		t.Errorf("data length = %d, want %d", len(data), maxBodySize)
	}
}

func TestClientConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := NewClient(addr+"/status/sessions", "")
	if err != nil {
		t.Fatal(err)
	}

	data, err := c.FetchSessions(context.Background())
	if err == nil {
		t.Fatal("FetchSessions() error = nil for closed server")
	}
	if !errors.Is(err, perrors.ErrNetworkError) {
		t.Errorf("error = %v, want ErrNetworkError", err)
	}
	if data != nil {
		t.Error("data should be nil on transport error")
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c, err := NewClient(server.URL, "", WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.FetchSessions(context.Background())
	if !errors.Is(err, perrors.ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

func TestClientSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sessionsDoc))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "t")
	if err != nil {
		t.Fatal(err)
	}

	snapshot, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snapshot.Len() != 2 {
		t.Errorf("Len() = %d, want 2", snapshot.Len())
	}
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewClient("/status/sessions", ""); err == nil {
		t.Error("NewClient() error = nil for relative url")
	}
}

func TestClientURLRedactsToken(t *testing.T) {
	c, err := NewClient("http://plex:32400/status/sessions?X-Plex-Token=secret", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(c.URL(), "secret") {
		t.Errorf("URL() = %q leaks the token", c.URL())
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 404}
	if got := err.Error(); got != "sessions request failed (status 404)" {
		t.Errorf("Error() = %q", got)
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() should be nil for 404")
	}
}
