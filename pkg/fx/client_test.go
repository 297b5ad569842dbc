package fx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]string) {
	t.Helper()
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL+"/v6", "secret")
	client.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return client, &paths
}

func TestRateTodayUsesPairEndpoint(t *testing.T) {
	client, paths := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","conversion_rate":0.1724}`))
	})

	rate, err := client.Rate(context.Background(), "RON", "GBP", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if rate.String() != "0.1724" {
		t.Fatalf("rate = %s, want 0.1724", rate)
	}
	if (*paths)[0] != "/v6/secret/pair/RON/GBP" {
		t.Fatalf("path = %s", (*paths)[0])
	}
}

func TestRatePastDateUsesHistoryEndpoint(t *testing.T) {
	client, paths := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","conversion_rate":0.17}`))
	})

	if _, err := client.Rate(context.Background(), "RON", "GBP", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if (*paths)[0] != "/v6/secret/history/RON/GBP/2024/2/5" {
		t.Fatalf("path = %s", (*paths)[0])
	}
}

func TestRateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusOK, `{"result":"error","error-type":"invalid-key"}`},
		{"missing rate", http.StatusOK, `{"result":"success"}`},
		{"zero rate", http.StatusOK, `{"result":"success","conversion_rate":0}`},
		{"bad json", http.StatusOK, `not json`},
		{"http error", http.StatusBadGateway, `upstream down`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := client.Rate(context.Background(), "RON", "GBP", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
			if !errors.Is(err, ErrFetch) {
				t.Fatalf("err = %v, want ErrFetch", err)
			}
		})
	}
}

func TestRateWithoutAPIKey(t *testing.T) {
	client := NewClient("", "")
	if _, err := client.Rate(context.Background(), "RON", "GBP", time.Now()); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
}
