package extrolApi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/extrol_cli/config"
	"github.com/KotFed0t/extrol_cli/internal/externalApi"
	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/shopspring/decimal"
)

func newTestApi(t *testing.T, handler http.Handler) *ExtrolApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.Timeout = 5 * time.Second
	return New(cfg)
}

func TestListEntries(t *testing.T) {
	api := newTestApi(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/entries" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("missing bearer header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "date": "2024-01-01", "price": 10.5, "note": "Gas refill"},
			{"_id": "2", "date": "2024-02-01", "price": 20, "note": ""},
		})
	}))

	entries, err := api.ListEntries(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "1" || !entries[0].Price.Equal(decimal.NewFromFloat(10.5)) {
		t.Fatalf("entry 0 mismatch: %+v", entries[0])
	}
	// mongo-style _id is accepted too
	if entries[1].ID != "2" {
		t.Fatalf("expected _id fallback, got %+v", entries[1])
	}
}

func TestCreateEntry(t *testing.T) {
	api := newTestApi(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/entries" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["date"] != "2024-03-01" || body["price"] != 12.5 {
			t.Fatalf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "new", "date": "2024-03-01", "price": 12.5, "note": "x"})
	}))

	entry, err := api.CreateEntry(context.Background(), "tok", model.EntryDraft{
		Date:  "2024-03-01",
		Price: decimal.NewFromFloat(12.5),
		Note:  "x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID != "new" {
		t.Fatalf("expected server-assigned id, got %+v", entry)
	}
}

func TestUpdateAndDeletePaths(t *testing.T) {
	var gotPaths []string
	api := newTestApi(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.Method+" "+r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "42", "date": "2024-01-01", "price": 1})
	}))

	ctx := context.Background()
	if _, err := api.UpdateEntry(ctx, "tok", "42", model.EntryDraft{Date: "2024-01-01", Price: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := api.DeleteEntry(ctx, "tok", "42"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"PUT /api/entries/42", "DELETE /api/entries/42"}
	for i := range want {
		if gotPaths[i] != want[i] {
			t.Fatalf("path %d: got %q, want %q", i, gotPaths[i], want[i])
		}
	}
}

func TestRemoteErrorCarriesServerMessage(t *testing.T) {
	api := newTestApi(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "price must be positive"})
	}))

	_, err := api.CreateEntry(context.Background(), "tok", model.EntryDraft{Price: decimal.NewFromInt(1)})

	var remoteErr *externalApi.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.StatusCode != http.StatusBadRequest || remoteErr.Message != "price must be positive" {
		t.Fatalf("unexpected RemoteError: %+v", remoteErr)
	}
}

func TestRemoteErrorUnauthorized(t *testing.T) {
	api := newTestApi(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := api.ListEntries(context.Background(), "expired")

	var remoteErr *externalApi.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if !remoteErr.Unauthorized() {
		t.Fatalf("expected 401 to be distinguished, got %+v", remoteErr)
	}
	if remoteErr.Message != "" {
		t.Fatalf("expected empty message for bodyless error, got %q", remoteErr.Message)
	}
}

func TestNetworkErrorOnUnreachableServer(t *testing.T) {
	cfg := &config.Config{}
	cfg.API.BaseURL = "http://127.0.0.1:1" // nothing listens there
	cfg.API.Timeout = time.Second
	api := New(cfg)

	_, err := api.ListEntries(context.Background(), "tok")

	var netErr *externalApi.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	api := newTestApi(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("expected no Authorization header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]any{})
	}))

	if _, err := api.ListEntries(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogin(t *testing.T) {
	api := newTestApi(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok",
			"user":  map[string]string{"id": "u1", "name": "Ada", "email": "ada@example.com"},
		})
	}))

	sess, err := api.Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "tok" || sess.User.Name != "Ada" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}
