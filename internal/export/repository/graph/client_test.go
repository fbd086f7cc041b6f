package graph_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"todo-export/internal/export"
	"todo-export/internal/export/repository"
	"todo-export/internal/export/repository/graph"
)

func testConfig() graph.Config {
	return graph.Config{
		Timeout:           2 * time.Second,
		RetryAttempts:     3,
		RetryBaseDelay:    time.Millisecond,
		RetryMaxDelay:     5 * time.Millisecond,
		RequestsPerSecond: 1000,
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := graph.NewClient("http://example.invalid", "", testConfig())
	if !errors.Is(err, export.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestListTaskListsPagination(t *testing.T) {
	var ts *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/me/todo/lists", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", auth)
		}
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprintf(w, `{"value":[{"id":"l1","displayName":"One"},{"id":"l2","displayName":"Two"}],"@odata.nextLink":"%s/me/todo/lists?page=2"}`, ts.URL)
		case "2":
			fmt.Fprintf(w, `{"value":[{"id":"l3","displayName":"Three"}],"@odata.nextLink":"%s/me/todo/lists?page=3"}`, ts.URL)
		case "3":
			fmt.Fprint(w, `{"value":[{"id":"l4","displayName":"Four"},{"id":"l5","displayName":"Five"}]}`)
		}
	})
	ts = httptest.NewServer(mux)
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "test-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	lists, err := client.ListTaskLists(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(lists) != 5 {
		t.Fatalf("expected 5 lists across 3 pages, got %d", len(lists))
	}
	wantOrder := []string{"l1", "l2", "l3", "l4", "l5"}
	for i, want := range wantOrder {
		if lists[i].ID != want {
			t.Errorf("position %d: want %s, got %s", i, want, lists[i].ID)
		}
	}
}

func TestAuthFailureFailsFast(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "expired-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err = client.ListTaskLists(context.Background())
	if !errors.Is(err, repository.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("auth failure must not be retried, saw %d requests", got)
	}
}

func TestTransientFailureRetried(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"value":[{"id":"l1","displayName":"One"}]}`)
	}))
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "test-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	lists, err := client.ListTaskLists(context.Background())
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("expected 3 attempts, saw %d", got)
	}
}

func TestRetriesExhausted(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "test-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err = client.ListTaskLists(context.Background())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "giving up after 3 attempts") {
		t.Errorf("unexpected error: %v", err)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("expected exactly 3 attempts, saw %d", got)
	}
}

func TestUnexpectedStatusIsFatal(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "test-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err = client.ListTaskLists(context.Background()); err == nil {
		t.Fatal("expected error for unexpected status")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("4xx must not be retried, saw %d requests", got)
	}
}

func TestMalformedPageIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"value": "not-an-array"}`)
	}))
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "test-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err = client.ListTaskLists(context.Background()); err == nil {
		t.Fatal("expected parse error for malformed page")
	}
}

func TestListTasksSkipCompletedFilter(t *testing.T) {
	var sawFilter string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawFilter = r.URL.Query().Get("$filter")
		fmt.Fprint(w, `{"value":[]}`)
	}))
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "test-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err = client.ListTasks(context.Background(), "l1", true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sawFilter != "status ne 'completed'" {
		t.Errorf("expected server-side completed filter, got %q", sawFilter)
	}

	if _, err = client.ListTasks(context.Background(), "l1", false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sawFilter != "" {
		t.Errorf("expected no filter without skip-completed, got %q", sawFilter)
	}
}

func TestRetryAfterHonored(t *testing.T) {
	var requests atomic.Int32
	var firstAt, secondAt time.Time
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch requests.Add(1) {
		case 1:
			firstAt = time.Now()
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			secondAt = time.Now()
			fmt.Fprint(w, `{"value":[]}`)
		}
	}))
	defer ts.Close()

	client, err := graph.NewClient(ts.URL, "test-token", testConfig())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err = client.ListTaskLists(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if elapsed := secondAt.Sub(firstAt); elapsed < time.Second {
		t.Errorf("Retry-After not honored, retried after %v", elapsed)
	}
}
