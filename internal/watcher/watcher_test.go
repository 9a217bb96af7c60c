package watcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testResource struct {
	Value int `json:"value"`
}

func (testResource) ResourceName() string { return "TestResource" }

func TestFetchAndCacheResourceStoresDecodedValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": 7}`))
	}))
	defer srv.Close()

	var cell Cell[testResource]
	if err := FetchAndCacheResource(context.Background(), srv.Client(), srv.URL, &cell); err != nil {
		t.Fatalf("FetchAndCacheResource: %v", err)
	}

	snap := cell.Snapshot()
	if snap == nil || snap.Value != 7 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestFetchAndCacheResourceLeavesCellOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var cell Cell[testResource]
	cell.set(&testResource{Value: 42})

	if err := FetchAndCacheResource(context.Background(), srv.Client(), srv.URL, &cell); err == nil {
		t.Fatal("expected error for 500 response")
	}

	snap := cell.Snapshot()
	if snap == nil || snap.Value != 42 {
		t.Fatalf("expected cell unchanged, got %+v", snap)
	}
}
