package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rhino11/tacenrich/internal/classify"
	"github.com/rhino11/tacenrich/internal/store"
	"github.com/rhino11/tacenrich/internal/track"
)

func newTestStore() *store.Store {
	st := store.New()
	obj := track.New(0x100, 1, 0)
	obj.Type = "Air+FixedWing"
	obj.Category = classify.Air
	st.GetOrCreate(0x100, func() *track.Object { return obj })
	return st
}

func TestHandleStatsCountsByCategory(t *testing.T) {
	srv := NewServer(newTestStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Total != 1 {
		t.Fatalf("Total = %d, want 1", got.Total)
	}
	if got.ByCategory["air"] != 1 {
		t.Fatalf("ByCategory[air] = %d, want 1", got.ByCategory["air"])
	}
}

func TestHandleGetObjectFound(t *testing.T) {
	srv := NewServer(newTestStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/objects/100", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got track.Object
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.TacID != 0x100 {
		t.Fatalf("TacID = %x, want 0x100", got.TacID)
	}
}

func TestHandleGetObjectNotFound(t *testing.T) {
	srv := NewServer(newTestStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/objects/dead", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleGetObjectBadTacID(t *testing.T) {
	srv := NewServer(newTestStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/objects/not-hex", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBroadcastDoesNotBlockWithoutClients(t *testing.T) {
	srv := NewServer(newTestStore(), nil)
	obj := track.New(1, 1, 0)

	done := make(chan struct{})
	go func() {
		srv.Broadcast(obj)
		close(done)
	}()
	select {
	case <-done:
	default:
	}
	<-done
}
