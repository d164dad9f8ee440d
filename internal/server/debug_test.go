package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
)

func newDebugMux(st *store.Store) *http.ServeMux {
	mux := http.NewServeMux()
	NewDebugHandler(st, world.Default()).RegisterRoutes(mux)
	return mux
}

func TestDebugRooms(t *testing.T) {
	st := store.New()
	st.SetRoomPhase("2", domain.RoomCombat)
	mux := newDebugMux(st)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/rooms", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var views []struct {
		Room       string `json:"room"`
		Phase      string `json:"phase"`
		ShootPanel bool   `json:"shoot_panel"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != len(domain.AllRooms) {
		t.Fatalf("rooms = %d", len(views))
	}
	for _, v := range views {
		if v.Room == "2" {
			if v.Phase != "COMBAT" || !v.ShootPanel {
				t.Fatalf("room 2 view = %+v", v)
			}
		} else if v.Phase != "LOCKED" {
			t.Fatalf("room %s must be locked", v.Room)
		}
	}
}

func TestDebugGates(t *testing.T) {
	st := store.New()
	st.SetPlayer(&domain.Player{IsAlive: true, GameActive: true})
	st.UpdatePosition(domain.Position{X: 355, Z: 295})
	mux := newDebugMux(st)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/gates", nil))

	var gates struct {
		Room      string `json:"room"`
		CanEnter  bool   `json:"can_enter"`
		EnterDoor string `json:"enter_door"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &gates); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !gates.CanEnter || gates.EnterDoor != "3" {
		t.Fatalf("gates = %+v", gates)
	}
}

func TestDebugEventsEmptyIsArray(t *testing.T) {
	mux := newDebugMux(store.New())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/events", nil))
	if got := rec.Body.String(); got != "[]" {
		t.Fatalf("empty events body = %q, want []", got)
	}
}
