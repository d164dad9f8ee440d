package server

import (
	"encoding/json"
	"net/http"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/rules"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сессии
type DebugHandler struct {
	Store *store.Store
	Table *world.Table
}

func NewDebugHandler(st *store.Store, table *world.Table) *DebugHandler {
	return &DebugHandler{Store: st, Table: table}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/rooms", h.handleRooms)
	mux.HandleFunc("/debug/gates", h.handleGates)
	mux.HandleFunc("/debug/store", h.handleStore)
	mux.HandleFunc("/debug/events", h.handleEvents)
}

// /debug/rooms - фазы всех комнат и производные панельные флаги
func (h *DebugHandler) handleRooms(w http.ResponseWriter, r *http.Request) {
	type RoomView struct {
		Room          domain.RoomID `json:"room"`
		Phase         string        `json:"phase"`
		DoorOpened    bool          `json:"door_opened"`
		EntityVisible bool          `json:"entity_visible"`
		ShootPanel    bool          `json:"shoot_panel"`
		ShardPanel    bool          `json:"shard_panel"`
		ExitPanel     bool          `json:"exit_panel"`
	}

	snap := h.Store.Snapshot()
	var views []RoomView
	for _, id := range domain.AllRooms {
		p := snap.RoomStates[id]
		views = append(views, RoomView{
			Room:          id,
			Phase:         p.String(),
			DoorOpened:    p.DoorOpened(),
			EntityVisible: p.EntityVisible(),
			ShootPanel:    p.ShootPanelEnabled(),
			ShardPanel:    p.ShardPanelEnabled(),
			ExitPanel:     p.ExitPanelEnabled(),
		})
	}
	writeJSON(w, views)
}

// /debug/gates - предикаты действий для текущей позиции
func (h *DebugHandler) handleGates(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	gates := rules.Evaluate(h.Table, snap, h.Store.TakenPickups())
	writeJSON(w, gates)
}

// /debug/store - полный снимок состояния сессии
func (h *DebugHandler) handleStore(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()

	view := struct {
		Player      *domain.Player      `json:"player"`
		Session     *domain.GameSession `json:"session"`
		CurrentRoom *domain.RoomInfo    `json:"current_room"`
		Position    domain.Position     `json:"position"`
		Phase       domain.GamePhase    `json:"game_phase"`
		GameStarted bool                `json:"game_started"`
		CanEndGame  bool                `json:"can_end_game"`
		HasGun      bool                `json:"has_gun"`
		Weapon      domain.Weapon       `json:"weapon"`
		ReserveAmmo int                 `json:"reserve_ammo"`
		Stats       domain.GameStats    `json:"stats"`
	}{
		Player:      snap.Player,
		Session:     snap.Session,
		CurrentRoom: snap.CurrentRoom,
		Position:    snap.Position,
		Phase:       snap.Phase,
		GameStarted: snap.GameStarted,
		CanEndGame:  snap.CanEndGame,
		HasGun:      snap.HasGun,
		Weapon:      snap.Weapon,
		ReserveAmmo: snap.ReserveAmmo,
		Stats:       snap.Stats,
	}
	writeJSON(w, view)
}

// /debug/events - кольцо последних событий сессии
func (h *DebugHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	if snap.Events == nil {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, snap.Events)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, пустой журнал), возвращаем пустой массив [], а не null
	if data == nil {
		if _, err := w.Write([]byte("[]")); err != nil {
			return
		}
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}
