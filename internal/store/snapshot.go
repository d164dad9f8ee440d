package store

import (
	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/world"
)

// Snapshot — согласованный срез состояния на момент чтения.
// Срезы и мапы скопированы, снимок можно держать сколько угодно.
type Snapshot struct {
	Player      *domain.Player
	Session     *domain.GameSession
	CurrentRoom *domain.RoomInfo
	Entities    []domain.Entity
	Shards      []domain.ShardLocation

	Position    domain.Position
	Aiming      bool
	RoomStates  domain.RoomStates
	Phase       domain.GamePhase
	GameStarted bool
	Initialized bool
	CanEndGame  bool

	HasGun      bool
	Weapon      domain.Weapon
	ReserveAmmo int
	Stats       domain.GameStats

	Events      []Event
	TotalEvents int
}

// Snapshot снимает полный срез состояния под мьютексом.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Position:    s.position,
		Aiming:      s.aiming,
		RoomStates:  s.roomStates.Clone(),
		Phase:       s.phase,
		GameStarted: s.gameStarted,
		Initialized: s.initialized,
		CanEndGame:  s.canEndGame,
		HasGun:      s.hasGun,
		Weapon:      s.weapon,
		ReserveAmmo: s.reserveAmmo,
		Stats:       s.stats,
		TotalEvents: s.totalEvents,
	}

	if s.player != nil {
		p := *s.player
		snap.Player = &p
	}
	if s.session != nil {
		gs := *s.session
		snap.Session = &gs
	}
	if s.currentRoom != nil {
		r := *s.currentRoom
		snap.CurrentRoom = &r
	}
	if len(s.entities) > 0 {
		snap.Entities = append([]domain.Entity(nil), s.entities...)
	}
	if len(s.shards) > 0 {
		snap.Shards = append([]domain.ShardLocation(nil), s.shards...)
	}
	if len(s.events) > 0 {
		snap.Events = append([]Event(nil), s.events...)
	}
	return snap
}

// Persisted — подмножество состояния, переживающее перезапуск клиента.
type Persisted struct {
	Player      *domain.Player           `json:"player,omitempty"`
	Session     *domain.GameSession      `json:"game_session,omitempty"`
	CurrentRoom *domain.RoomInfo         `json:"current_room,omitempty"`
	Position    domain.Position          `json:"position"`
	RoomStates  domain.RoomStates        `json:"room_states"`
	Phase       domain.GamePhase         `json:"game_phase"`
	GameStarted bool                     `json:"game_started"`
	Initialized bool                     `json:"is_player_initialized"`
	HasGun      bool                     `json:"has_gun"`
	Weapon      domain.Weapon            `json:"weapon"`
	ReserveAmmo int                      `json:"reserve_ammo"`
	Pickups     map[world.PickupID]bool  `json:"pickups_taken,omitempty"`
	Stats       domain.GameStats         `json:"game_stats"`
}

// ExportPersisted собирает срез для записи на диск.
func (s *Store) ExportPersisted() Persisted {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := Persisted{
		Position:    s.position,
		RoomStates:  s.roomStates.Clone(),
		Phase:       s.phase,
		GameStarted: s.gameStarted,
		Initialized: s.initialized,
		HasGun:      s.hasGun,
		Weapon:      s.weapon,
		ReserveAmmo: s.reserveAmmo,
		Stats:       s.stats,
	}
	if s.player != nil {
		cp := *s.player
		p.Player = &cp
	}
	if s.session != nil {
		cp := *s.session
		p.Session = &cp
	}
	if s.currentRoom != nil {
		cp := *s.currentRoom
		p.CurrentRoom = &cp
	}
	if len(s.pickups) > 0 {
		p.Pickups = make(map[world.PickupID]bool, len(s.pickups))
		for id, v := range s.pickups {
			p.Pickups[id] = v
		}
	}
	return p
}

// RestorePersisted загружает сохраненный срез. Вызывается один раз
// на старте, до подписчиков, поэтому рассылает одно общее уведомление.
func (s *Store) RestorePersisted(p Persisted) {
	s.mu.Lock()
	s.player = p.Player
	s.session = p.Session
	s.currentRoom = p.CurrentRoom
	s.position = p.Position
	if p.RoomStates != nil {
		s.roomStates = p.RoomStates.Clone()
	}
	s.gameStarted = p.GameStarted
	s.initialized = p.Initialized
	s.hasGun = p.HasGun
	if p.Weapon != "" {
		s.weapon = p.Weapon
	}
	s.reserveAmmo = p.ReserveAmmo
	if p.Pickups != nil {
		s.pickups = make(map[world.PickupID]bool, len(p.Pickups))
		for id, v := range p.Pickups {
			s.pickups[id] = v
		}
	}
	s.stats = p.Stats
	s.recalcPhaseLocked()
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeGameData)
}
