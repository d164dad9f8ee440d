package store

import (
	"sync"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/world"
)

// maxEvents ограничивает кольцо последних событий.
const maxEvents = 50

// Event — запись журнала последних событий сессии.
type Event struct {
	At     time.Time     `json:"at"`
	Kind   string        `json:"kind"`
	RoomID domain.RoomID `json:"room_id,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// Store — единственный владелец состояния сессии. Все изменения идут
// через именованные сеттеры под мьютексом, чтение — через Snapshot.
// Глобального экземпляра нет, стор передается зависимостям явно.
type Store struct {
	mu       sync.RWMutex
	notifier *Notifier

	// Данные бэкенда
	player      *domain.Player
	session     *domain.GameSession
	currentRoom *domain.RoomInfo
	entities    []domain.Entity
	shards      []domain.ShardLocation

	// Локальное состояние
	position    domain.Position
	aiming      bool
	roomStates  domain.RoomStates
	phase       domain.GamePhase
	gameStarted bool
	initialized bool
	canEndGame  bool

	hasGun      bool
	weapon      domain.Weapon
	reserveAmmo int
	pickups     map[world.PickupID]bool
	stats       domain.GameStats

	events      []Event
	totalEvents int // всего событий за сессию, кольцо держит только хвост
}

func New() *Store {
	return &Store{
		notifier:   NewNotifier(),
		roomStates: domain.NewRoomStates(),
		phase:      domain.PhaseUninitialized,
		weapon:     domain.WeaponPistol,
		// Завершение разрешено, пока ни одна комната не в окне
		// «вошёл, не вышел». На старте сессии окно пусто.
		canEndGame: true,
		pickups:    make(map[world.PickupID]bool),
	}
}

// Subscribe регистрирует подписчика на уведомления об изменениях.
func (s *Store) Subscribe(id string) chan Change {
	return s.notifier.Register(id)
}

// Unsubscribe снимает подписку.
func (s *Store) Unsubscribe(id string) {
	s.notifier.Unregister(id)
}

// --- Данные бэкенда ---

// SetPlayer обновляет игрока и пересчитывает фазу игры.
func (s *Store) SetPlayer(p *domain.Player) {
	s.mu.Lock()
	s.player = p
	s.recalcPhaseLocked()
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeGameData)
}

// SetSession обновляет сессию и пересчитывает фазу игры.
func (s *Store) SetSession(gs *domain.GameSession) {
	s.mu.Lock()
	s.session = gs
	s.recalcPhaseLocked()
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeGameData)
}

func (s *Store) SetCurrentRoom(r *domain.RoomInfo) {
	s.mu.Lock()
	s.currentRoom = r
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeGameData)
}

func (s *Store) SetEntities(list []domain.Entity) {
	s.mu.Lock()
	s.entities = list
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeGameData)
}

func (s *Store) SetShardLocations(list []domain.ShardLocation) {
	s.mu.Lock()
	s.shards = list
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeGameData)
}

// Фаза зависит от игрока и сессии, пересчет только под мьютексом.
func (s *Store) recalcPhaseLocked() {
	s.phase = domain.DerivePhase(s.player, s.session)
	if s.player != nil {
		s.initialized = true
	}
}

// --- Позиция ---

func (s *Store) UpdatePosition(p domain.Position) {
	s.mu.Lock()
	s.position = p
	s.mu.Unlock()
	s.notifier.Broadcast(ChangePosition)
}

func (s *Store) SetAiming(v bool) {
	s.mu.Lock()
	s.aiming = v
	s.mu.Unlock()
	s.notifier.Broadcast(ChangePosition)
}

// --- Фазы комнат ---

// SetRoomPhase переводит комнату в новую фазу. Возвращает false, если
// фаза уже установлена: повторный перевод не рассылается.
func (s *Store) SetRoomPhase(room domain.RoomID, phase domain.RoomPhase) bool {
	s.mu.Lock()
	if s.roomStates[room] == phase {
		s.mu.Unlock()
		return false
	}
	s.roomStates[room] = phase
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeRooms)
	return true
}

func (s *Store) RoomPhase(room domain.RoomID) domain.RoomPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomStates[room]
}

// ResetRooms возвращает все комнаты в исходную фазу.
func (s *Store) ResetRooms() {
	s.mu.Lock()
	s.roomStates = domain.NewRoomStates()
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeRooms)
}

// --- Локальные поля ---

func (s *Store) SetGameStarted(v bool) {
	s.mu.Lock()
	s.gameStarted = v
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
}

func (s *Store) SetCanEndGame(v bool) {
	s.mu.Lock()
	s.canEndGame = v
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
}

// EquipGun выдает первое оружие. Повторная выдача — ложь.
func (s *Store) EquipGun() bool {
	s.mu.Lock()
	if s.hasGun {
		s.mu.Unlock()
		return false
	}
	s.hasGun = true
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
	return true
}

// SetWeapon переключает активное оружие, если оружие вообще выдано.
func (s *Store) SetWeapon(w domain.Weapon) bool {
	s.mu.Lock()
	if !s.hasGun || s.weapon == w {
		s.mu.Unlock()
		return false
	}
	s.weapon = w
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
	return true
}

// AddReserveAmmo пополняет запас патронов.
func (s *Store) AddReserveAmmo(n int) {
	s.mu.Lock()
	s.reserveAmmo += n
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
}

// TakePickup помечает точку подбора использованной. Метка не
// сбрасывается до конца игры. Возвращает false при повторе.
func (s *Store) TakePickup(id world.PickupID) bool {
	s.mu.Lock()
	if s.pickups[id] {
		s.mu.Unlock()
		return false
	}
	s.pickups[id] = true
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
	return true
}

// TakenPickups возвращает копию множества использованных точек.
func (s *Store) TakenPickups() map[world.PickupID]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[world.PickupID]bool, len(s.pickups))
	for id, v := range s.pickups {
		out[id] = v
	}
	return out
}

// MutateStats изменяет статистику под мьютексом.
func (s *Store) MutateStats(fn func(*domain.GameStats)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
}

// PushEvent добавляет запись в кольцо последних событий.
func (s *Store) PushEvent(kind string, room domain.RoomID, detail string) {
	s.mu.Lock()
	s.events = append(s.events, Event{At: time.Now(), Kind: kind, RoomID: room, Detail: detail})
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
	s.totalEvents++
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeLocal)
}

// Reset очищает состояние до стартового. Используется при завершении игры.
func (s *Store) Reset() {
	s.mu.Lock()
	s.player = nil
	s.session = nil
	s.currentRoom = nil
	s.entities = nil
	s.shards = nil
	s.position = domain.Position{}
	s.aiming = false
	s.roomStates = domain.NewRoomStates()
	s.phase = domain.PhaseUninitialized
	s.gameStarted = false
	s.initialized = false
	s.canEndGame = true
	s.hasGun = false
	s.weapon = domain.WeaponPistol
	s.reserveAmmo = 0
	s.pickups = make(map[world.PickupID]bool)
	s.stats = domain.GameStats{}
	s.events = nil
	s.totalEvents = 0
	s.mu.Unlock()
	s.notifier.Broadcast(ChangeGameData)
}
