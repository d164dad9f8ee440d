package domain

// RoomID — идентификатор комнаты ("1".."7").
// Бэкенд присылает числовые id, клиент везде работает со строковой формой.
type RoomID string

// AllRooms — все комнаты сессии в фиксированном порядке.
var AllRooms = []RoomID{"1", "2", "3", "4", "5", "6", "7"}

// IsValidRoom проверяет, что id — одна из семи известных комнат.
func IsValidRoom(id RoomID) bool {
	for _, r := range AllRooms {
		if r == id {
			return true
		}
	}
	return false
}

// DefaultRoom — комната по умолчанию, если позиция игрока не попадает
// ни в одну известную зону. Осознанный fallback, а не потеря данных.
const DefaultRoom RoomID = "1"

// Weapon — активное оружие игрока.
type Weapon string

const (
	WeaponPistol  Weapon = "pistol"
	WeaponShotgun Weapon = "shotgun"
)

// GamePhase — фаза игровой сессии. Состояние принадлежит бэкенду;
// клиент лишь выводит его из player/session (см. DerivePhase).
type GamePhase string

const (
	PhaseUninitialized GamePhase = "uninitialized"
	PhaseInitialized   GamePhase = "initialized"
	PhaseActive        GamePhase = "active"
	PhaseCompleted     GamePhase = "completed"
	PhaseGameOver      GamePhase = "game_over"
)

// DerivePhase вычисляет фазу из авторитетных данных бэкенда.
// Порядок проверок важен: смерть игрока перекрывает победу сессии.
func DerivePhase(p *Player, s *GameSession) GamePhase {
	if p == nil {
		return PhaseUninitialized
	}
	if !p.IsAlive {
		return PhaseGameOver
	}
	if s != nil && s.VictoryAchieved {
		return PhaseCompleted
	}
	if s != nil && s.SessionComplete && !s.VictoryAchieved {
		return PhaseGameOver
	}
	if p.GameActive {
		return PhaseActive
	}
	return PhaseInitialized
}
