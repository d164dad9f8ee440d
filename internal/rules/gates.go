package rules

import (
	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
)

// Gates — чистые предикаты допустимости действий. Считаются из снимка
// состояния и таблицы зон, сетевых вызовов не делают. Бэкенд остается
// последней инстанцией: предикат лишь отсекает заведомо бессмысленные
// запросы.
type Gates struct {
	Room domain.RoomID `json:"room"`

	CanEnter   bool `json:"can_enter"`
	CanShoot   bool `json:"can_shoot"`
	CanCollect bool `json:"can_collect"`
	CanExit    bool `json:"can_exit"`
	CanEnd     bool `json:"can_end"`
	CanPickup  bool `json:"can_pickup"`

	// Двери, через которые пойдут вход и выход, и активная точка подбора.
	EnterDoor world.DoorID   `json:"enter_door,omitempty"`
	EnterRoom domain.RoomID  `json:"enter_room,omitempty"`
	ExitDoor  world.DoorID   `json:"exit_door,omitempty"`
	PickupID  world.PickupID `json:"pickup_id,omitempty"`
}

// Evaluate вычисляет все предикаты для текущего снимка.
func Evaluate(tab *world.Table, snap store.Snapshot, taken map[world.PickupID]bool) Gates {
	zs := tab.ZoneAt(snap.Position)
	room := tab.ResolveRoomID(snap.CurrentRoom, snap.Player, zs)
	phase := snap.RoomStates[room]

	g := Gates{Room: room}

	alive := snap.Player != nil && snap.Player.IsAlive
	active := snap.Phase == domain.PhaseActive

	// Вход: живой игрок в дверной зоне комнаты, прохождение которой не
	// начато. Повторный вход в покинутую комнату разрешен, судит бэкенд.
	if d, ok := tab.ActiveDoor(zs); ok && alive && active {
		if !snap.RoomStates[d.Room].Entered() {
			g.CanEnter = true
			g.EnterDoor = d.ID
			g.EnterRoom = d.Room
		}
	}

	// Выстрел: дробовик в руках, сущность видна, идет прицеливание.
	g.CanShoot = alive && active &&
		snap.HasGun && snap.Weapon == domain.WeaponShotgun &&
		phase.ShootPanelEnabled() && snap.Aiming

	// Сбор осколка: сущность мертва, осколок еще не взят.
	g.CanCollect = alive && active && phase.ShardPanelEnabled()

	// Выход: осколок собран, комната не покинута.
	if alive && active && phase.ExitPanelEnabled() {
		if id, ok := tab.ExitDoorFor(room, zs); ok {
			g.CanExit = true
			g.ExitDoor = id
		}
	}

	// Завершение игры: окно закрыто от подтвержденного входа до
	// подтвержденного выхода, на старте сессии открыто.
	g.CanEnd = snap.CanEndGame && snap.Initialized

	// Подбор: первая точка выдает оружие, остальные — патроны.
	if alive {
		if !snap.HasGun && zs.InFirstPickup {
			g.CanPickup = true
			g.PickupID = tab.FirstPickup.ID
		} else if p, ok := tab.ActivePickup(zs, taken); ok {
			g.CanPickup = true
			g.PickupID = p.ID
		}
	}

	return g
}
