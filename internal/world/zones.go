package world

import (
	"blockrooms-client/internal/domain"
)

// ZoneSet — результат чистой классификации позиции по всем зонам поля.
// Пересчитывается на каждое обновление позиции; членство в зоне не
// кэшируется между обновлениями.
type ZoneSet struct {
	Doors         map[DoorID]bool
	Pickups       map[PickupID]bool
	InFirstPickup bool
}

// ZoneAt классифицирует позицию. Дверные зоны проверяются по округлённым
// целочисленным координатам (включительные границы), зоны подбора — по
// непрерывному расстоянию по осям.
func (t *Table) ZoneAt(pos domain.Position) ZoneSet {
	zs := ZoneSet{
		Doors:   make(map[DoorID]bool, len(t.Doors)),
		Pickups: make(map[PickupID]bool, len(t.Pickups)),
	}

	gx, gz := pos.GridX(), pos.GridZ()
	for _, d := range t.Doors {
		zs.Doors[d.ID] = d.Zone.Contains(gx, gz)
	}

	for _, p := range t.Pickups {
		zs.Pickups[p.ID] = within(pos, p, t.PickupRange)
	}
	zs.InFirstPickup = within(pos, t.FirstPickup, t.PickupRange)

	return zs
}

func within(pos domain.Position, p Pickup, r float64) bool {
	dx := pos.X - p.X
	dz := pos.Z - p.Z
	return dx >= -r && dx <= r && dz >= -r && dz <= r
}

// ActiveDoor возвращает первую (в порядке таблицы) дверь, в зоне которой
// находится игрок. Зоны дизъюнктны, поэтому активная дверь не больше одной.
func (t *Table) ActiveDoor(zs ZoneSet) (Door, bool) {
	for _, d := range t.Doors {
		if zs.Doors[d.ID] {
			return d, true
		}
	}
	return Door{}, false
}

// ExitDoorFor выбирает дверь для выхода из комнаты: дверь текущей зоны,
// если она принадлежит комнате, иначе первая дверь комнаты.
func (t *Table) ExitDoorFor(room domain.RoomID, zs ZoneSet) (DoorID, bool) {
	if d, ok := t.ActiveDoor(zs); ok && d.Room == room {
		return d.ID, true
	}
	doors := t.DoorsOfRoom(room)
	if len(doors) == 0 {
		return "", false
	}
	return doors[0].ID, true
}

// ResolveRoomID определяет текущую комнату по убыванию доверия к источнику:
//  1. комната из данных бэкенда (currentRoom.room_id);
//  2. комната игрока (player.current_room);
//  3. комната-владелец активной дверной зоны;
//  4. комната по умолчанию.
//
// Невалидные значения источника пропускаются, а не пробрасываются дальше.
func (t *Table) ResolveRoomID(room *domain.RoomInfo, player *domain.Player, zs ZoneSet) domain.RoomID {
	if room != nil && domain.IsValidRoom(room.RoomID) {
		return room.RoomID
	}
	if player != nil && domain.IsValidRoom(player.CurrentRoom) {
		return player.CurrentRoom
	}
	if d, ok := t.ActiveDoor(zs); ok {
		return d.Room
	}
	return domain.DefaultRoom
}

// ActivePickup возвращает первую неподобранную точку подбора в радиусе.
func (t *Table) ActivePickup(zs ZoneSet, taken map[PickupID]bool) (Pickup, bool) {
	for _, p := range t.Pickups {
		if zs.Pickups[p.ID] && !taken[p.ID] {
			return p, true
		}
	}
	return Pickup{}, false
}
