package world

import (
	"fmt"

	"blockrooms-client/internal/domain"
)

// DoorID — идентификатор физической двери ("1".."13").
// Дверей больше, чем комнат: у всех комнат кроме четвёртой по две двери.
type DoorID string

// PickupID — идентификатор подбираемого предмета (клиентская сущность,
// бэкенд о ней не знает).
type PickupID string

// Door — статический дескриптор двери: зона близости и комната-владелец.
// Визуальное открытие/закрытие — функция состояния комнаты, а не двери:
// двери одной комнаты открываются вместе.
type Door struct {
	ID   DoorID        `yaml:"id"`
	Room domain.RoomID `yaml:"room"`
	Zone domain.Rect   `yaml:"zone"`
}

// Pickup — точка подбора (патроны либо первое оружие).
type Pickup struct {
	ID PickupID `yaml:"id"`
	X  float64  `yaml:"x"`
	Z  float64  `yaml:"z"`
}

// Table — полная статическая таблица зон игрового поля.
type Table struct {
	Doors       []Door   `yaml:"doors"`
	Pickups     []Pickup `yaml:"pickups"`
	FirstPickup Pickup   `yaml:"firstPickup"`
	PickupRange float64  `yaml:"pickupRange"`
}

// Default возвращает встроенную таблицу (координаты оригинальной карты).
func Default() *Table {
	return &Table{
		Doors: []Door{
			// Комната 1
			{ID: "1", Room: "1", Zone: domain.Rect{MinX: 370, MaxX: 374, MinZ: 305, MaxZ: 308}},
			{ID: "2", Room: "1", Zone: domain.Rect{MinX: 382, MaxX: 387, MinZ: 324, MaxZ: 328}},
			// Комната 2
			{ID: "3", Room: "2", Zone: domain.Rect{MinX: 350, MaxX: 360, MinZ: 290, MaxZ: 300}},
			{ID: "4", Room: "2", Zone: domain.Rect{MinX: 335, MaxX: 345, MinZ: 290, MaxZ: 300}},
			// Комната 3
			{ID: "5", Room: "3", Zone: domain.Rect{MinX: 363, MaxX: 370, MinZ: 398, MaxZ: 405}},
			{ID: "6", Room: "3", Zone: domain.Rect{MinX: 363, MaxX: 364, MinZ: 367, MaxZ: 370}},
			// Комната 4 (единственная дверь)
			{ID: "7", Room: "4", Zone: domain.Rect{MinX: 323, MaxX: 324, MinZ: 358, MaxZ: 359}},
			// Комната 5
			{ID: "8", Room: "5", Zone: domain.Rect{MinX: 303, MaxX: 304, MinZ: 349, MaxZ: 350}},
			{ID: "9", Room: "5", Zone: domain.Rect{MinX: 288, MaxX: 289, MinZ: 377, MaxZ: 378}},
			// Комната 6
			{ID: "10", Room: "6", Zone: domain.Rect{MinX: 278, MaxX: 282, MinZ: 347, MaxZ: 349}},
			{ID: "11", Room: "6", Zone: domain.Rect{MinX: 269, MaxX: 274, MinZ: 320, MaxZ: 322}},
			// Комната 7
			{ID: "12", Room: "7", Zone: domain.Rect{MinX: 275, MaxX: 278, MinZ: 281, MaxZ: 283}},
			{ID: "13", Room: "7", Zone: domain.Rect{MinX: 281, MaxX: 283, MinZ: 308, MaxZ: 311}},
		},
		Pickups: []Pickup{
			{ID: "P1", X: 350, Z: 392},
			{ID: "P2", X: 369, Z: 277},
			{ID: "P3", X: 338, Z: 322},
		},
		FirstPickup: Pickup{ID: "FIRST", X: 399, Z: 392},
		PickupRange: 2.0,
	}
}

// Validate проверяет инварианты таблицы:
// зоны дверей дизъюнктны, комнаты валидны, у комнаты 1-2 двери.
func (t *Table) Validate() error {
	if len(t.Doors) == 0 {
		return fmt.Errorf("door table is empty")
	}

	perRoom := make(map[domain.RoomID]int)
	seen := make(map[DoorID]bool)

	for i, d := range t.Doors {
		if d.ID == "" {
			return fmt.Errorf("door #%d: empty id", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("door %s: duplicate id", d.ID)
		}
		seen[d.ID] = true

		if !domain.IsValidRoom(d.Room) {
			return fmt.Errorf("door %s: unknown room %q", d.ID, d.Room)
		}
		perRoom[d.Room]++

		// Зоны обязаны быть дизъюнктными по построению:
		// одновременное попадание в две зоны ломает выбор двери.
		for _, other := range t.Doors[:i] {
			if d.Zone.Overlaps(other.Zone) {
				return fmt.Errorf("door %s: zone overlaps door %s", d.ID, other.ID)
			}
		}
	}

	for room, n := range perRoom {
		if n > 2 {
			return fmt.Errorf("room %s: %d doors (max 2)", room, n)
		}
	}

	if t.PickupRange <= 0 {
		return fmt.Errorf("pickupRange must be positive")
	}
	return nil
}

// DoorByID ищет дверь по идентификатору.
func (t *Table) DoorByID(id DoorID) (Door, bool) {
	for _, d := range t.Doors {
		if d.ID == id {
			return d, true
		}
	}
	return Door{}, false
}

// DoorsOfRoom возвращает двери комнаты в порядке таблицы
// (порядок таблицы численный, поэтому первая дверь — лексически первая).
func (t *Table) DoorsOfRoom(room domain.RoomID) []Door {
	var out []Door
	for _, d := range t.Doors {
		if d.Room == room {
			out = append(out, d)
		}
	}
	return out
}
