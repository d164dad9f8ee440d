package world

import (
	"testing"

	"blockrooms-client/internal/domain"
)

func TestDefaultTableValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
}

func TestZoneAtDoorBoundaries(t *testing.T) {
	tab := Default()

	cases := []struct {
		name string
		pos  domain.Position
		door DoorID
		in   bool
	}{
		{"inside door 1", domain.Position{X: 372, Z: 306}, "1", true},
		{"min corner inclusive", domain.Position{X: 370, Z: 305}, "1", true},
		{"max corner inclusive", domain.Position{X: 374, Z: 308}, "1", true},
		{"rounds into zone", domain.Position{X: 369.6, Z: 304.5}, "1", true},
		{"rounds out of zone", domain.Position{X: 369.4, Z: 306}, "1", false},
		{"just outside max", domain.Position{X: 374.6, Z: 308}, "1", false},
		{"single cell door 7", domain.Position{X: 323, Z: 358}, "7", true},
		{"open space", domain.Position{X: 0, Z: 0}, "7", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			zs := tab.ZoneAt(c.pos)
			if zs.Doors[c.door] != c.in {
				t.Errorf("door %s at %+v: got %v, want %v", c.door, c.pos, zs.Doors[c.door], c.in)
			}
		})
	}
}

func TestZoneAtIsPure(t *testing.T) {
	tab := Default()
	pos := domain.Position{X: 372, Z: 306}

	a := tab.ZoneAt(pos)
	b := tab.ZoneAt(pos)
	for id := range a.Doors {
		if a.Doors[id] != b.Doors[id] {
			t.Fatalf("door %s: classification not repeatable", id)
		}
	}

	// Выход из зоны не оставляет следов: повторная классификация с нуля.
	out := tab.ZoneAt(domain.Position{X: 0, Z: 0})
	for id, in := range out.Doors {
		if in {
			t.Fatalf("door %s flagged in open space", id)
		}
	}
}

func TestActiveDoorAtMostOne(t *testing.T) {
	tab := Default()

	// Перебор всех клеток в охватывающем прямоугольнике карты.
	for x := 260; x <= 400; x++ {
		for z := 270; z <= 410; z++ {
			zs := tab.ZoneAt(domain.Position{X: float64(x), Z: float64(z)})
			n := 0
			for _, in := range zs.Doors {
				if in {
					n++
				}
			}
			if n > 1 {
				t.Fatalf("cell (%d,%d): %d door zones overlap", x, z, n)
			}
		}
	}
}

func TestResolveRoomIDPrecedence(t *testing.T) {
	tab := Default()
	inDoor3 := tab.ZoneAt(domain.Position{X: 355, Z: 295})
	nowhere := tab.ZoneAt(domain.Position{X: 0, Z: 0})

	cases := []struct {
		name   string
		room   *domain.RoomInfo
		player *domain.Player
		zones  ZoneSet
		want   domain.RoomID
	}{
		{"room data wins", &domain.RoomInfo{RoomID: "5"}, &domain.Player{CurrentRoom: "3"}, inDoor3, "5"},
		{"player next", nil, &domain.Player{CurrentRoom: "3"}, inDoor3, "3"},
		{"zone fallback", nil, nil, inDoor3, "2"},
		{"default last", nil, nil, nowhere, "1"},
		{"invalid room skipped", &domain.RoomInfo{RoomID: "99"}, &domain.Player{CurrentRoom: "3"}, nowhere, "3"},
		{"invalid player skipped", nil, &domain.Player{CurrentRoom: ""}, inDoor3, "2"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := tab.ResolveRoomID(c.room, c.player, c.zones)
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestDoorZoneFallbackMapping(t *testing.T) {
	tab := Default()

	// Центр каждой дверной зоны обязан резолвиться в комнату-владельца.
	for _, d := range tab.Doors {
		pos := domain.Position{
			X: float64(d.Zone.MinX+d.Zone.MaxX) / 2,
			Z: float64(d.Zone.MinZ+d.Zone.MaxZ) / 2,
		}
		got := tab.ResolveRoomID(nil, nil, tab.ZoneAt(pos))
		if got != d.Room {
			t.Errorf("door %s: resolved to %q, want %q", d.ID, got, d.Room)
		}
	}
}

func TestExitDoorFor(t *testing.T) {
	tab := Default()

	inDoor2 := tab.ZoneAt(domain.Position{X: 384, Z: 326})
	if id, ok := tab.ExitDoorFor("1", inDoor2); !ok || id != "2" {
		t.Errorf("zone door of own room: got %q %v, want 2 true", id, ok)
	}

	// Зона чужой комнаты не годится, берётся первая дверь своей.
	if id, ok := tab.ExitDoorFor("6", inDoor2); !ok || id != "10" {
		t.Errorf("foreign zone: got %q %v, want 10 true", id, ok)
	}

	nowhere := tab.ZoneAt(domain.Position{X: 0, Z: 0})
	if id, ok := tab.ExitDoorFor("4", nowhere); !ok || id != "7" {
		t.Errorf("no zone: got %q %v, want 7 true", id, ok)
	}
}

func TestActivePickup(t *testing.T) {
	tab := Default()

	zs := tab.ZoneAt(domain.Position{X: 351.5, Z: 391})
	if p, ok := tab.ActivePickup(zs, nil); !ok || p.ID != "P1" {
		t.Fatalf("near P1: got %v %v", p.ID, ok)
	}

	taken := map[PickupID]bool{"P1": true}
	if _, ok := tab.ActivePickup(zs, taken); ok {
		t.Fatal("taken pickup reported active")
	}

	far := tab.ZoneAt(domain.Position{X: 353.1, Z: 392})
	if _, ok := tab.ActivePickup(far, nil); ok {
		t.Fatal("pickup active outside range")
	}

	first := tab.ZoneAt(domain.Position{X: 399, Z: 392})
	if !first.InFirstPickup {
		t.Fatal("first pickup zone not detected")
	}
}
