package rules

import (
	"testing"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
)

func activeSnap() store.Snapshot {
	return store.Snapshot{
		Player:     &domain.Player{IsAlive: true, GameActive: true},
		Phase:      domain.PhaseActive,
		RoomStates: domain.NewRoomStates(),
	}
}

func TestEnterGateRequiresDoorZone(t *testing.T) {
	tab := world.Default()

	snap := activeSnap()
	snap.Position = domain.Position{X: 355, Z: 295} // зона двери 3

	g := Evaluate(tab, snap, nil)
	if !g.CanEnter || g.EnterDoor != "3" {
		t.Fatalf("in door zone: CanEnter=%v door=%q", g.CanEnter, g.EnterDoor)
	}

	snap.Position = domain.Position{X: 0, Z: 0}
	if g := Evaluate(tab, snap, nil); g.CanEnter {
		t.Fatal("open space must not allow enter")
	}
}

func TestEnterGateBlockedMidRoom(t *testing.T) {
	tab := world.Default()
	snap := activeSnap()
	snap.Position = domain.Position{X: 355, Z: 295}

	for _, phase := range []domain.RoomPhase{domain.RoomOpening, domain.RoomCombat, domain.RoomShardAvailable, domain.RoomExitAvailable} {
		snap.RoomStates["2"] = phase
		if g := Evaluate(tab, snap, nil); g.CanEnter {
			t.Fatalf("enter allowed while room in phase %s", phase)
		}
	}

	// Покинутая комната открыта для повторного входа.
	snap.RoomStates["2"] = domain.RoomExited
	if g := Evaluate(tab, snap, nil); !g.CanEnter {
		t.Fatal("re-enter of exited room must be allowed")
	}
}

func TestShootGate(t *testing.T) {
	tab := world.Default()

	base := activeSnap()
	base.Position = domain.Position{X: 355, Z: 295}
	base.CurrentRoom = &domain.RoomInfo{RoomID: "2"}
	base.RoomStates["2"] = domain.RoomCombat
	base.HasGun = true
	base.Weapon = domain.WeaponShotgun
	base.Aiming = true

	if g := Evaluate(tab, base, nil); !g.CanShoot {
		t.Fatal("all conditions met, shoot must be allowed")
	}

	cases := []struct {
		name string
		mut  func(*store.Snapshot)
	}{
		{"no aiming", func(s *store.Snapshot) { s.Aiming = false }},
		{"pistol", func(s *store.Snapshot) { s.Weapon = domain.WeaponPistol }},
		{"no gun", func(s *store.Snapshot) { s.HasGun = false }},
		{"entity hidden", func(s *store.Snapshot) { s.RoomStates["2"] = domain.RoomOpening }},
		{"dead player", func(s *store.Snapshot) { s.Player = &domain.Player{IsAlive: false} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snap := base
			snap.RoomStates = base.RoomStates.Clone()
			c.mut(&snap)
			if g := Evaluate(tab, snap, nil); g.CanShoot {
				t.Fatal("shoot must be blocked")
			}
		})
	}
}

func TestCollectAndExitGates(t *testing.T) {
	tab := world.Default()
	snap := activeSnap()
	snap.CurrentRoom = &domain.RoomInfo{RoomID: "4"}

	snap.RoomStates["4"] = domain.RoomShardAvailable
	g := Evaluate(tab, snap, nil)
	if !g.CanCollect || g.CanExit {
		t.Fatalf("shard available: collect=%v exit=%v", g.CanCollect, g.CanExit)
	}

	snap.RoomStates["4"] = domain.RoomExitAvailable
	g = Evaluate(tab, snap, nil)
	if g.CanCollect || !g.CanExit {
		t.Fatalf("exit available: collect=%v exit=%v", g.CanCollect, g.CanExit)
	}
	if g.ExitDoor != "7" {
		t.Fatalf("exit door = %q, want 7", g.ExitDoor)
	}

	snap.RoomStates["4"] = domain.RoomExited
	g = Evaluate(tab, snap, nil)
	if g.CanCollect || g.CanExit {
		t.Fatal("exited room offers no panels")
	}
}

func TestExitDoorPrefersCurrentZone(t *testing.T) {
	tab := world.Default()
	snap := activeSnap()
	snap.CurrentRoom = &domain.RoomInfo{RoomID: "1"}
	snap.RoomStates["1"] = domain.RoomExitAvailable
	snap.Position = domain.Position{X: 384, Z: 326} // зона двери 2

	g := Evaluate(tab, snap, nil)
	if g.ExitDoor != "2" {
		t.Fatalf("exit door = %q, want 2 (current zone)", g.ExitDoor)
	}

	snap.Position = domain.Position{X: 0, Z: 0}
	g = Evaluate(tab, snap, nil)
	if g.ExitDoor != "1" {
		t.Fatalf("exit door = %q, want 1 (first of room)", g.ExitDoor)
	}
}

func TestEndGameGate(t *testing.T) {
	tab := world.Default()
	snap := activeSnap()
	snap.Initialized = true

	// Окно закрыто, пока идет прохождение комнаты (enter без exit).
	snap.CanEndGame = false
	if g := Evaluate(tab, snap, nil); g.CanEnd {
		t.Fatal("end game must be blocked while a room is underway")
	}
	snap.CanEndGame = true
	if g := Evaluate(tab, snap, nil); !g.CanEnd {
		t.Fatal("end game must be allowed when no room is underway")
	}
	snap.Initialized = false
	if g := Evaluate(tab, snap, nil); g.CanEnd {
		t.Fatal("end game needs an initialized player")
	}
}

func TestPickupGate(t *testing.T) {
	tab := world.Default()
	snap := activeSnap()

	// Первая точка выдает оружие только пока оружия нет.
	snap.Position = domain.Position{X: 399, Z: 392}
	g := Evaluate(tab, snap, nil)
	if !g.CanPickup || g.PickupID != tab.FirstPickup.ID {
		t.Fatalf("first pickup: can=%v id=%q", g.CanPickup, g.PickupID)
	}
	snap.HasGun = true
	if g := Evaluate(tab, snap, nil); g.CanPickup {
		t.Fatal("first pickup with gun in hand must be inert")
	}

	// Точка патронов исчезает после подбора.
	snap.Position = domain.Position{X: 350, Z: 392}
	g = Evaluate(tab, snap, nil)
	if !g.CanPickup || g.PickupID != "P1" {
		t.Fatalf("ammo pickup: can=%v id=%q", g.CanPickup, g.PickupID)
	}
	taken := map[world.PickupID]bool{"P1": true}
	if g := Evaluate(tab, snap, taken); g.CanPickup {
		t.Fatal("taken pickup must be inert")
	}
}
