package store

import (
	"testing"

	"blockrooms-client/internal/domain"
)

func TestSetPlayerRecalculatesPhase(t *testing.T) {
	s := New()

	if s.Snapshot().Phase != domain.PhaseUninitialized {
		t.Fatal("fresh store must be uninitialized")
	}

	s.SetPlayer(&domain.Player{IsAlive: true, GameActive: true})
	if got := s.Snapshot().Phase; got != domain.PhaseActive {
		t.Fatalf("phase = %s, want active", got)
	}

	s.SetSession(&domain.GameSession{SessionComplete: true, VictoryAchieved: true})
	if got := s.Snapshot().Phase; got != domain.PhaseCompleted {
		t.Fatalf("phase = %s, want completed", got)
	}

	s.SetPlayer(&domain.Player{IsAlive: false})
	if got := s.Snapshot().Phase; got != domain.PhaseGameOver {
		t.Fatalf("phase = %s, want game_over: death overrides victory", got)
	}
}

func TestRoomPhaseTransitionIdempotent(t *testing.T) {
	s := New()

	if !s.SetRoomPhase("3", domain.RoomCombat) {
		t.Fatal("first transition must apply")
	}
	if s.SetRoomPhase("3", domain.RoomCombat) {
		t.Fatal("repeated transition must be a no-op")
	}
	if got := s.RoomPhase("3"); got != domain.RoomCombat {
		t.Fatalf("room 3 phase = %s", got)
	}
	if got := s.RoomPhase("4"); got != domain.RoomLocked {
		t.Fatalf("untouched room must stay locked, got %s", got)
	}
}

func TestEquipGunOnce(t *testing.T) {
	s := New()

	if !s.EquipGun() {
		t.Fatal("first equip must succeed")
	}
	if s.EquipGun() {
		t.Fatal("second equip must fail")
	}
	if s.SetWeapon(domain.WeaponPistol) {
		t.Fatal("switching to the active weapon must be a no-op")
	}
	if !s.SetWeapon(domain.WeaponShotgun) {
		t.Fatal("switching to shotgun must succeed")
	}
}

func TestSetWeaponRequiresGun(t *testing.T) {
	s := New()
	if s.SetWeapon(domain.WeaponShotgun) {
		t.Fatal("weapon switch without a gun must fail")
	}
}

func TestTakePickupNeverResets(t *testing.T) {
	s := New()

	if !s.TakePickup("P1") {
		t.Fatal("first take must succeed")
	}
	if s.TakePickup("P1") {
		t.Fatal("repeated take must fail")
	}
	if !s.TakenPickups()["P1"] {
		t.Fatal("pickup not marked taken")
	}
}

func TestCanEndGameDefaultsTrue(t *testing.T) {
	// На старте сессии ни одна комната не в окне «вошёл, не вышел»,
	// поэтому завершение игры разрешено сразу.
	s := New()
	if !s.Snapshot().CanEndGame {
		t.Fatal("fresh session must allow ending the game")
	}
	s.SetCanEndGame(false)
	if s.Snapshot().CanEndGame {
		t.Fatal("enter must close the end-game window")
	}
}

func TestEventRingBounded(t *testing.T) {
	s := New()
	for i := 0; i < maxEvents+20; i++ {
		s.PushEvent("shot", "1", "")
	}
	if n := len(s.Snapshot().Events); n != maxEvents {
		t.Fatalf("ring holds %d events, want %d", n, maxEvents)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := New()
	s.SetPlayer(&domain.Player{Health: 100, IsAlive: true})
	s.SetEntities([]domain.Entity{{EntityID: "e1", RoomID: "2", IsAlive: true, Health: 50}})

	snap := s.Snapshot()
	snap.Player.Health = 1
	snap.Entities[0].Health = 1
	snap.RoomStates["5"] = domain.RoomExited

	fresh := s.Snapshot()
	if fresh.Player.Health != 100 {
		t.Fatal("snapshot player leaked into store")
	}
	if fresh.Entities[0].Health != 50 {
		t.Fatal("snapshot entities leaked into store")
	}
	if fresh.RoomStates["5"] != domain.RoomLocked {
		t.Fatal("snapshot room states leaked into store")
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	s := New()
	s.SetPlayer(&domain.Player{Health: 75, IsAlive: true, GameActive: true, CurrentRoom: "3"})
	s.SetCurrentRoom(&domain.RoomInfo{RoomID: "3"})
	s.UpdatePosition(domain.Position{X: 355, Z: 295})
	s.SetRoomPhase("1", domain.RoomExited)
	s.SetRoomPhase("2", domain.RoomExited)
	s.SetRoomPhase("3", domain.RoomCombat)
	s.EquipGun()
	s.SetWeapon(domain.WeaponShotgun)
	s.AddReserveAmmo(20)
	s.TakePickup("P2")
	s.SetGameStarted(true)

	restored := New()
	restored.RestorePersisted(s.ExportPersisted())

	got := restored.Snapshot()
	if got.Player == nil || got.Player.Health != 75 {
		t.Fatal("player not restored")
	}
	if got.CurrentRoom == nil || got.CurrentRoom.RoomID != "3" {
		t.Fatal("current room not restored")
	}
	if got.RoomStates["2"] != domain.RoomExited || got.RoomStates["3"] != domain.RoomCombat {
		t.Fatal("room phases not restored")
	}
	if !got.HasGun || got.Weapon != domain.WeaponShotgun || got.ReserveAmmo != 20 {
		t.Fatal("weapon state not restored")
	}
	if !restored.TakenPickups()["P2"] {
		t.Fatal("pickups not restored")
	}
	if got.Phase != domain.PhaseActive {
		t.Fatalf("restored phase = %s, want active", got.Phase)
	}
	if !got.GameStarted {
		t.Fatal("gameStarted not restored")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	s.SetPlayer(&domain.Player{IsAlive: true})
	s.EquipGun()
	s.TakePickup("P1")
	s.SetRoomPhase("1", domain.RoomExited)
	s.SetCanEndGame(false)

	s.Reset()
	got := s.Snapshot()
	if got.Player != nil || got.HasGun {
		t.Fatal("reset left state behind")
	}
	if !got.CanEndGame {
		t.Fatal("reset must restore the open end-game window")
	}
	if got.RoomStates["1"] != domain.RoomLocked {
		t.Fatal("reset left room phases behind")
	}
	if len(s.TakenPickups()) != 0 {
		t.Fatal("reset left pickups behind")
	}
}

func TestNotifierDelivery(t *testing.T) {
	s := New()
	ch := s.Subscribe("test")
	defer s.Unsubscribe("test")

	s.SetPlayer(&domain.Player{IsAlive: true})
	select {
	case c := <-ch:
		if c != ChangeGameData {
			t.Fatalf("change = %v, want game data", c)
		}
	default:
		t.Fatal("no notification delivered")
	}
}
