package agent

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
	"blockrooms-client/pkg/api"
)

// scriptedBackend — стейт-машина бэкенда: честно отыгрывает вход,
// убийство сущности, сбор осколка и выход для каждой комнаты.
type scriptedBackend struct {
	mu          sync.Mutex
	table       *world.Table
	current     domain.RoomID
	entered     map[domain.RoomID]bool
	entityDead  map[domain.RoomID]bool
	cleared     map[domain.RoomID]bool
	exited      map[domain.RoomID]bool
	endGameHits int
}

func newScriptedBackend() *scriptedBackend {
	return &scriptedBackend{
		table:      world.Default(),
		current:    "1",
		entered:    make(map[domain.RoomID]bool),
		entityDead: make(map[domain.RoomID]bool),
		cleared:    make(map[domain.RoomID]bool),
		exited:     make(map[domain.RoomID]bool),
	}
}

func ok() (*api.ActionResult, error) {
	return &api.ActionResult{Success: true, TxHash: "0xscript"}, nil
}

func refuse(reason string) (*api.ActionResult, error) {
	return &api.ActionResult{Success: false, Error: reason}, nil
}

func (b *scriptedBackend) EnterDoor(ctx context.Context, doorID string) (*api.ActionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	door, found := b.table.DoorByID(world.DoorID(doorID))
	if !found {
		return refuse("unknown door")
	}
	b.current = door.Room
	b.entered[door.Room] = true
	return ok()
}

func (b *scriptedBackend) AttackEntity(ctx context.Context, entityID string) (*api.ActionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.entered[b.current] {
		return refuse("no combat here")
	}
	b.entityDead[b.current] = true
	return ok()
}

func (b *scriptedBackend) CollectShard(ctx context.Context, target string) (*api.ActionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.entityDead[b.current] {
		return refuse("entity still alive")
	}
	b.cleared[b.current] = true
	return ok()
}

func (b *scriptedBackend) ExitDoor(ctx context.Context, doorID string) (*api.ActionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.cleared[b.current] {
		return refuse("room not cleared")
	}
	b.exited[b.current] = true
	return ok()
}

func (b *scriptedBackend) EndGame(ctx context.Context) (*api.ActionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endGameHits++
	return ok()
}

func (b *scriptedBackend) FetchGameData(ctx context.Context) (*api.GameData, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	player, _ := json.Marshal(domain.Player{
		Health: 100, IsAlive: true, GameActive: true, CurrentRoom: b.current,
	})
	room, _ := json.Marshal(domain.RoomInfo{RoomID: b.current, Cleared: b.cleared[b.current]})
	hp := 50
	if b.entityDead[b.current] {
		hp = 0
	}
	entities, _ := json.Marshal([]domain.Entity{{
		EntityID: "e" + string(b.current),
		RoomID:   b.current,
		IsAlive:  !b.entityDead[b.current],
		Health:   hp,
	}})
	shards, _ := json.Marshal([]domain.ShardLocation{{
		ShardID: "s" + string(b.current), RoomID: b.current, Collected: b.cleared[b.current],
	}})

	return &api.GameData{Player: player, CurrentRoom: room, Entities: entities, ShardLocations: shards}, nil
}

func (b *scriptedBackend) done() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.exited), b.endGameHits
}

func fastConfig() engine.Config {
	cfg := engine.NewConfig()
	cfg.RevealDelay = 5 * time.Millisecond
	cfg.RefetchAfterEnter = 5 * time.Millisecond
	cfg.AttackRecheck = 5 * time.Millisecond
	cfg.AttackRefetch = 2 * time.Millisecond
	cfg.ClearedRetryDelay = 5 * time.Millisecond
	cfg.PollInterval = 2 * time.Millisecond
	cfg.MusicInitialDelay = time.Hour // музыка не участвует
	return cfg
}

// Полный проход: агент проносит сессию через все семь комнат и
// завершает игру.
func TestAutopilotFullRun(t *testing.T) {
	backend := newScriptedBackend()
	st := store.New()
	table := world.Default()
	session := engine.NewSession(fastConfig(), st, table, backend, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.Run(ctx)

	// Первый снимок бэкенда, как будто пришел по фиду.
	st.SetPlayer(&domain.Player{Health: 100, IsAlive: true, GameActive: true, CurrentRoom: "1"})
	st.SetCurrentRoom(&domain.RoomInfo{RoomID: "1"})

	pilot := New(session, st, table)
	pilot.Interval = 2 * time.Millisecond
	go pilot.Run(ctx)

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		exited, ends := backend.done()
		if exited == len(domain.AllRooms) && ends == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	exited, ends := backend.done()
	t.Fatalf("autopilot stalled: %d/%d rooms exited, endGame calls %d; phases %v",
		exited, len(domain.AllRooms), ends, st.Snapshot().RoomStates)
}
