package agent

import (
	"context"
	"encoding/json"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine"
	"blockrooms-client/internal/rules"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
	"blockrooms-client/pkg/logger"
)

// Autopilot — headless-агент, проходящий комнаты без человека.
// Этот код является примером ВНЕШНЕГО драйвера сессии: он видит то же,
// что видит HUD (снимок стора и предикаты), и подает те же интенты,
// что подавал бы игрок с клавиатуры. Прямого доступа к бэкенду у него нет.
//
// Жизненный цикл:
//  1. New -> Подписка на уведомления стора.
//  2. Run -> Цикл в отдельной горутине: на каждое изменение (и по таймеру)
//     вызывается step.
//  3. step -> Смотрит предикаты и решает один следующий интент.
type Autopilot struct {
	Session *engine.Session
	Store   *store.Store
	Table   *world.Table

	// Interval — нижняя граница частоты решений. Агент в headless-режиме
	// владеет позицией, телепортация без паузы выглядит как дребезг.
	Interval time.Duration
}

func New(session *engine.Session, st *store.Store, table *world.Table) *Autopilot {
	return &Autopilot{
		Session:  session,
		Store:    st,
		Table:    table,
		Interval: 50 * time.Millisecond,
	}
}

// Run крутит агента до отмены контекста.
func (a *Autopilot) Run(ctx context.Context) {
	changes := a.Store.Subscribe("autopilot")
	defer a.Store.Unsubscribe("autopilot")

	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()

	logger.Log.Info("autopilot engaged")
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-ticker.C:
		}
		a.step()

		// Дренаж накопившихся уведомлений: решение уже принято по
		// свежему снимку, повторять его на каждое не нужно.
		for {
			select {
			case <-changes:
				continue
			default:
			}
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(a.Interval):
		}
	}
}

// step принимает одно решение на основе текущего снимка.
func (a *Autopilot) step() {
	snap := a.Store.Snapshot()
	if snap.Player == nil || !snap.Player.IsAlive {
		return
	}
	gates := rules.Evaluate(a.Table, snap, a.Store.TakenPickups())

	switch {
	// Все комнаты пройдены: завершаем игру.
	case gates.CanEnd && a.allExited(snap):
		a.Session.ProcessKey("b")

	// Сначала оружие.
	case !snap.HasGun:
		if gates.CanPickup {
			a.Session.ProcessKey("t")
			return
		}
		a.moveTo(a.Table.FirstPickup.X, a.Table.FirstPickup.Z)

	case snap.Weapon != domain.WeaponShotgun:
		a.Session.ProcessKey("2")

	case gates.CanShoot:
		a.Session.ProcessIntent(domain.IntentCommand{
			Action:  domain.ActionShoot,
			Payload: json.RawMessage(`{"hit":true}`),
		})

	case gates.CanCollect:
		a.Session.ProcessKey("x")

	case gates.CanExit:
		a.Session.ProcessKey("q")

	case gates.CanEnter && snap.RoomStates[gates.EnterRoom] == domain.RoomLocked:
		a.Session.ProcessKey("e")

	default:
		a.advance(snap, gates)
	}
}

// advance ведет агента к двери следующей непройденной комнаты либо
// включает прицел, если идет бой.
func (a *Autopilot) advance(snap store.Snapshot, gates rules.Gates) {
	phase := snap.RoomStates[gates.Room]
	if phase == domain.RoomCombat && !snap.Aiming {
		a.Store.SetAiming(true)
		return
	}
	if phase.Entered() {
		// Комната в процессе: ждем подтверждений бэкенда.
		return
	}

	for _, id := range domain.AllRooms {
		if snap.RoomStates[id] != domain.RoomLocked {
			continue
		}
		doors := a.Table.DoorsOfRoom(id)
		if len(doors) == 0 {
			continue
		}
		z := doors[0].Zone
		a.moveTo(float64(z.MinX+z.MaxX)/2, float64(z.MinZ+z.MaxZ)/2)
		return
	}
}

// moveTo телепортирует агента: в headless-режиме источник позиции — он сам.
func (a *Autopilot) moveTo(x, z float64) {
	a.Store.UpdatePosition(domain.Position{X: x, Z: z})
}

func (a *Autopilot) allExited(snap store.Snapshot) bool {
	for _, id := range domain.AllRooms {
		if snap.RoomStates[id] != domain.RoomExited {
			return false
		}
	}
	return true
}
