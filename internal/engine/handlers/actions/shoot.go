package actions

import (
	"context"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine/handlers"
	"blockrooms-client/internal/store"
	"blockrooms-client/pkg/api"
	"blockrooms-client/pkg/logger"

	"github.com/sirupsen/logrus"
)

// liveEntityIn находит живую сущность комнаты в последнем снимке.
func liveEntityIn(snap store.Snapshot, room domain.RoomID) (domain.Entity, bool) {
	for _, e := range snap.Entities {
		if e.RoomID == room && !e.Dead() {
			return e, true
		}
	}
	return domain.Entity{}, false
}

// HandleShoot обрабатывает выстрел. Промах тратит патрон и не ходит на
// бэкенд; попадание отправляет attackEntity и планирует проверку смерти.
func HandleShoot(ctx handlers.Context, payload api.ShotPayload) (handlers.Result, error) {
	if !ctx.Gates.CanShoot {
		logger.Log.WithField("room", ctx.Gates.Room).Debug("shoot ignored: gate closed")
		return handlers.EmptyResult(), nil
	}

	room := ctx.Gates.Room

	ctx.Store.MutateStats(func(st *domain.GameStats) { st.ShotsFired++ })
	if ctx.Snap.ReserveAmmo > 0 {
		ctx.Store.AddReserveAmmo(-1)
	}

	if !payload.Hit {
		return handlers.Result{Msg: "shot missed"}, nil
	}

	target, ok := liveEntityIn(ctx.Snap, room)
	if !ok {
		logger.Log.WithField("room", room).Debug("shoot ignored: no live entity in room")
		return handlers.EmptyResult(), nil
	}

	guard := "shoot:" + string(room)
	if !ctx.Rt.TryClaim(guard) {
		return handlers.EmptyResult(), nil
	}

	ctx.Rt.Go(func(c context.Context) {
		res, err := ctx.Backend.AttackEntity(c, target.EntityID)
		ctx.Rt.Apply(func() {
			defer ctx.Rt.Release(guard)

			if err != nil {
				logger.Log.WithError(err).WithField("entity", target.EntityID).Error("attackEntity call failed")
				return
			}
			if !res.Success {
				logger.Log.WithFields(logrus.Fields{
					"entity": target.EntityID, "reason": res.Error,
				}).Info("attackEntity refused")
				return
			}

			ctx.Store.MutateStats(func(st *domain.GameStats) { st.ShotsHit++ })
			ctx.Store.PushEvent("ENTITY_HIT", room, target.EntityID)

			// Смерть сущности подтверждает бэкенд: перечитка плюс
			// отложенная проверка на случай задержки индексера.
			ctx.Rt.Refetch(ctx.Cfg.AttackRefetch)
			ctx.Rt.Schedule(ctx.Cfg.AttackRecheck, func() {
				snap := ctx.Store.Snapshot()
				if _, alive := liveEntityIn(snap, room); !alive &&
					ctx.Store.RoomPhase(room) == domain.RoomCombat {
					ctx.Store.SetRoomPhase(room, domain.RoomShardAvailable)
				}
			})
		})
	})

	return handlers.Result{Msg: "shot fired", Kind: "SHOT", Room: room}, nil
}
