package actions

import (
	"context"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine/handlers"
	"blockrooms-client/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HandleEnter обрабатывает интент входа в комнату. Дверь открывается
// только после подтверждения бэкенда; до ответа повторные нажатия
// гасятся in-flight guard'ом.
func HandleEnter(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Gates.CanEnter {
		logger.Log.WithField("room", ctx.Gates.Room).Debug("enter ignored: no active door zone")
		return handlers.EmptyResult(), nil
	}

	door := ctx.Gates.EnterDoor
	room := ctx.Gates.EnterRoom

	guard := "enter:" + string(room)
	if !ctx.Rt.TryClaim(guard) {
		logger.Log.WithField("room", room).Debug("enter ignored: call in flight")
		return handlers.EmptyResult(), nil
	}

	ctx.Rt.Go(func(c context.Context) {
		res, err := ctx.Backend.EnterDoor(c, string(door))
		ctx.Rt.Apply(func() {
			defer ctx.Rt.Release(guard)

			if err != nil {
				logger.Log.WithError(err).WithField("door", door).Error("enterDoor call failed")
				return
			}
			if !res.Success {
				logger.Log.WithFields(logrus.Fields{
					"door": door, "reason": res.Error,
				}).Info("enterDoor refused")
				return
			}

			// Дверь открыта. Сущность проявляется с задержкой,
			// согласованной с анимацией открытия.
			ctx.Store.SetRoomPhase(room, domain.RoomOpening)
			ctx.Store.SetCanEndGame(false)
			ctx.Store.PushEvent("ROOM_ENTERED", room, string(door))

			ctx.Rt.Schedule(ctx.Cfg.RevealDelay, func() {
				// Комната могла уйти дальше (смерть сущности по фиду).
				if ctx.Store.RoomPhase(room) == domain.RoomOpening {
					ctx.Store.SetRoomPhase(room, domain.RoomCombat)
				}
			})
			ctx.Rt.Refetch(ctx.Cfg.RefetchAfterEnter)

			logger.Log.WithFields(logrus.Fields{
				"room": room, "door": door, "tx": res.TxHash,
			}).Info("room entered")
		})
	})

	return handlers.Result{Msg: "entering room", Kind: "", Room: room}, nil
}
