package actions

import (
	"context"
	"errors"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine/handlers"
	"blockrooms-client/internal/gateway"
	"blockrooms-client/pkg/logger"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

var errRoomNotCleared = errors.New("room not cleared yet")

// HandleExit обрабатывает выход из комнаты. Перед exitDoor клиент
// принудительно перечитывает состояние и ждет флага cleared: бэкенд
// мог еще не проиндексировать сбор осколка. Одна повторная проверка,
// дальше интент отменяется.
func HandleExit(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Gates.CanExit {
		logger.Log.WithField("room", ctx.Gates.Room).Debug("exit ignored: gate closed")
		return handlers.EmptyResult(), nil
	}

	room := ctx.Gates.Room
	door := ctx.Gates.ExitDoor

	guard := "exit:" + string(room)
	if !ctx.Rt.TryClaim(guard) {
		return handlers.EmptyResult(), nil
	}

	ctx.Rt.Go(func(c context.Context) {
		cleared := func(c context.Context) error {
			data, err := ctx.Backend.FetchGameData(c)
			if err != nil {
				return retry.RetryableError(err)
			}
			if err := gateway.ApplyGameData(ctx.Store, data); err != nil {
				return retry.RetryableError(err)
			}
			snap := ctx.Store.Snapshot()
			if snap.CurrentRoom == nil || !snap.CurrentRoom.Cleared {
				return retry.RetryableError(errRoomNotCleared)
			}
			return nil
		}

		backoff := retry.WithMaxRetries(1, retry.NewConstant(ctx.Cfg.ClearedRetryDelay))
		if err := retry.Do(c, backoff, cleared); err != nil {
			ctx.Rt.Apply(func() {
				ctx.Rt.Release(guard)
				logger.Log.WithError(err).WithField("room", room).Warn("exit aborted: room not cleared")
			})
			return
		}

		res, err := ctx.Backend.ExitDoor(c, string(door))
		ctx.Rt.Apply(func() {
			defer ctx.Rt.Release(guard)

			if err != nil {
				logger.Log.WithError(err).WithField("door", door).Error("exitDoor call failed")
				return
			}
			if !res.Success {
				logger.Log.WithFields(logrus.Fields{
					"door": door, "reason": res.Error,
				}).Info("exitDoor refused")
				return
			}

			ctx.Store.SetRoomPhase(room, domain.RoomExited)
			ctx.Store.SetCanEndGame(true)
			ctx.Store.MutateStats(func(st *domain.GameStats) { st.RoomsCleared++ })
			ctx.Store.PushEvent("ROOM_EXITED", room, string(door))

			// Бэкенд мог уже перевести игрока в следующую комнату,
			// сверочный поллер дочитает состояние.
			ctx.Rt.Reconcile(room)

			logger.Log.WithFields(logrus.Fields{
				"room": room, "door": door, "tx": res.TxHash,
			}).Info("room exited")
		})
	})

	return handlers.Result{Msg: "exiting room", Room: room}, nil
}
