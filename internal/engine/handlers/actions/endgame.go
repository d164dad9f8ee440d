package actions

import (
	"context"

	"blockrooms-client/internal/engine/handlers"
	"blockrooms-client/pkg/logger"
)

// HandleEndGame завершает сессию. Клиентское хранилище стирается до
// вызова бэкенда: даже если endGame не дойдет, следующий запуск
// начнется с чистого листа.
func HandleEndGame(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Gates.CanEnd {
		logger.Log.Debug("end game ignored: a room is still underway")
		return handlers.EmptyResult(), nil
	}

	if !ctx.Rt.TryClaim("end") {
		return handlers.EmptyResult(), nil
	}

	if err := ctx.Rt.WipeStorage(); err != nil {
		logger.Log.WithError(err).Error("storage wipe failed, ending game anyway")
	}

	ctx.Rt.Go(func(c context.Context) {
		res, err := ctx.Backend.EndGame(c)
		ctx.Rt.Apply(func() {
			defer ctx.Rt.Release("end")

			if err != nil {
				logger.Log.WithError(err).Error("endGame call failed")
				return
			}
			if !res.Success {
				logger.Log.WithField("reason", res.Error).Info("endGame refused")
				return
			}

			ctx.Store.PushEvent("GAME_ENDED", "", res.TxHash)
			ctx.Rt.EndSession()
			logger.Log.Info("game ended")
		})
	})

	return handlers.Result{Msg: "ending game"}, nil
}
