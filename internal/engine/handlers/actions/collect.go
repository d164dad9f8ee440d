package actions

import (
	"context"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine/handlers"
	"blockrooms-client/pkg/logger"

	"github.com/sirupsen/logrus"
)

// shardTargetIn подбирает цель для collectShard: несобранный осколок
// комнаты, а если индексер их не прислал - сам id комнаты.
func shardTargetIn(ctx handlers.Context, room domain.RoomID) string {
	for _, sh := range ctx.Snap.Shards {
		if sh.RoomID == room && !sh.Collected {
			return sh.ShardID
		}
	}
	return string(room)
}

// HandleCollect обрабатывает сбор осколка после смерти сущности.
func HandleCollect(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Gates.CanCollect {
		logger.Log.WithField("room", ctx.Gates.Room).Debug("collect ignored: gate closed")
		return handlers.EmptyResult(), nil
	}

	room := ctx.Gates.Room
	target := shardTargetIn(ctx, room)

	guard := "collect:" + string(room)
	if !ctx.Rt.TryClaim(guard) {
		return handlers.EmptyResult(), nil
	}

	ctx.Rt.Go(func(c context.Context) {
		res, err := ctx.Backend.CollectShard(c, target)
		ctx.Rt.Apply(func() {
			defer ctx.Rt.Release(guard)

			if err != nil {
				logger.Log.WithError(err).WithField("room", room).Error("collectShard call failed")
				return
			}
			if !res.Success {
				logger.Log.WithFields(logrus.Fields{
					"room": room, "reason": res.Error,
				}).Info("collectShard refused")
				return
			}

			if ctx.Store.RoomPhase(room) == domain.RoomShardAvailable {
				ctx.Store.SetRoomPhase(room, domain.RoomExitAvailable)
			}
			ctx.Store.MutateStats(func(st *domain.GameStats) { st.ShardsCollected++ })
			ctx.Store.PushEvent("SHARD_COLLECTED", room, target)
			ctx.Rt.Refetch(0)

			logger.Log.WithFields(logrus.Fields{
				"room": room, "shard": target, "tx": res.TxHash,
			}).Info("shard collected")
		})
	})

	return handlers.Result{Msg: "collecting shard", Room: room}, nil
}
