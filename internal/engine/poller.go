package engine

import (
	"context"
	"errors"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/gateway"
	"blockrooms-client/pkg/logger"

	"github.com/sethvargo/go-retry"
)

var (
	errStillInSameRoom = errors.New("backend still reports the same room")
	errSessionEnded    = errors.New("session ended while polling")
)

// Reconcile запускает сверочный поллер после выхода из комнаты:
// индексер обновляет current_room с задержкой, и клиент какое-то время
// дочитывает состояние сам, не дожидаясь фида. Эпоха фиксируется на
// старте: поллер, переживший завершение сессии, ничего не трогает.
func (s *Session) Reconcile(from domain.RoomID) {
	parent := s.ctx
	if parent == nil {
		parent = context.Background()
	}
	go s.pollAfterExit(parent, from, s.epoch)
}

func (s *Session) pollAfterExit(ctx context.Context, from domain.RoomID, epoch uint64) {
	// Первая проверка через полный интервал, не мгновенно.
	t := time.NewTimer(s.cfg.PollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}

	backoff := retry.WithMaxRetries(uint64(s.cfg.PollMaxAttempts-1), retry.NewConstant(s.cfg.PollInterval))
	err := retry.Do(ctx, backoff, func(c context.Context) error {
		cc, cancel := context.WithTimeout(c, s.cfg.ActionTimeout)
		defer cancel()

		data, err := s.backend.FetchGameData(cc)
		if err != nil {
			return retry.RetryableError(err)
		}

		// Применение идет через цикл сессии: проверка эпохи и мутация
		// стора сериализованы с EndSession, сброшенную сессию поллер
		// репопулировать не может.
		res := make(chan error, 1)
		s.Apply(func() {
			if s.epoch != epoch {
				res <- errSessionEnded
				return
			}
			if err := gateway.ApplyGameData(s.st, data); err != nil {
				res <- retry.RetryableError(err)
				return
			}
			snap := s.st.Snapshot()
			room := s.table.ResolveRoomID(snap.CurrentRoom, snap.Player, s.table.ZoneAt(snap.Position))
			if room != from {
				logger.Log.WithField("room", room).Info("backend advanced to next room")
				res <- nil
				return
			}
			res <- retry.RetryableError(errStillInSameRoom)
		})

		select {
		case err := <-res:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil && !errors.Is(err, errSessionEnded) && ctx.Err() == nil {
		// Молчаливое истощение: состояние доедет по фиду.
		logger.Log.WithField("room", from).Debug("reconcile poller exhausted")
	}
}
