package gateway

import (
	"context"
	"encoding/json"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/store"
	"blockrooms-client/pkg/api"
	"blockrooms-client/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"
)

// Настройки WebSocket
const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// Feed — read-only websocket-подписка на индексер: снимки состояния,
// позиция игрока, события. Интенты по фиду не ходят, только по HTTP.
type Feed struct {
	url   string
	store *store.Store

	// OnEvent дергается для EVENT-сообщений после записи в журнал.
	OnEvent func(api.GameEvent)
}

func NewFeed(url string, st *store.Store) *Feed {
	return &Feed{url: url, store: st}
}

// Run держит подписку до отмены контекста. Разрыв соединения не фатален:
// переподключение с фибоначчиевым бэкоффом, состояние доедет со
// следующим снимком.
func (f *Feed) Run(ctx context.Context) error {
	backoff := retry.WithCappedDuration(30*time.Second, retry.NewFibonacci(time.Second))

	for {
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
			if err != nil {
				logger.Log.WithError(err).Warn("feed dial failed, retrying")
				return retry.RetryableError(err)
			}
			logger.Log.WithField("url", f.url).Info("feed connected")
			f.readPump(ctx, conn)
			return nil
		})
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Log.Info("feed disconnected, reconnecting")
	}
}

// readPump читает сообщения фида до разрыва либо отмены контекста.
func (f *Feed) readPump(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close feed connection")
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// Пинги и закрытие по контексту живут в отдельной горутине,
	// читающая сторона занята только ReadJSON.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					logger.Log.WithError(err).Warn("failed to set ping write deadline")
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					logger.Log.WithError(err).Debug("ping failed")
					return
				}
			case <-ctx.Done():
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				if err := conn.Close(); err != nil {
					logger.Log.WithError(err).Debug("close on shutdown failed")
				}
				return
			case <-done:
				return
			}
		}
	}()

	for {
		var msg api.FeedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).Error("feed read failed")
			}
			return
		}
		f.dispatch(msg)
	}
}

func (f *Feed) dispatch(msg api.FeedMessage) {
	switch msg.Type {
	case "GAME_DATA":
		var data api.GameData
		if err := json.Unmarshal(msg.Payload, &data); err != nil {
			logger.Log.WithError(err).Warn("skip malformed game data message")
			return
		}
		if err := ApplyGameData(f.store, &data); err != nil {
			logger.Log.WithError(err).Warn("game data not applied")
		}

	case "POSITION":
		var pos api.PositionUpdate
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			logger.Log.WithError(err).Warn("skip malformed position message")
			return
		}
		f.store.UpdatePosition(domain.Position{X: pos.X, Y: pos.Y, Z: pos.Z})
		f.store.SetAiming(pos.Aiming)

	case "EVENT":
		var ev api.GameEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			logger.Log.WithError(err).Warn("skip malformed event message")
			return
		}
		f.store.PushEvent(ev.Kind, domain.RoomID(ev.RoomID), ev.Detail)
		if f.OnEvent != nil {
			f.OnEvent(ev)
		}

	default:
		logger.Log.WithField("type", msg.Type).Debug("unknown feed message type")
	}
}
