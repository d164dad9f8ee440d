package handlers

import (
	"context"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/gateway"
	"blockrooms-client/internal/rules"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
	"encoding/json"
)

// Runtime описывает возможности цикла сессии, доступные хендлеру.
// Session неявно реализует этот интерфейс.
type Runtime interface {
	// Go запускает вызов бэкенда в отдельной горутине с контекстом сессии.
	Go(fn func(ctx context.Context))
	// Apply выполняет продолжение в цикле сессии (после ответа бэкенда).
	Apply(fn func())
	// Schedule откладывает задачу. Задача молча пропадает при смене эпохи
	// (завершение игры, сброс сессии).
	Schedule(d time.Duration, fn func())
	// Refetch планирует перечитку состояния с бэкенда.
	Refetch(after time.Duration)
	// Reconcile запускает сверочный поллер после выхода из комнаты.
	Reconcile(from domain.RoomID)
	// TryClaim занимает in-flight guard для ключа действия.
	// Повторный интент до Release игнорируется.
	TryClaim(key string) bool
	Release(key string)
	// EndSession глушит музыку, сбрасывает стор и поднимает эпоху:
	// все отложенные задачи прежней сессии пропадают.
	EndSession()
	// WipeStorage стирает клиентское хранилище.
	WipeStorage() error
}

// Timings — подмножество конфига, нужное хендлерам.
type Timings struct {
	RevealDelay       time.Duration
	RefetchAfterEnter time.Duration
	AttackRecheck     time.Duration
	AttackRefetch     time.Duration
	ClearedRetryDelay time.Duration
	AmmoPerPickup     int
}

// Context передает хендлеру состояние сессии.
// Snap и Gates сняты непосредственно перед вызовом: предикаты пересчитаны
// по позиции на момент нажатия, а не на момент входа в зону.
type Context struct {
	Rt      Runtime
	Store   *store.Store
	Table   *world.Table
	Backend gateway.Actions
	Cfg     Timings

	Snap  store.Snapshot
	Gates rules.Gates
}

// Result - возвращает результат выполнения интента.
// Хендлер НЕ пишет в журнал событий напрямую, он возвращает данные.
type Result struct {
	Msg  string        // Текст лога
	Kind string        // Тип события для журнала (пусто - без записи)
	Room domain.RoomID // Комната события
}

// HandlerFunc - это контракт для любого интента (ENTER, SHOOT, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
