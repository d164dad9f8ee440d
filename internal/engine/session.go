package engine

import (
	"container/heap"
	"context"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine/handlers"
	"blockrooms-client/internal/engine/handlers/actions"
	"blockrooms-client/internal/gateway"
	"blockrooms-client/internal/rules"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/world"
	"blockrooms-client/pkg/api"
	"blockrooms-client/pkg/logger"
	"blockrooms-client/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Wiper стирает клиентское хранилище перед завершением игры.
type Wiper interface {
	Wipe() error
}

// Session — однопоточный цикл прогрессии. Все мутации фаз комнат,
// guard'ов и расписания происходят в горутине Run; вызовы бэкенда
// уходят в отдельные горутины и возвращаются продолжениями через Apply.
type Session struct {
	cfg     Config
	st      *store.Store
	table   *world.Table
	backend gateway.Actions
	disk    Wiper // может быть nil (эфемерный запуск)

	intentCh chan domain.IntentCommand
	applyCh  chan func()

	tasks    TaskQueue
	epoch    uint64
	inflight map[string]bool
	handlers map[domain.ActionType]handlers.HandlerFunc

	// changes оформляется в NewSession, до запуска цикла: обновления,
	// пришедшие между конструктором и Run, не теряются.
	changes chan store.Change

	music *Music
	// Cues — подсказки аудио-слою. Читатель может отсутствовать,
	// отправка неблокирующая.
	Cues chan api.MusicCue

	ctx context.Context
}

func NewSession(cfg Config, st *store.Store, table *world.Table, backend gateway.Actions, disk Wiper) *Session {
	s := &Session{
		cfg:      cfg,
		st:       st,
		table:    table,
		backend:  backend,
		disk:     disk,
		intentCh: make(chan domain.IntentCommand, 100),
		applyCh:  make(chan func(), 100),
		inflight: make(map[string]bool),
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		Cues:     make(chan api.MusicCue, 16),
	}
	s.changes = st.Subscribe("session")
	s.music = newMusic(s)
	s.registerHandlers()
	return s
}

func (s *Session) registerHandlers() {
	s.handlers[domain.ActionEnterDoor] = handlers.WithEmptyPayload(actions.HandleEnter)
	s.handlers[domain.ActionShoot] = handlers.WithPayload(actions.HandleShoot)
	s.handlers[domain.ActionCollectShard] = handlers.WithEmptyPayload(actions.HandleCollect)
	s.handlers[domain.ActionExitRoom] = handlers.WithEmptyPayload(actions.HandleExit)
	s.handlers[domain.ActionEndGame] = handlers.WithEmptyPayload(actions.HandleEndGame)
	s.handlers[domain.ActionPickup] = handlers.WithEmptyPayload(actions.HandlePickup)
	s.handlers[domain.ActionWeaponPistol] = handlers.WithEmptyPayload(actions.HandleWeaponPistol)
	s.handlers[domain.ActionWeaponShotgun] = handlers.WithEmptyPayload(actions.HandleWeaponShotgun)
}

// ProcessIntent принимает интент от внешнего мира (клавиатура, рендерер).
func (s *Session) ProcessIntent(cmd domain.IntentCommand) {
	if cmd.ID == "" {
		cmd.ID = utils.GenerateID()
	}
	select {
	case s.intentCh <- cmd:
	default:
		logger.Log.WithField("action", cmd.Action).Warn("intent dropped: queue full")
	}
}

// ProcessKey конвертирует нажатую клавишу в интент.
func (s *Session) ProcessKey(key string) {
	action := domain.ParseKey(key)
	if action == domain.ActionUnknown {
		return
	}
	s.ProcessIntent(domain.IntentCommand{Action: action})
}

// NotifyTrackEnded сообщает, что аудио-слой доиграл текущий трек.
func (s *Session) NotifyTrackEnded() {
	s.Apply(func() { s.music.trackEnded() })
}

// Start помечает игру начатой и взводит музыкальное расписание.
func (s *Session) Start() {
	s.Apply(func() {
		s.st.SetGameStarted(true)
		s.music.start()
	})
}

// Run крутит цикл сессии до отмены контекста.
func (s *Session) Run(ctx context.Context) {
	s.ctx = ctx
	heap.Init(&s.tasks)

	defer s.st.Unsubscribe("session")

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		// Перевзводим таймер на ближайшую отложенную задачу
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		wait := time.Hour
		if at, ok := s.tasks.NextRunAt(); ok {
			wait = time.Until(at)
			if wait < 0 {
				wait = 0
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case cmd := <-s.intentCh:
			s.dispatch(cmd)
		case fn := <-s.applyCh:
			fn()
		case <-timer.C:
			s.runDue()
		case c, ok := <-s.changes:
			if !ok {
				return
			}
			if c == store.ChangeGameData {
				s.reconcile()
			}
		}
	}
}

// dispatch выполняет один интент: снимок, предикаты, хендлер.
func (s *Session) dispatch(cmd domain.IntentCommand) {
	h, ok := s.handlers[cmd.Action]
	if !ok {
		logger.Log.WithField("action", cmd.Action).Warn("unknown intent")
		return
	}

	snap := s.st.Snapshot()
	gates := rules.Evaluate(s.table, snap, s.st.TakenPickups())

	hctx := handlers.Context{
		Rt:      s,
		Store:   s.st,
		Table:   s.table,
		Backend: s.backend,
		Cfg:     s.timings(),
		Snap:    snap,
		Gates:   gates,
	}

	res, err := h(hctx, cmd.Payload)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"action": cmd.Action, "intent": cmd.ID,
		}).Error("intent failed")
		return
	}
	if res.Kind != "" {
		s.st.PushEvent(res.Kind, res.Room, res.Msg)
	}
	if res.Msg != "" {
		logger.Log.WithFields(logrus.Fields{
			"action": cmd.Action, "intent": cmd.ID,
		}).Debug(res.Msg)
	}
}

// runDue выполняет все созревшие задачи. Задачи прежних эпох молча
// отбрасываются.
func (s *Session) runDue() {
	now := time.Now()
	for {
		item, ok := s.tasks.PopDue(now)
		if !ok {
			return
		}
		if item.Epoch == s.epoch {
			item.Fn()
		}
	}
}

// reconcile сверяет фазы комнат с авторитетными данными бэкенда.
// Вызывается на каждое обновление game data, все переходы идемпотентны.
func (s *Session) reconcile() {
	snap := s.st.Snapshot()
	room := s.table.ResolveRoomID(snap.CurrentRoom, snap.Player, s.table.ZoneAt(snap.Position))
	phase := snap.RoomStates[room]

	// Смерть сущности: бой окончен, осколок доступен.
	if phase == domain.RoomCombat {
		for _, e := range snap.Entities {
			if e.RoomID == room && e.Dead() {
				if s.st.SetRoomPhase(room, domain.RoomShardAvailable) {
					s.st.PushEvent("ENTITY_DOWN", room, e.EntityID)
					logger.Log.WithField("room", room).Info("entity down, shard available")
				}
				break
			}
		}
	}

	// Осколок засчитан индексером без нашего collectShard (реплей,
	// второй клиент): открываем выход.
	if phase == domain.RoomShardAvailable {
		for _, sh := range snap.Shards {
			if sh.RoomID == room && sh.Collected {
				s.st.SetRoomPhase(room, domain.RoomExitAvailable)
				break
			}
		}
	}

	// Конец игры по данным бэкенда глушит музыку.
	if snap.Phase == domain.PhaseGameOver || snap.Phase == domain.PhaseCompleted {
		s.music.stop()
	}
}

// --- handlers.Runtime ---

// Go запускает вызов бэкенда с таймаутом на фоне цикла.
func (s *Session) Go(fn func(ctx context.Context)) {
	parent := s.ctx
	if parent == nil {
		parent = context.Background()
	}
	go func() {
		c, cancel := context.WithTimeout(parent, s.cfg.ActionTimeout)
		defer cancel()
		fn(c)
	}()
}

// Apply передает продолжение в цикл сессии.
func (s *Session) Apply(fn func()) {
	select {
	case s.applyCh <- fn:
	default:
		// Канал полон только если цикл мертв, продолжение теряется.
		logger.Log.Warn("apply queue full, continuation dropped")
	}
}

// Schedule откладывает задачу текущей эпохи.
func (s *Session) Schedule(d time.Duration, fn func()) {
	heap.Push(&s.tasks, &TaskItem{
		Fn:    fn,
		RunAt: time.Now().Add(d),
		Epoch: s.epoch,
	})
}

// Refetch перечитывает состояние с бэкенда (сразу либо с задержкой).
func (s *Session) Refetch(after time.Duration) {
	do := func() {
		s.Go(func(c context.Context) {
			data, err := s.backend.FetchGameData(c)
			if err != nil {
				logger.Log.WithError(err).Warn("refetch failed")
				return
			}
			if err := gateway.ApplyGameData(s.st, data); err != nil {
				logger.Log.WithError(err).Warn("refetch not applied")
			}
		})
	}
	if after <= 0 {
		do()
		return
	}
	s.Schedule(after, do)
}

// TryClaim занимает in-flight guard.
func (s *Session) TryClaim(key string) bool {
	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

// Release освобождает guard.
func (s *Session) Release(key string) {
	delete(s.inflight, key)
}

// EndSession завершает сессию: эпоха растет, расписание и стор чистятся.
func (s *Session) EndSession() {
	s.epoch++
	s.tasks = TaskQueue{}
	heap.Init(&s.tasks)
	s.inflight = make(map[string]bool)
	s.music.stop()
	s.st.Reset()
}

// WipeStorage стирает клиентское хранилище, если оно подключено.
func (s *Session) WipeStorage() error {
	if s.disk == nil {
		return nil
	}
	return s.disk.Wipe()
}

func (s *Session) timings() handlers.Timings {
	return handlers.Timings{
		RevealDelay:       s.cfg.RevealDelay,
		RefetchAfterEnter: s.cfg.RefetchAfterEnter,
		AttackRecheck:     s.cfg.AttackRecheck,
		AttackRefetch:     s.cfg.AttackRefetch,
		ClearedRetryDelay: s.cfg.ClearedRetryDelay,
		AmmoPerPickup:     s.cfg.AmmoPerPickup,
	}
}
