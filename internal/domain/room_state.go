package domain

// RoomPhase — стадия прохождения одной комнаты.
//
// В оригинальном клиенте это были рассыпанные булевы флаги
// (doorOpened, shardPanelEnabled, ...), которые позволяли нелегальные
// комбинации вроде exitPanelEnabled && !shardCollected. Здесь стадия —
// одно тегированное значение, а все панельные булевы ВЫЧИСЛЯЮТСЯ из него
// на чтение и никогда не переключаются вручную.
type RoomPhase uint8

const (
	// RoomLocked — дверь закрыта, вход не подтверждён бэкендом.
	RoomLocked RoomPhase = iota

	// RoomOpening — enterDoor подтверждён, дверь открыта,
	// враг ещё не показан (окно визуальной задержки).
	RoomOpening

	// RoomCombat — враг видим и, по фиду бэкенда, жив.
	// Единственная стадия, из которой интенты стрельбы уходят на бэкенд.
	RoomCombat

	// RoomShardAvailable — враг мёртв, осколок ещё не собран.
	RoomShardAvailable

	// RoomExitAvailable — осколок собран, выход разрешён
	// (после подтверждения cleared бэкендом).
	RoomExitAvailable

	// RoomExited — exitDoor подтверждён. Терминальная стадия сессии,
	// дверь остаётся открытой до конца сессии.
	RoomExited
)

var roomPhaseNames = map[RoomPhase]string{
	RoomLocked:         "LOCKED",
	RoomOpening:        "OPENING",
	RoomCombat:         "COMBAT",
	RoomShardAvailable: "SHARD_AVAILABLE",
	RoomExitAvailable:  "EXIT_AVAILABLE",
	RoomExited:         "EXITED",
}

func (p RoomPhase) String() string {
	if s, ok := roomPhaseNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// --- Производные булевы (только чтение) ---

// DoorOpened: дверь визуально открыта с момента подтверждённого входа
// и уже никогда не закрывается.
func (p RoomPhase) DoorOpened() bool { return p != RoomLocked }

// EntityVisible: куб врага показан.
func (p RoomPhase) EntityVisible() bool { return p == RoomCombat }

// ShardCollected: осколок этой комнаты собран.
func (p RoomPhase) ShardCollected() bool { return p >= RoomExitAvailable }

// ShootPanelEnabled: панель стрельбы активна.
func (p RoomPhase) ShootPanelEnabled() bool { return p == RoomCombat }

// ShardPanelEnabled: панель сбора осколка активна.
func (p RoomPhase) ShardPanelEnabled() bool { return p == RoomShardAvailable }

// ExitPanelEnabled: панель выхода активна.
func (p RoomPhase) ExitPanelEnabled() bool { return p == RoomExitAvailable }

// Entered: комната в окне «вошёл, но ещё не вышел».
// Пока хоть одна комната в этом окне, завершение сессии запрещено.
func (p RoomPhase) Entered() bool { return p >= RoomOpening && p < RoomExited }

// RoomStates — снимок стадий всех комнат (ключ — RoomID).
type RoomStates map[RoomID]RoomPhase

// NewRoomStates создает начальное состояние: все комнаты заперты.
func NewRoomStates() RoomStates {
	states := make(RoomStates, len(AllRooms))
	for _, id := range AllRooms {
		states[id] = RoomLocked
	}
	return states
}

// AnyEntered — есть ли комната в окне «вошёл, не вышел».
func (rs RoomStates) AnyEntered() bool {
	for _, p := range rs {
		if p.Entered() {
			return true
		}
	}
	return false
}

// Clone — глубокая копия (снимки для дебаг-эндпоинтов и тестов).
func (rs RoomStates) Clone() RoomStates {
	out := make(RoomStates, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}
