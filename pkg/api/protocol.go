package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> БЭКЕНД (action-вызовы) ---

// ActionRequest это корневой объект для всех state-changing вызовов.
// Каждый вызов адресует одну цель (дверь, врага, осколок); endGame цели
// не имеет.
type ActionRequest struct {
	// Action название действия: enterDoor, exitDoor, attackEntity,
	// collectShard, endGame.
	Action string `json:"action"`

	// Target id цели действия (door_id / entity_id / shard_id).
	Target string `json:"target,omitempty"`

	// IntentID клиентский id интента. Бэкенд его не интерпретирует,
	// но возвращает в ответе — удобно сопоставлять логи.
	IntentID string `json:"intentId,omitempty"`
}

// ActionResult это ответ бэкенда на action-вызов.
// Success=false — штатный отказ (не ошибка транспорта): состояние клиента
// не меняется, интент можно повторить той же клавишей.
type ActionResult struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	TxHash   string `json:"tx_hash,omitempty"`
	IntentID string `json:"intentId,omitempty"`
}

// --- БЭКЕНД -> КЛИЕНТ (read-фид) ---

// FeedMessage это корневой объект сообщений websocket-фида.
// Payload зависит от Type.
type FeedMessage struct {
	Type    string          `json:"type"` // GAME_DATA | POSITION | EVENT
	Payload json.RawMessage `json:"payload"`
}

// GameData — полный снимок авторитетного состояния для этого клиента.
// Приходит после каждого refetch и по инициативе индексера.
// Поля повторяют модели фида; структуры домена собираются на стороне
// клиента (gateway), чтобы api не зависел от internal.
type GameData struct {
	Player         json.RawMessage `json:"player,omitempty"`
	Session        json.RawMessage `json:"session,omitempty"`
	CurrentRoom    json.RawMessage `json:"current_room,omitempty"`
	Entities       json.RawMessage `json:"entities,omitempty"`
	ShardLocations json.RawMessage `json:"shard_locations,omitempty"`
}

// PositionUpdate — непрерывный поток позиции игрока от контроллера
// движения (внешний коллаборатор; ядро только читает).
type PositionUpdate struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation"`
	Aiming   bool    `json:"aiming"` // прицел на враге (raycast рендерера)
}

// GameEvent — событие бэкенда для HUD-фидбека (кольцо последних событий).
type GameEvent struct {
	Kind   string `json:"kind"` // ROOM_ENTERED, ROOM_CLEARED, ROOM_EXITED, ...
	RoomID string `json:"room_id,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// --- Payloads интентов (клавиатура/рендерер -> сессия) ---

// ShotPayload используется интентом SHOOT: рендерер сообщает,
// что выстрел визуально попал во врага.
type ShotPayload struct {
	Hit bool `json:"hit"`
}

// MusicCue — подсказка аудио-слою: какой трек ставить.
// Ядро не занимается микшированием, только расписанием.
type MusicCue struct {
	Track string `json:"track"`
}
