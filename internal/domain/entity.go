package domain

// Модели read-фида бэкенда. Клиент их только читает; все мутации идут
// через action-вызовы (enterDoor, attackEntity, ...), которые бэкенд
// подтверждает асинхронно.

// Entity — враг, закреплённый за одной комнатой.
type Entity struct {
	EntityID string `json:"entity_id"`
	RoomID   RoomID `json:"room_id"`
	IsAlive  bool   `json:"is_alive"`
	Health   int    `json:"health"`
}

// Dead — истинная «смерть» с точки зрения ядра.
// Бэкенд может прислать is_alive=true при health<=0 на границе индексации,
// поэтому проверяются оба поля.
func (e Entity) Dead() bool {
	return !e.IsAlive || e.Health <= 0
}

// ShardLocation — осколок, закреплённый за комнатой.
type ShardLocation struct {
	ShardID   string `json:"shard_id"`
	RoomID    RoomID `json:"room_id"`
	Collected bool   `json:"collected"`
}

// RoomInfo — авторитетное состояние комнаты с бэкенда.
type RoomInfo struct {
	RoomID  RoomID `json:"room_id"`
	Cleared bool   `json:"cleared"`
}

// Player — авторитетное состояние игрока с бэкенда.
type Player struct {
	Health       int    `json:"health"`
	MaxHealth    int    `json:"max_health"`
	Shards       int    `json:"shards"`
	RoomsCleared int    `json:"rooms_cleared"`
	CurrentRoom  RoomID `json:"current_room"`
	IsAlive      bool   `json:"is_alive"`
	GameActive   bool   `json:"game_active"`
	HasKey       bool   `json:"has_key"`
}

// GameSession — состояние сессии с бэкенда.
type GameSession struct {
	SessionID       string `json:"session_id"`
	SessionComplete bool   `json:"session_complete"`
	VictoryAchieved bool   `json:"victory_achieved"`
}
