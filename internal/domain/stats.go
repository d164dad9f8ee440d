package domain

// GameStats — локальная статистика сессии. Бэкенд её не хранит,
// она живет и переживает перезапуск только на клиенте.
type GameStats struct {
	ShotsFired      int `json:"shots_fired"`
	ShotsHit        int `json:"shots_hit"`
	ShardsCollected int `json:"shards_collected"`
	RoomsCleared    int `json:"rooms_cleared"`
	PickupsTaken    int `json:"pickups_taken"`
}
