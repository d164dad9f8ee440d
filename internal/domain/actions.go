package domain

import (
	"encoding/json"
	"strings"
)

// ActionType - Внутренний числовой идентификатор интента игрока
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionEnterDoor
	ActionShoot
	ActionCollectShard
	ActionExitRoom
	ActionEndGame
	ActionPickup
	ActionWeaponPistol
	ActionWeaponShotgun
)

// Маппинг для конвертации JSON/клавиш -> Domain
var actionStringToCmd = map[string]ActionType{
	"ENTER_DOOR":    ActionEnterDoor,
	"SHOOT":         ActionShoot,
	"COLLECT_SHARD": ActionCollectShard,
	"EXIT_ROOM":     ActionExitRoom,
	"END_GAME":      ActionEndGame,
	"PICKUP":        ActionPickup,
	"WEAPON_1":      ActionWeaponPistol,
	"WEAPON_2":      ActionWeaponShotgun,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionEnterDoor:     "ENTER_DOOR",
	ActionShoot:         "SHOOT",
	ActionCollectShard:  "COLLECT_SHARD",
	ActionExitRoom:      "EXIT_ROOM",
	ActionEndGame:       "END_GAME",
	ActionPickup:        "PICKUP",
	ActionWeaponPistol:  "WEAPON_1",
	ActionWeaponShotgun: "WEAPON_2",
}

// Раскладка клавиатуры: интенты привязаны к клавишам как в оригинальном
// клиенте (E/X/Q/B/1/2/T). Стрельба приходит от рендерера отдельным
// событием, но для headless-драйвера оставлена клавиша f.
var keyToCmd = map[string]ActionType{
	"e": ActionEnterDoor,
	"x": ActionCollectShard,
	"q": ActionExitRoom,
	"b": ActionEndGame,
	"t": ActionPickup,
	"1": ActionWeaponPistol,
	"2": ActionWeaponShotgun,
	"f": ActionShoot,
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// ParseKey конвертирует нажатую клавишу в ActionType
func ParseKey(key string) ActionType {
	if val, ok := keyToCmd[strings.ToLower(key)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// IntentCommand — интент, поданный в сессию (с клавиатуры или от рендерера).
type IntentCommand struct {
	Action  ActionType
	ID      string          // уникальный id интента (для логов)
	Payload json.RawMessage // опциональные данные (например, факт попадания)
}
