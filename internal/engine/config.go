package engine

import "time"

// Config хранит тайминги прогрессии. Значения согласованы с анимациями
// рендерера (открытие двери, проявление сущности), менять без нужды
// не стоит.
type Config struct {
	// Вход в комнату
	RevealDelay       time.Duration // пауза между открытием двери и проявлением сущности
	RefetchAfterEnter time.Duration // перечитка состояния после входа

	// Бой
	AttackRecheck time.Duration // пауза перед проверкой смерти сущности
	AttackRefetch time.Duration // перечитка состояния после попадания

	// Выход из комнаты
	ClearedRetryDelay time.Duration // повторная проверка флага cleared
	PollInterval      time.Duration // шаг сверочного поллера
	PollMaxAttempts   int           // попыток поллера, включая первую

	// Подбор
	AmmoPerPickup int // патронов за точку подбора

	// Музыка
	MusicInitialDelay time.Duration // тишина после старта сессии
	MusicGap          time.Duration // пауза между короткими треками
	MusicLongAfter    int           // коротких проигрышей до длинного трека

	ActionTimeout time.Duration // таймаут одного HTTP-вызова
}

// NewConfig создает конфиг по умолчанию.
func NewConfig() Config {
	return Config{
		RevealDelay:       1000 * time.Millisecond,
		RefetchAfterEnter: 1200 * time.Millisecond,
		AttackRecheck:     1000 * time.Millisecond,
		AttackRefetch:     600 * time.Millisecond,
		ClearedRetryDelay: 700 * time.Millisecond,
		PollInterval:      500 * time.Millisecond,
		PollMaxAttempts:   6,
		AmmoPerPickup:     10,
		MusicInitialDelay: 10 * time.Second,
		MusicGap:          30 * time.Second,
		MusicLongAfter:    3,
		ActionTimeout:     15 * time.Second,
	}
}
