package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blockrooms-client/internal/store"
	"blockrooms-client/pkg/logger"

	_ "modernc.org/sqlite"
)

// Store — клиентское хранилище на sqlite: сохраненный срез сессии
// плюс небольшое kv для служебных значений (install id и т.п.).
// Завершение игры стирает хранилище целиком, см. Wipe.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	data     TEXT NOT NULL,
	saved_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Open открывает (и при необходимости создает) файл хранилища.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	// Один писатель, один файл. Пул соединений тут только мешает.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.Log.WithError(cerr).Warn("failed to close storage after migration error")
		}
		return nil, fmt.Errorf("migrate storage: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot перезаписывает единственный сохраненный срез.
func (s *Store) SaveSnapshot(p store.Persisted) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshot (id, data, saved_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot читает сохраненный срез. Второй результат ложен,
// если среза нет (свежая установка либо после Wipe).
func (s *Store) LoadSnapshot() (store.Persisted, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT data FROM snapshot WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Persisted{}, false, nil
	}
	if err != nil {
		return store.Persisted{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var p store.Persisted
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// Битый срез не должен блокировать запуск.
		logger.Log.WithError(err).Warn("stored snapshot is corrupt, starting fresh")
		return store.Persisted{}, false, nil
	}
	return p, true, nil
}

// PutKV сохраняет служебное значение.
func (s *Store) PutKV(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetKV читает служебное значение; пустая строка, если ключа нет.
func (s *Store) GetKV(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// Wipe стирает все клиентское хранилище. Вызывается перед завершением
// игры: следующий запуск начинается с чистого листа.
func (s *Store) Wipe() error {
	for _, q := range []string{
		`DELETE FROM snapshot`,
		`DELETE FROM kv`,
		`VACUUM`,
	} {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("wipe storage: %w", err)
		}
	}
	logger.Log.Info("client storage wiped")
	return nil
}
