package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load читает таблицу зон из YAML-файла. Файл описывает таблицу целиком:
// частичных переопределений нет, либо встроенная таблица, либо своя.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zone table: %w", err)
	}

	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse zone table: %w", err)
	}
	if t.PickupRange == 0 {
		t.PickupRange = Default().PickupRange
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid zone table %s: %w", path, err)
	}
	return t, nil
}

// LoadOrDefault возвращает встроенную таблицу, если путь пуст.
func LoadOrDefault(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
