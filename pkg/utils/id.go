package utils

import "github.com/google/uuid"

// GenerateID создает уникальный ID для интентов и записей лога.
func GenerateID() string {
	return uuid.NewString()
}
