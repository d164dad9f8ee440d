package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (r ActionRequest) Validate() error {
	if r.Action == "" {
		return errors.New("action is required")
	}
	// endGame — единственный вызов без цели
	if r.Target == "" && r.Action != "endGame" {
		return errors.New("target is required for " + r.Action)
	}
	return nil
}
