package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/session-service/internal/models"
)

var (
	// ErrNotFound — аккаунт с таким идентификатором отсутствует.
	ErrNotFound = errors.New("not found")
)

// AccountStorage — доступ к аккаунтам на чтение.
// Сервис сессий никогда не изменяет аккаунты.
type AccountStorage interface {
	// AccountByID находит аккаунт по идентификатору.
	// Если записи нет (или id не разбирается хранилищем) — ErrNotFound.
	AccountByID(ctx context.Context, id string) (*models.Account, error)
}
