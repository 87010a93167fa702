package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/session-service/internal/models"
	"github.com/pribylovaa/session-service/internal/storage"
)

// accountDoc — проекция документа users, нужная сервису сессий.
// Имена полей совпадают со схемой основного приложения.
type accountDoc struct {
	ID       any    `bson:"_id"`
	Username string `bson:"username"`
	Role     string `bson:"role"`
	IsActive bool   `bson:"isActive"`
}

// accountProjection не даёт вытянуть из БД лишнее (хэш пароля и т.п.).
var accountProjection = bson.D{
	{Key: "username", Value: 1},
	{Key: "role", Value: 1},
	{Key: "isActive", Value: 1},
}

// AccountByID находит аккаунт по идентификатору.
// id — hex ObjectID; строковые _id (например, из сидов) тоже поддерживаются.
func (m *Mongo) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage/mongo/AccountByID"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var key any = id
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		key = oid
	}

	var doc accountDoc
	err := m.users.FindOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		options.FindOne().SetProjection(accountProjection),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: find: %w", op, err)
	}

	return &models.Account{
		ID:       id,
		Username: doc.Username,
		Role:     models.Role(doc.Role),
		IsActive: doc.IsActive,
	}, nil
}
