package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"accessaudit/domain/entity/user"
	"accessaudit/domain/repository"
)

// UserDirectory reads the identity collaborator's user collection.
type UserDirectory struct {
	col *mongo.Collection
}

func (d *UserDirectory) Get(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := d.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
