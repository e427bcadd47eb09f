package memory

import (
	"context"

	"accessaudit/domain/entity/user"
	"accessaudit/domain/repository"
)

type UserDirectory struct {
	store *Store
}

func (d *UserDirectory) Get(ctx context.Context, id string) (*user.User, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	u, ok := d.store.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
