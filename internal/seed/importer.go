// Package seed imports the public DummyJSON users and todos into an
// empty store.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

// progressEvery is how many rows are written between progress lines.
const progressEvery = 50

// Result summarises one import.
type Result struct {
	// Skipped is set when the store already held data.
	Skipped bool
	Users   int
	Todos   int
	// Orphans counts todos dropped because their user does not exist.
	Orphans int
}

// Importer copies a Source into a Store.
type Importer struct {
	Store  store.Store
	Source Source
	Log    *zap.Logger
}

// Run imports every user and then every todo whose owner exists.  It is
// a no-op on a store that already holds users or todos, and it writes
// nothing unless both fetches succeed.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	log := im.Log
	if log == nil {
		log = zap.NewNop()
	}

	users, err := im.Store.CountUsers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count users: %w", err)
	}
	todos, err := im.Store.CountTodos(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count todos: %w", err)
	}
	if users > 0 || todos > 0 {
		log.Info("store already seeded, skipping", zap.Int("users", users), zap.Int("todos", todos))
		return Result{Skipped: true}, nil
	}

	log.Info("fetching users")
	remoteUsers, err := im.Source.FetchUsers(ctx)
	if err != nil {
		return Result{}, err
	}
	log.Info("fetched users", zap.Int("count", len(remoteUsers)))
	log.Info("fetching todos")
	remoteTodos, err := im.Source.FetchTodos(ctx)
	if err != nil {
		return Result{}, err
	}
	log.Info("fetched todos", zap.Int("count", len(remoteTodos)))

	var res Result
	for _, ru := range remoteUsers {
		u, err := ru.Model()
		if err != nil {
			return res, err
		}
		if err := im.Store.UpsertUser(ctx, u); err != nil {
			return res, fmt.Errorf("upsert user %d: %w", u.ID, err)
		}
		res.Users++
		if res.Users%progressEvery == 0 {
			log.Info("seeded users", zap.Int("done", res.Users), zap.Int("total", len(remoteUsers)))
		}
	}

	for _, rt := range remoteTodos {
		ok, err := im.userExists(ctx, rt.UserID)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Orphans++
			continue
		}
		if err := im.Store.UpsertTodo(ctx, rt.Model()); err != nil {
			return res, fmt.Errorf("upsert todo %d: %w", rt.ID, err)
		}
		res.Todos++
		if res.Todos%progressEvery == 0 {
			log.Info("seeded todos", zap.Int("done", res.Todos))
		}
	}

	log.Info("seed complete",
		zap.Int("users", res.Users),
		zap.Int("todos", res.Todos),
		zap.Int("orphans", res.Orphans),
	)
	return res, nil
}

func (im *Importer) userExists(ctx context.Context, id int) (bool, error) {
	_, err := im.Store.GetUser(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("look up user %d: %w", id, err)
	}
}
