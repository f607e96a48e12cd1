package sde

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the reference dataset has no entry for an id or name.
var ErrNotFound = errors.New("sde: not found")

// Reader gives read access to the static reference dataset
type Reader interface {
	TypeByID(ctx context.Context, typeID int32) (*Type, error)
	GroupByID(ctx context.Context, groupID int32) (*Group, error)
	// TypeByName matches the english name case-insensitively.
	TypeByName(ctx context.Context, name string) (*Type, error)
}

// Writer persists entries learned from the remote API.
type Writer interface {
	UpsertType(ctx context.Context, t *Type) error
	UpsertGroup(ctx context.Context, g *Group) error
}

// Store is a reference dataset that can also be written to.
type Store interface {
	Reader
	Writer
}
