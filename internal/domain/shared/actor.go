package shared

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// Actor identifies who performs an operation. It is attached to the request
// context by the auth middleware and read by services when writing audit rows.
type Actor struct {
	UserID    *uuid.UUID
	Email     string
	IPAddress string
	UserAgent string
}

// WithActor returns a copy of ctx carrying the actor
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, or the zero Actor (system)
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	if actor, ok := ctx.Value(actorKey{}).(Actor); ok {
		return actor
	}
	return Actor{}
}

// IsSystem reports whether no user is behind the operation
func (a Actor) IsSystem() bool {
	return a.UserID == nil
}
