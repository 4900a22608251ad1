package shared

import (
	"context"

	"github.com/shopstack/shopstack/internal/authz"
)

type actorContextKey struct{}

// ContextWithActor stores the authenticated actor in the context.
func ContextWithActor(ctx context.Context, actor authz.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the authenticated actor. ok is false when the
// request never passed authentication.
func ActorFromContext(ctx context.Context) (authz.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(authz.Actor)
	return actor, ok
}
