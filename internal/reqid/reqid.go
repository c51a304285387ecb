// Package reqid carries a per-request identifier through a context.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header a client may use to supply its own request ID.
const Header = "X-Request-Id"

type key struct{}

// NewContext returns a copy of parent carrying a new random request ID,
// along with the ID.
func NewContext(parent context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithID(parent, id), id
}

// WithID returns a copy of parent carrying id. An id that is not a valid UUID
// is replaced with a fresh one.
func WithID(parent context.Context, id string) context.Context {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	return context.WithValue(parent, key{}, id)
}

// FromContext extracts the request ID from ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}
