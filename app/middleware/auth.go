package appMiddleware

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const OwnerIDKey contextKey = "ownerID"

// Claims is the access token payload. UserID falls back to the subject claim.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (c *Claims) owner() (uuid.UUID, error) {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	return uuid.Parse(id)
}

func WithOwnerID(ctx context.Context, owner uuid.UUID) context.Context {
	return context.WithValue(ctx, OwnerIDKey, owner)
}

// GetOwnerIDFromContext returns the owner set by Authenticate.
func GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	owner, ok := ctx.Value(OwnerIDKey).(uuid.UUID)
	return owner, ok && owner != uuid.Nil
}
