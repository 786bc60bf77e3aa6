package services

import (
	"context"

	warung_errors "warung-pos/pkg/errors"
	"warung-pos/pkg/logger"

	"github.com/google/uuid"
)

// WithUserID stamps the authenticated user onto the context so downstream
// logging and services can pick it up.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, logger.UserIdKey, userID.String())
}

// UserIDFromContext extracts the authenticated user ID set by the auth
// middleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	raw, ok := ctx.Value(logger.UserIdKey).(string)
	if !ok || raw == "" {
		return uuid.Nil, warung_errors.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, warung_errors.ErrUnauthorized
	}
	return id, nil
}
