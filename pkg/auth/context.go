package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const operatorIDKey contextKey = "operator_id"

// ErrOperatorIDNotFound is returned when no OperatorID exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrOperatorIDNotFound = errors.New("operator_id not found in context")

// OperatorIDFromCtx extracts the authenticated warehouse operator ID from the request context.
// Returns uuid.Nil and ErrOperatorIDNotFound if no OperatorID is set (unauthenticated request).
func OperatorIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	operatorID, ok := ctx.Value(operatorIDKey).(uuid.UUID)
	if !ok || operatorID == uuid.Nil {
		return uuid.Nil, ErrOperatorIDNotFound
	}
	return operatorID, nil
}

// WithOperatorID returns a new context with the given OperatorID attached.
// Used by authentication middleware after validating the session.
func WithOperatorID(ctx context.Context, operatorID uuid.UUID) context.Context {
	return context.WithValue(ctx, operatorIDKey, operatorID)
}
