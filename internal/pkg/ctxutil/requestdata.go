package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData is the authenticated caller attached by the auth middleware.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the caller's id, or uuid.Nil when the request is anonymous.
func UserID(ctx context.Context) uuid.UUID {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}
