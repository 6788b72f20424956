package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const requestDataKey contextKey = "request_data"

// RequestData is the authenticated identity placed into the request context by
// the auth middleware. Authorization itself happens upstream; handlers only use
// this to scope queries to the caller's tenant.
type RequestData struct {
	UserID uuid.UUID
	Role   string
	ShopID uuid.UUID // uuid.Nil unless the caller is shop staff or a shop owner
}

func SetRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, ok := ctx.Value(requestDataKey).(*RequestData)
	if !ok {
		return nil
	}
	return rd
}
