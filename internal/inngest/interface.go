package inngest

import (
	"context"
	"net/http"
)

type InngestClient interface {
	// Serve returns the handler Inngest calls to run registered functions.
	Serve() http.Handler
	SendEvent(ctx context.Context, name string, data map[string]any) error
}
