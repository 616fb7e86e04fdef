package api

import (
	"context"
	"net/http"
)

// Invalidator resets the session after the backend rejects its token.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context)

// Invalidate calls f(ctx).
func (f InvalidatorFunc) Invalidate(ctx context.Context) {
	f(ctx)
}

// UnauthorizedInterceptor runs inv when resp is a 401 and reports whether it
// did. Every other status passes through untouched. The client calls it
// before returning any error, so by the time a caller sees a 401 the session
// is already gone.
func UnauthorizedInterceptor(ctx context.Context, resp *http.Response, inv Invalidator) bool {
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	if inv != nil {
		inv.Invalidate(ctx)
	}
	return true
}
