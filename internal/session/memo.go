package session

import (
	"context"
	"sync"
	"sync/atomic"
)

type scopeKey struct{}

// scope is the per-request result slot. The first caller computes the
// result; every other caller in the same request waits on once and shares it.
type scope struct {
	once   sync.Once
	done   atomic.Bool
	result Result
}

// WithScope attaches a fresh validation scope to ctx. It must be called once
// per inbound request and the returned context must not outlive the request.
func WithScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, &scope{})
}

func scopeFrom(ctx context.Context) (*scope, bool) {
	sc, ok := ctx.Value(scopeKey{}).(*scope)
	return sc, ok
}

// Cached returns the result already computed in ctx's scope, if any
func Cached(ctx context.Context) (Result, bool) {
	sc, ok := scopeFrom(ctx)
	if !ok || !sc.done.Load() {
		return Result{}, false
	}
	return sc.result, true
}

// ValidateRequest is the entry point for request handling code. It reads the
// session cookie from jar, validates it at most once per request scope,
// applies the resulting cookie mutation to jar exactly once and returns the
// same outcome to every caller in the scope.
//
// Without a scope in ctx each call validates independently.
func (v *Validator) ValidateRequest(ctx context.Context, jar CookieJar) Outcome {
	run := func() Result {
		value, _ := jar.Cookie(v.codec.CookieName())
		res := v.Validate(ctx, value)
		applyMutation(jar, res.Mutation)
		return res
	}

	sc, ok := scopeFrom(ctx)
	if !ok {
		return run().Outcome
	}
	sc.once.Do(func() {
		sc.result = run()
		sc.done.Store(true)
	})
	return sc.result.Outcome
}

func applyMutation(jar CookieJar, m CookieMutation) {
	if m.Kind == MutationNone || m.Cookie == nil {
		return
	}
	jar.SetCookie(m.Cookie)
}
