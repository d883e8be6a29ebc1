package session

import (
	"context"
	"errors"
	"log/slog"
)

// Validator turns a session cookie value into a validation result
type Validator struct {
	manager *Manager
	users   UserStore
	codec   Codec
	logger  *slog.Logger
}

// NewValidator wires the validator. A nil logger falls back to slog.Default.
func NewValidator(manager *Manager, users UserStore, codec Codec, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		manager: manager,
		users:   users,
		codec:   codec,
		logger:  logger.With("component", "session_validator"),
	}
}

// Codec returns the cookie codec used by the validator
func (v *Validator) Codec() Codec {
	return v.codec
}

// Validate runs the validation state machine for a raw cookie value. It never
// returns an error: every failure is folded into an unauthenticated result.
func (v *Validator) Validate(ctx context.Context, cookieValue string) Result {
	id, ok := v.codec.Decode(cookieValue)
	if !ok {
		return v.unauthenticated(ReasonNoCredential, MutationNone)
	}

	sess, err := v.manager.Lookup(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		v.logger.Debug("Session not found")
		return v.unauthenticated(ReasonInvalidCredential, MutationClear)
	}
	if err != nil {
		v.logger.Error("Session lookup failed",
			"reason", ReasonStoreUnavailable,
			"error", err,
		)
		return v.unauthenticated(ReasonStoreUnavailable, MutationNone)
	}

	if !v.manager.now().Before(sess.ExpiresAt) {
		if err := v.manager.Invalidate(ctx, sess.ID); err != nil {
			v.logger.Warn("Failed to delete expired session",
				"user_id", sess.UserID,
				"error", err,
			)
		}
		v.logger.Debug("Session expired", "user_id", sess.UserID)
		return v.unauthenticated(ReasonExpiredCredential, MutationClear)
	}

	// Resolve the owner before renewing so an orphaned session is never
	// extended.
	user, err := v.users.GetUser(ctx, sess.UserID)
	if errors.Is(err, ErrUserNotFound) {
		v.logger.Warn("Session owner not found", "user_id", sess.UserID)
		return v.unauthenticated(ReasonInvalidCredential, MutationClear)
	}
	if err != nil {
		v.logger.Error("User lookup failed",
			"reason", ReasonStoreUnavailable,
			"user_id", sess.UserID,
			"error", err,
		)
		return v.unauthenticated(ReasonStoreUnavailable, MutationNone)
	}

	mutation := CookieMutation{Kind: MutationNone}
	if sess.Fresh {
		if err := v.manager.Renew(ctx, sess); err != nil {
			v.logger.Error("Session renewal failed",
				"reason", ReasonStoreUnavailable,
				"user_id", sess.UserID,
				"error", err,
			)
			return v.unauthenticated(ReasonStoreUnavailable, MutationNone)
		}
		mutation = CookieMutation{Kind: MutationSet, Cookie: v.codec.SessionCookie(sess.ID)}
	}

	return Result{
		Outcome:  Outcome{User: user, Session: sess},
		Mutation: mutation,
		Reason:   ReasonValid,
	}
}

func (v *Validator) unauthenticated(reason Reason, kind MutationKind) Result {
	mutation := CookieMutation{Kind: kind}
	if kind == MutationClear {
		mutation.Cookie = v.codec.BlankCookie()
	}
	return Result{Mutation: mutation, Reason: reason}
}
