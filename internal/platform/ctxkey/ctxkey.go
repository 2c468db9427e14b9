// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys shared by middleware and [ctxutil].
// Values are only read and written through ctxutil.
package ctxkey

// key is unexported so no other package can construct a colliding key.
type key struct{ name string }

func (k *key) String() string { return "listify/" + k.name }

var (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID = &key{"request_id"}

	// KeyUser carries the verified [sec.AuthClaims] of the caller.
	KeyUser = &key{"auth_user"}

	// KeyLogger carries the request-scoped *slog.Logger.
	KeyLogger = &key{"logger"}
)
