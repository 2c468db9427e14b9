// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package txtest provides an in-memory [postgres.Transactor] for service tests.
//
// It mirrors the nesting and after-commit semantics of [postgres.TxManager]
// without a database: hooks registered in a failed unit of work are dropped.
package txtest

import (
	"context"
	"sync"
)

type scopeKey struct{}

type scope struct {
	hooks []func(ctx context.Context)
}

// Transactor counts units of work and their outcomes.
type Transactor struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

// WithinTx runs fn, joining an outer scope when one is active.
func (transactor *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(scopeKey{}).(*scope); ok {
		return fn(ctx)
	}

	current := &scope{}
	if err := fn(context.WithValue(ctx, scopeKey{}, current)); err != nil {
		transactor.mu.Lock()
		transactor.Rollbacks++
		transactor.mu.Unlock()
		return err
	}

	transactor.mu.Lock()
	transactor.Commits++
	transactor.mu.Unlock()

	for _, hook := range current.hooks {
		hook(context.WithoutCancel(ctx))
	}
	return nil
}

// AfterCommit queues hook on the active scope or runs it immediately.
func (transactor *Transactor) AfterCommit(ctx context.Context, hook func(ctx context.Context)) {
	if current, ok := ctx.Value(scopeKey{}).(*scope); ok {
		current.hooks = append(current.hooks, hook)
		return
	}
	hook(ctx)
}

// InTx reports whether ctx is inside a unit of work.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(scopeKey{}).(*scope)
	return ok
}
