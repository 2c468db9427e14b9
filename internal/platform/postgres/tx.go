// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/listify/internal/platform/ctxutil"
)

// # Query Executors

// DBTX is the query surface shared by [*pgxpool.Pool] and [pgx.Tx].
// Repositories depend on it so the same code runs inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults
}

// Transactor runs a unit of work atomically.
//
// WithinTx joins the caller's transaction when the context already carries
// one; only the outermost call commits. AfterCommit defers side effects
// (file removal, cache invalidation) until the outermost commit succeeds and
// runs them immediately when no transaction is active.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	AfterCommit(ctx context.Context, hook func(ctx context.Context))
}

type txKey struct{}

// txState is the per-transaction bookkeeping stored in the context.
type txState struct {
	tx    pgx.Tx
	hooks []func(ctx context.Context)
}

// # Transaction Manager

// TxManager is the pgx-backed [Transactor].
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager constructs a [TxManager] over the shared pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithinTx executes fn inside a transaction.
func (manager *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {

	// Nested call: join the caller's unit of work
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	transaction, err := manager.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(ctx)

	state := &txState{tx: transaction}
	if err := fn(context.WithValue(ctx, txKey{}, state)); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit transaction: %w", err)
	}

	runHooks(ctx, state.hooks)
	return nil
}

// AfterCommit registers hook to run once the outermost transaction commits.
func (manager *TxManager) AfterCommit(ctx context.Context, hook func(ctx context.Context)) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.hooks = append(state.hooks, hook)
		return
	}
	runHooks(ctx, []func(context.Context){hook})
}

// Executor returns the transaction carried by ctx, or fallback when none is active.
func Executor(ctx context.Context, fallback DBTX) DBTX {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state.tx
	}
	return fallback
}

// runHooks executes post-commit hooks on a context that outlives request cancellation.
// A panicking hook is logged and never propagates into the caller.
func runHooks(ctx context.Context, hooks []func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	for _, hook := range hooks {
		func() {
			defer func() {
				if recovered := recover(); recovered != nil {
					ctxutil.GetLogger(ctx).ErrorContext(ctx, "after_commit_hook_panicked", slog.Any("error", recovered))
				}
			}()
			hook(detached)
		}()
	}
}
