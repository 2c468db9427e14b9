// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/listify/internal/platform/ctxutil"
	"github.com/taibuivan/listify/internal/platform/middleware"
	"github.com/taibuivan/listify/internal/platform/respond"
	"github.com/taibuivan/listify/internal/platform/sec"
)

// Sweeper runs one orphan sweep.
type Sweeper interface {
	Sweep(context context.Context) (int, error)
}

// MaintenanceHandler exposes operator jobs to admins.
type MaintenanceHandler struct {
	sweeper Sweeper
}

// NewMaintenanceHandler constructs a [MaintenanceHandler].
func NewMaintenanceHandler(sweeper Sweeper) *MaintenanceHandler {
	return &MaintenanceHandler{sweeper: sweeper}
}

// Routes returns the /maintenance router (admin only).
func (handler *MaintenanceHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Post("/sweep", handler.sweep)
	return router
}

type sweepResult struct {
	Deleted   int   `json:"deleted"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

func (handler *MaintenanceHandler) sweep(writer http.ResponseWriter, request *http.Request) {
	started := time.Now()

	deleted, err := handler.sweeper.Sweep(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).Info("orphan_sweep_requested", slog.Int("deleted", deleted))
	respond.OK(writer, sweepResult{Deleted: deleted, ElapsedMS: time.Since(started).Milliseconds()})
}
