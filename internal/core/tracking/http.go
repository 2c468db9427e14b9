// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/listify/internal/platform/middleware"
	requestutil "github.com/taibuivan/listify/internal/platform/request"
	"github.com/taibuivan/listify/internal/platform/respond"
	"github.com/taibuivan/listify/pkg/pagination"
)

// Handler exposes the caller's library over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a tracking [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the /library router. Every endpoint acts on the caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listEntries)
	router.Post("/", handler.createEntry)
	router.Get("/favorites", handler.listFavorites)
	router.Get("/stats", handler.statistics)

	router.Get("/{mediaID}", handler.getEntry)
	router.Patch("/{mediaID}", handler.updateEntry)
	router.Delete("/{mediaID}", handler.deleteEntry)

	return router
}

// # Reads

func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter, params, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, total, err := handler.service.ListByUser(request.Context(), userID, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params, total))
}

func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind, err := requestutil.OptionalKind(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	entries, total, err := handler.service.Favorites(request.Context(), userID, kind, params.Offset(), params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params, total))
}

func (handler *Handler) statistics(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind, err := requestutil.OptionalKind(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.service.Statistics(request.Context(), userID, kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

func (handler *Handler) getEntry(writer http.ResponseWriter, request *http.Request) {
	userID, mediaID, err := entryTarget(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Get(request.Context(), userID, mediaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// # Writes

func (handler *Handler) createEntry(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Create(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

func (handler *Handler) updateEntry(writer http.ResponseWriter, request *http.Request) {
	userID, mediaID, err := entryTarget(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Update(request.Context(), userID, mediaID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) deleteEntry(writer http.ResponseWriter, request *http.Request) {
	userID, mediaID, err := entryTarget(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.service.Delete(request.Context(), userID, mediaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"deleted": deleted})
}

// # Helpers

// entryTarget resolves the caller and the media id in the path.
func entryTarget(request *http.Request) (string, int64, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", 0, err
	}

	mediaID, err := requestutil.Int64Param(request, "mediaID")
	if err != nil {
		return "", 0, err
	}
	return userID, mediaID, nil
}

// parseFilter reads ?status=&kind=&favorite=&sort= plus paging.
func parseFilter(request *http.Request) (Filter, pagination.Params, error) {
	query := request.URL.Query()
	params := pagination.FromRequest(request)

	kind, err := requestutil.OptionalKind(request)
	if err != nil {
		return Filter{}, params, err
	}

	favorite, err := requestutil.OptionalBool(request, "favorite")
	if err != nil {
		return Filter{}, params, err
	}

	filter := Filter{
		Kind:     kind,
		Favorite: favorite,
		Sort:     Sort(query.Get(FieldSort)),
		Offset:   params.Offset(),
		Limit:    params.Limit,
	}
	if raw := query.Get(FieldStatus); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}
	return filter, params, nil
}
