// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/listify/internal/platform/middleware"
	requestutil "github.com/taibuivan/listify/internal/platform/request"
	"github.com/taibuivan/listify/internal/platform/respond"
	"github.com/taibuivan/listify/pkg/date"
	"github.com/taibuivan/listify/pkg/pagination"
)

// # Handler Implementation

// Handler exposes the catalog over HTTP.
type Handler struct {
	catalog *Catalog
}

// NewHandler constructs a media [Handler].
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Routes returns the /media router.
//
//   - Discovery (Public): listing, search, tag browsing and lookups.
//   - Management (Authenticated): custom creation, provider imports, updates and deletes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listMedia)
	router.Get("/search", handler.searchMedia)
	router.Get("/by-tag/{slug}", handler.listByTag)
	router.Get("/{id}", handler.getMedia)
	router.Get("/{id}/tags", handler.listTags)

	// ## Catalog Management
	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Post("/{kind}", handler.createCustom)
		member.Post("/{kind}/import", handler.importExternal)
		member.Patch("/{id}", handler.updateMedia)
		member.Delete("/{id}", handler.deleteMedia)
		member.Post("/{id}/tags", handler.addTags)
		member.Delete("/{id}/tags", handler.removeTags)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Title          string          `json:"title"`
	Description    *string         `json:"description"`
	ReleaseDate    *date.Date      `json:"release_date"`
	CoverImageURL  *string         `json:"cover_image_url"`
	ExternalID     *string         `json:"external_id"`
	ExternalSource *string         `json:"external_source"`
	Details        json.RawMessage `json:"details"`
	Tags           []string        `json:"tags"`
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

type updateRequest struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	ReleaseDate   *date.Date      `json:"release_date"`
	CoverImageURL *string         `json:"cover_image_url"`
	Details       json.RawMessage `json:"details"`
	Tags          *[]string       `json:"tags"`
}

// # Discovery

func (handler *Handler) listMedia(writer http.ResponseWriter, request *http.Request) {
	kind, err := requestutil.OptionalKind(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	items, total, err := handler.catalog.List(request.Context(), kind, params.Offset(), params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params, total))
}

func (handler *Handler) searchMedia(writer http.ResponseWriter, request *http.Request) {
	kind, err := requestutil.OptionalKind(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	items, err := handler.catalog.Search(request.Context(), request.URL.Query().Get(FieldQuery), kind, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

func (handler *Handler) listByTag(writer http.ResponseWriter, request *http.Request) {
	kind, err := requestutil.OptionalKind(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	items, total, err := handler.catalog.ListByTag(request.Context(), requestutil.Param(request, "slug"), kind, params.Offset(), params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params, total))
}

func (handler *Handler) getMedia(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind, err := requestutil.OptionalKind(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	media, err := handler.catalog.Get(request.Context(), id, kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, media)
}

// # Management

func (handler *Handler) createCustom(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeCreate(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	media, err := handler.catalog.CreateCustom(request.Context(), input, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, media)
}

func (handler *Handler) importExternal(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeCreate(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	media, created, err := handler.catalog.CreateExternal(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, media)
		return
	}
	respond.OK(writer, media)
}

func (handler *Handler) updateMedia(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body updateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := UpdateInput{
		Title:         body.Title,
		Description:   body.Description,
		ReleaseDate:   body.ReleaseDate,
		CoverImageURL: body.CoverImageURL,
		Tags:          body.Tags,
	}

	// Detail payloads are shaped by the stored kind
	if len(body.Details) > 0 {
		current, err := handler.catalog.Get(request.Context(), id, nil)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		input.Details, err = DecodeDetails(current.Kind, body.Details)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	media, err := handler.catalog.Update(request.Context(), id, nil, input, &userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, media)
}

func (handler *Handler) deleteMedia(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.catalog.Delete(request.Context(), id, &userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Tagging

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.catalog.Tags(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

func (handler *Handler) addTags(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := managementTarget(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body tagsRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.catalog.AddTags(request.Context(), id, body.Tags, &userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

// removeTags reads the names from repeated ?name= parameters.
func (handler *Handler) removeTags(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := managementTarget(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.catalog.RemoveTags(request.Context(), id, request.URL.Query()["name"], &userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

// managementTarget resolves the caller and the media id in the path.
func managementTarget(request *http.Request) (string, int64, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", 0, err
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		return "", 0, err
	}
	return userID, id, nil
}

// decodeCreate reads a creation payload for the kind named in the path.
func decodeCreate(request *http.Request) (CreateInput, error) {
	kind, err := requestutil.KindParam(request, "kind")
	if err != nil {
		return CreateInput{}, err
	}

	var body createRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		return CreateInput{}, err
	}

	details, err := DecodeDetails(kind, body.Details)
	if err != nil {
		return CreateInput{}, err
	}

	return CreateInput{
		Kind:           kind,
		Title:          body.Title,
		Description:    body.Description,
		ReleaseDate:    body.ReleaseDate,
		CoverImageURL:  body.CoverImageURL,
		ExternalID:     body.ExternalID,
		ExternalSource: body.ExternalSource,
		Details:        details,
		Tags:           body.Tags,
	}, nil
}
