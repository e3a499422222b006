// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/animeapi/internal/platform/ctxutil"
	"github.com/taibuivan/animeapi/internal/platform/middleware"
	requestutil "github.com/taibuivan/animeapi/internal/platform/request"
	"github.com/taibuivan/animeapi/internal/platform/respond"
	"github.com/taibuivan/animeapi/internal/platform/sec"
	"github.com/taibuivan/animeapi/pkg/pagination"
	"github.com/taibuivan/animeapi/pkg/query"
)

// # HTTP Handler

// Handler exposes the catalog under /api/v1/anime.
type Handler struct {
	service      *Service
	guard        middleware.Guard
	defaultActor string
}

// NewHandler constructs the catalog [Handler]. A nil guard leaves writes open.
func NewHandler(service *Service, guard middleware.Guard, defaultActor string) *Handler {
	if guard == nil {
		guard = middleware.Passthrough
	}
	return &Handler{service: service, guard: guard, defaultActor: defaultActor}
}

// RegisterRoutes mounts the catalog endpoints on router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listAnime)
	router.Get("/{startIndex}/{pageSize}", handler.listWindow)
	router.Get("/{name}", handler.getAnime)

	// Editors
	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(handler.guard(sec.RoleEditor))

		editorRoute.Post("/", handler.createAnime)
		editorRoute.Post("/bulk", handler.createBulk)
		editorRoute.Put("/", handler.updateAnime)
		editorRoute.Put("/bulk", handler.updateBulk)
	})

	// Admin strict only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(handler.guard(sec.RoleAdmin))

		adminRoute.Delete("/bulk", handler.deleteBulk)
		adminRoute.Delete("/{name}", handler.deleteAnime)
	})
}

// # Reads

func (handler *Handler) listAnime(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Status: Status(request.URL.Query().Get("status")),
		Query:  request.URL.Query().Get("q"),
		Genres: query.Values(request.URL.Query(), "genre"),
	}

	items, total, err := handler.service.List(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listWindow(writer http.ResponseWriter, request *http.Request) {
	startIndex, err := requestutil.IntParam(request, "startIndex")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pageSize, err := requestutil.IntParam(request, "pageSize")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, total, err := handler.service.ListWindow(request.Context(), startIndex, pageSize)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	window := pagination.FromWindow(startIndex, pageSize)
	respond.Paginated(writer, items, pagination.NewMeta(window.Page, window.Limit, total))
}

func (handler *Handler) getAnime(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.Get(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

// # Writes

func (handler *Handler) createAnime(writer http.ResponseWriter, request *http.Request) {
	var input Anime
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	aggregate, err := handler.service.Create(request.Context(), &input, handler.actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if aggregate.Succeeded() {
		respond.Created(writer, aggregate)
		return
	}
	respond.Status(writer, http.StatusConflict, aggregate)
}

func (handler *Handler) createBulk(writer http.ResponseWriter, request *http.Request) {
	var input []*Anime
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	aggregate, err := handler.service.CreateBulk(request.Context(), input, handler.actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	writeAggregate(writer, aggregate, http.StatusConflict)
}

func (handler *Handler) updateAnime(writer http.ResponseWriter, request *http.Request) {
	var input Anime
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	aggregate, err := handler.service.Update(request.Context(), &input, handler.actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	writeAggregate(writer, aggregate, http.StatusConflict)
}

func (handler *Handler) updateBulk(writer http.ResponseWriter, request *http.Request) {
	var input []*Anime
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	aggregate, err := handler.service.UpdateBulk(request.Context(), input, handler.actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	writeAggregate(writer, aggregate, http.StatusConflict)
}

func (handler *Handler) deleteAnime(writer http.ResponseWriter, request *http.Request) {
	aggregate, err := handler.service.Delete(request.Context(), requestutil.Param(request, "name"), handler.actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, aggregate)
}

func (handler *Handler) deleteBulk(writer http.ResponseWriter, request *http.Request) {
	var names []string
	if err := requestutil.DecodeJSON(request, &names); err != nil {
		respond.Error(writer, request, err)
		return
	}

	aggregate, err := handler.service.DeleteBulk(request.Context(), names, handler.actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	writeAggregate(writer, aggregate, http.StatusNotFound)
}

// # Helpers

// writeAggregate answers 200 when at least one item went through and
// failureStatus otherwise. The body is the aggregate in both cases.
func writeAggregate(writer http.ResponseWriter, aggregate Aggregate, failureStatus int) {
	if aggregate.Succeeded() {
		respond.OK(writer, aggregate)
		return
	}
	respond.Status(writer, failureStatus, aggregate)
}

// actor is the name written to the audit columns for this request.
func (handler *Handler) actor(request *http.Request) string {
	return ctxutil.Actor(request.Context(), handler.defaultActor)
}
