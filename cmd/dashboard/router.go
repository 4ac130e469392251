package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-inventory-cache/pkg/di"
	"github.com/goliatone/go-inventory-cache/querycache"
	"github.com/goliatone/go-inventory-cache/service"
)

// viewResponse is the JSON form of a cached query.
type viewResponse struct {
	Data      any    `json:"data"`
	State     string `json:"state"`
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
	Version   uint64 `json:"version"`
}

func fromView[T any](v querycache.View[T]) viewResponse {
	resp := viewResponse{
		State:     v.State.String(),
		IsLoading: v.IsLoading,
		Version:   v.Version,
	}
	if v.HasData {
		resp.Data = v.Data
	}
	if v.Err != nil {
		resp.Error = v.Err.Error()
	}
	return resp
}

// newRouter exposes the cached views read-only. Reads never block on the
// API: they return what the cache holds and refresh in the background.
func newRouter(container *di.Container) http.Handler {
	inv := container.Inventory()
	r := chi.NewRouter()

	r.Handle("/metrics", container.Metrics().Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			v := container.Dashboard().Metrics()
			resp := map[string]any{
				"summary":   v.Summary,
				"ready":     v.Ready,
				"isLoading": v.IsLoading,
			}
			if v.Err != nil {
				resp["error"] = v.Err.Error()
			}
			writeJSON(w, http.StatusOK, resp)
		})
		r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, fromView(inv.Products()))
		})
		r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			v := inv.Product(chi.URLParam(r, "id"))
			writeJSON(w, statusOf(v.Err), fromView(v))
		})
		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, fromView(inv.Categories()))
		})
		r.Get("/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
			v := inv.Category(chi.URLParam(r, "id"))
			writeJSON(w, statusOf(v.Err), fromView(v))
		})
		r.Post("/refetch", func(w http.ResponseWriter, r *http.Request) {
			inv.RefetchProducts()
			inv.RefetchCategories()
			w.WriteHeader(http.StatusAccepted)
		})
	})

	return r
}

func statusOf(err error) int {
	if errors.Is(err, service.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
