// Package product contains the HTTP handlers for the product collection
// mounted under /api/productos.
//
// Handlers are factories: each receives its dependencies once at route
// registration and returns the http.HandlerFunc the router calls on every
// request.
//
//	router.HandleFunc("GET /api/productos", product.GetList(products))
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/records-api/internal/records"
	"github.com/aanand-mishra/records-api/internal/store"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Store is the subset of the product manager the handlers need.
type Store interface {
	List(ctx context.Context) ([]types.Product, error)
	GetByID(ctx context.Context, id int) (types.Product, bool, error)
	Add(ctx context.Context, p types.Product) (types.Product, error)
	Update(ctx context.Context, id int, patch store.Patch[types.Product]) (types.Product, error)
	Delete(ctx context.Context, id int) error
}

var errInvalidID = errors.New("id must be a number")

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/productos[?limit=n]
//
// Without limit every product is returned. With limit, only products whose
// id is <= limit: the parameter caps the id value, not the result count.
//
//	200 { "success": true, "data": [ ... ] }
//	400 { "success": false, ... }  non-numeric limit or any store failure
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(products Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing products")

		list, err := products.List(r.Context())
		if err != nil {
			slog.Error("error listing products", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest,
					response.GeneralError(errors.New("limit must be a number")))
				return
			}
			list = records.FilterByMaxID(list, limit)
		}

		response.WriteJSON(w, http.StatusOK, response.OK(list))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/productos/{pid}
//
//	200 { "success": true, "data": { "id": 1, ... } }
//	400 { "success": false, ... }  pid not numeric, product missing, store failure
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(products Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid := r.PathValue("pid")
		slog.Info("getting a product", slog.String("pid", pid))

		id, err := strconv.Atoi(pid)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errInvalidID))
			return
		}

		p, found, err := products.GetByID(r.Context(), id)
		if err != nil {
			slog.Error("error getting product",
				slog.String("pid", pid),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if !found {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(fmt.Errorf("product with id %d was not found", id)))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(p))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/productos
//
// Request body: every product field except id.
//
//	201 { "success": true, "data": { "id": 1, ... } }
//	400 empty body, malformed JSON, missing field
//	409 duplicate code
//
// ─────────────────────────────────────────────────────────────────────────────
func New(products Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a product")

		var p types.Product
		if !decode(w, r, &p) {
			return
		}

		stored, err := products.Add(r.Context(), p)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("product created", slog.Int("id", stored.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK(stored))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/productos/{pid}
// Only the fields present in the body are changed.
//
//	200 the updated product
//	400 invalid pid or body, 404 unknown pid, 409 code taken
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(products Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid := r.PathValue("pid")
		slog.Info("updating a product", slog.String("pid", pid))

		id, err := strconv.Atoi(pid)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errInvalidID))
			return
		}

		var patch types.ProductPatch
		if !decode(w, r, &patch) {
			return
		}

		updated, err := products.Update(r.Context(), id, patch)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("product updated", slog.Int("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// Delete handles DELETE /api/productos/{pid}. Deleting an unknown id
// succeeds.
func Delete(products Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid := r.PathValue("pid")
		slog.Info("deleting a product", slog.String("pid", pid))

		id, err := strconv.Atoi(pid)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errInvalidID))
			return
		}

		if err := products.Delete(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(map[string]int{"id": id}))
	}
}

// decode reads the JSON body into v, writing a 400 and returning false on
// failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}
