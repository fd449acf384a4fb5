package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/middleware"
	"go-shop-api/internal/model"
	"go-shop-api/internal/service"
	"go-shop-api/pkg/apierror"
)

type CartHandler struct {
	service *service.CartService
}

func NewCartHandler(service *service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apierror.BadRequest("user ID is required", "user-id"))
		return
	}

	cart, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", cart)
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apierror.BadRequest("user ID is required", "user-id"))
		return
	}

	var payload model.CartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := h.service.Merge(r.Context(), userID, payload.Items); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Cart updated", nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apierror.BadRequest("user ID is required", "user-id"))
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, chi.URLParam(r, "productID")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Item removed", nil)
}
