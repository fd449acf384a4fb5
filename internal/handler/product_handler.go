package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/model"
	"go-shop-api/internal/service"
	"go-shop-api/pkg/apierror"
)

type ProductHandler struct {
	service       *service.CatalogService
	maxUploadSize int64
}

func NewProductHandler(service *service.CatalogService, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	fields, image, err := h.parseProductForm(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), fields, image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Product added successfully", product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	fields, image, err := h.parseProductForm(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Update(r.Context(), productID, fields, image)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	if err := h.service.Delete(r.Context(), productID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", product)
}

// parseProductForm buffers the multipart form fully in memory and extracts
// the scalar fields plus the optional image part. The image may legitimately
// be absent; create vs update decide whether that is an error.
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (model.ProductFields, *model.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if isPayloadTooLarge(err) {
			return model.ProductFields{}, nil, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "MAX_UPLOAD_SIZE", http.StatusRequestEntityTooLarge)
		}
		return model.ProductFields{}, nil, apierror.BadRequest("invalid multipart body", "")
	}

	fields := model.ProductFields{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
	}

	if fields.Name == "" {
		return model.ProductFields{}, nil, apierror.BadRequest("name is required", "name")
	}

	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			return model.ProductFields{}, nil, apierror.BadRequest("price must be a non-negative number", "price")
		}
		fields.Price = price
	}

	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil || quantity < 0 {
			return model.ProductFields{}, nil, apierror.BadRequest("quantity must be a non-negative integer", "quantity")
		}
		fields.Quantity = quantity
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return fields, nil, nil
	}
	if err != nil {
		return model.ProductFields{}, nil, apierror.BadRequest("invalid image part", "image")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isPayloadTooLarge(err) {
			return model.ProductFields{}, nil, apierror.New("PAYLOAD_TOO_LARGE", "request body exceeds MAX_UPLOAD_SIZE", "MAX_UPLOAD_SIZE", http.StatusRequestEntityTooLarge)
		}
		return model.ProductFields{}, nil, apierror.BadRequest("failed to read image", "image")
	}

	image := &model.ImageUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}

	return fields, image, nil
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}
