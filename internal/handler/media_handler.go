package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/blob"
	"go-shop-api/internal/util"
	"go-shop-api/pkg/apierror"
)

// MediaHandler serves uploaded blobs back under their public URLs.
type MediaHandler struct {
	store blob.Store
}

func NewMediaHandler(store blob.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := blob.ValidateKey(key); err != nil {
		writeError(w, apierror.BadRequest("invalid media key", key))
		return
	}

	file, err := h.store.Open(key)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		writeError(w, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		if detected, detectErr := util.DetectMIMEFromFile(file); detectErr == nil {
			contentType = detected
		}
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeContent(w, r, key, info.ModTime(), file)
}
