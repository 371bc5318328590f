package media

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"inkwell/internal/dbmongo"
)

// Handler streams post images out of GridFS. Post rows carry the GridFS
// file id as their image path; templates point <img> tags at /media/{id}.
type Handler struct {
	storage *dbmongo.ImageStorage
}

func NewHandler(storage *dbmongo.ImageStorage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/media/{fileId}", h.serveFile).Methods("GET")
	r.HandleFunc("/health", h.health).Methods("GET")
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, image, err := h.storage.Download(r.Context(), fileID)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType(image.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", image.Size))

	if _, err := io.Copy(w, reader); err != nil {
		log.Printf("error streaming file %s: %v", fileID, err)
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
