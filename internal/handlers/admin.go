package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bytemc-uz/bytemc-backend/internal/middleware"
	"github.com/bytemc-uz/bytemc-backend/internal/models"
	"github.com/bytemc-uz/bytemc-backend/internal/services"
)

// maxUploadSize bounds multipart punishment/proof requests.
const maxUploadSize = 20 << 20

// CreatePunishment returns the handler for one punishment type. The form
// carries player, reason and an optional proof image.
func CreatePunishment(typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			// the panel may also submit urlencoded forms without an image
			if err := r.ParseForm(); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid form body")
				return
			}
		}

		player := strings.TrimSpace(r.FormValue("player"))
		reason := strings.TrimSpace(r.FormValue("reason"))
		if player == "" || reason == "" {
			writeError(w, http.StatusBadRequest, "player and reason required")
			return
		}

		imageURL := ""
		if header := formImage(r); header != nil {
			url, err := uploadsService.SaveImage(header)
			if err != nil {
				writeErrorDetails(w, http.StatusInternalServerError, "Failed to save image", err)
				return
			}
			imageURL = url
		}

		claims := middleware.IdentityFrom(r.Context())
		id, err := recordsService.Insert(r.Context(), typ, player, reason, claims.Username, imageURL)
		if err != nil {
			writeErrorDetails(w, http.StatusInternalServerError, "Failed to insert "+typ+" into DB", err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

// AttachProof stores or replaces the proof image for one record. A helper may
// only attach proof to mutes; moderators and admins may attach to any type.
func AttachProof(w http.ResponseWriter, r *http.Request) {
	typ := strings.ToLower(chi.URLParam(r, "type"))
	if !models.ValidType(typ) {
		writeError(w, http.StatusBadRequest, "Invalid type")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	header := formImage(r)
	if header == nil {
		writeError(w, http.StatusBadRequest, "Image file required")
		return
	}

	claims := middleware.IdentityFrom(r.Context())
	if claims.Role == models.RoleHelper && typ != models.TypeMute {
		writeError(w, http.StatusForbidden, "Helper foydalanuvchilar faqat mute uchun dalil qo'sha oladi.")
		return
	}

	imageURL, err := uploadsService.SaveImage(header)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to save proof", err)
		return
	}
	if err := recordsService.SaveProof(typ, id, imageURL, claims.Username); err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to save proof", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"ok": true, "image_url": imageURL})
}

// DeleteEntry removes a file-mode entry. Refused while the LiteBans backend
// is active: those rows belong to the plugin.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	deleted, err := recordsService.Delete(id)
	if err != nil {
		if errors.Is(err, services.ErrRelationalDelete) {
			writeError(w, http.StatusNotImplemented, "Deletion from LiteBans DB is disabled from panel. Use in-game commands.")
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to delete entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func formImage(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if headers := r.MultipartForm.File["image"]; len(headers) > 0 {
		return headers[0]
	}
	return nil
}
