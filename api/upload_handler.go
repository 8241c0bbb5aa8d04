package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/services"
)

// maxUploadBatch bounds one multipart request: a handful of images plus
// form overhead.
const maxUploadBatch = 32 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	images    services.ImageStore
}

func newUploadHandler(images services.ImageStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		images:    images,
	}
}

// UploadResult is the per-file outcome of a batch upload. Results keep the
// order files were sent in, so appending the URLs preserves the user's
// image ordering.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// uploadImages stores a batch of images under the caller's prefix. Files
// are processed one at a time in form order; a file that fails validation
// or upload yields one error entry and the rest of the batch continues.
func (h uploadHandler) uploadImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBatch)
		if err := r.ParseMultipartForm(maxUploadBatch); err != nil {
			h.responder.WriteError(w, errs.Malformed("multipart form"))
			return
		}

		files := r.MultipartForm.File["images"]
		if len(files) == 0 {
			h.responder.WriteError(w, errs.NewValidationError("images", "no files in request"))
			return
		}

		results := make([]UploadResult, 0, len(files))
		for _, header := range files {
			result := UploadResult{Filename: header.Filename}

			// Reject by declared size first so the error reports the real
			// byte count; the limited read below stays as the hard bound.
			if header.Size > services.MaxImageSize {
				result.Error = errs.NewImageTooLargeError(header.Size, services.MaxImageSize).Error()
				results = append(results, result)
				continue
			}

			file, err := header.Open()
			if err != nil {
				result.Error = "could not read file"
				results = append(results, result)
				continue
			}
			data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
			file.Close()
			if err != nil {
				result.Error = "could not read file"
				results = append(results, result)
				continue
			}

			url, err := h.images.Upload(r.Context(), userID, data)
			if err != nil {
				h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("image rejected")
				result.Error = err.Error()
				results = append(results, result)
				continue
			}

			result.URL = url
			results = append(results, result)
		}

		h.responder.WriteJSON(w, map[string]any{"results": results})
	}
}

type deleteImagePayload struct {
	URL string `json:"url"`
}

// deleteImage removes one stored image by URL, immediately. Edit flows
// defer removal by carrying the URL in images_to_delete on save instead.
func (h uploadHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var payload deleteImagePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.URL == "" {
			h.responder.WriteError(w, errs.Malformed("delete payload"))
			return
		}

		if err := h.images.Delete(r.Context(), userID, payload.URL); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "image deleted",
		})
	}
}
