package handler

import (
	"net/http"

	"github.com/homiapp/planner-api/internal/photo"
)

// maxPhotoMemory caps how much of a multipart upload is held in memory
// before spilling to temp files.
const maxPhotoMemory = 32 << 20

// photoResult is the per-file outcome of an upload batch.
type photoResult struct {
	Name     string `json:"name"`
	Attached bool   `json:"attached"`
	Error    string `json:"error,omitempty"`
}

// handleAttachPhotos handles POST /trips/{tripID}/activities/{activityID}/photos.
// Files are sent as the repeated multipart field "photos". Each file is an
// independent commit, so one bad file never fails the batch; the response
// reports the outcome per file.
func (s *Server) handleAttachPhotos(w http.ResponseWriter, r *http.Request) {
	tripID, itemID, ok := s.activityParams(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoMemory); err != nil {
		respondRequestError(w, "multipart form is required")
		return
	}
	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		respondRequestError(w, "at least one file is required in field \"photos\"")
		return
	}

	files := make([]photo.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			respondRequestError(w, "could not read uploaded file "+h.Filename)
			return
		}
		defer f.Close()
		files = append(files, photo.File{Name: h.Filename, Reader: f})
	}

	results := s.photos.Attach(tripID, itemID, files)

	out := make([]photoResult, len(results))
	for i, res := range results {
		out[i] = photoResult{Name: res.Name, Attached: res.Err == nil}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": out})
}
