package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/handler"
	"github.com/homiapp/planner-api/internal/photo"
)

// mockPhotoAttacher is a test double for handler.PhotoAttacher.
type mockPhotoAttacher struct {
	attach func(tripID, itemID uuid.UUID, files []photo.File) []photo.Result
}

func (m *mockPhotoAttacher) Attach(tripID, itemID uuid.UUID, files []photo.File) []photo.Result {
	return m.attach(tripID, itemID, files)
}

var _ handler.PhotoAttacher = (*mockPhotoAttacher)(nil)

// multipartBody builds a multipart form with one "photos" part per file.
func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func photoTarget(tripID, itemID uuid.UUID) string {
	return "/trips/" + tripID.String() + "/activities/" + itemID.String() + "/photos"
}

func TestAttachPhotos_200_AllAttached(t *testing.T) {
	tripID, itemID := uuid.New(), uuid.New()
	ph := &mockPhotoAttacher{
		attach: func(gotTrip, gotItem uuid.UUID, files []photo.File) []photo.Result {
			require.Equal(t, tripID, gotTrip)
			require.Equal(t, itemID, gotItem)
			out := make([]photo.Result, len(files))
			for i, f := range files {
				out[i] = photo.Result{Name: f.Name, Ref: "data:image/png;base64,AAAA"}
			}
			return out
		},
	}

	body, contentType := multipartBody(t, map[string][]byte{
		"one.png": []byte("fake"),
		"two.png": []byte("fake"),
	})
	req := httptest.NewRequest(http.MethodPost, photoTarget(tripID, itemID), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, nil, ph, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []struct {
			Name     string `json:"name"`
			Attached bool   `json:"attached"`
			Error    string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Results, 2)
	for _, r := range resp.Results {
		assert.True(t, r.Attached)
		assert.Empty(t, r.Error)
	}
}

func TestAttachPhotos_200_ReportsPerFileFailure(t *testing.T) {
	ph := &mockPhotoAttacher{
		attach: func(_, _ uuid.UUID, files []photo.File) []photo.Result {
			return []photo.Result{
				{Name: "good.png", Ref: "data:image/png;base64,AAAA"},
				{Name: "bad.txt", Err: fmt.Errorf("%w: not an image", domain.ErrValidation)},
			}
		},
	}

	body, contentType := multipartBody(t, map[string][]byte{"good.png": []byte("x"), "bad.txt": []byte("y")})
	req := httptest.NewRequest(http.MethodPost, photoTarget(uuid.New(), uuid.New()), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, nil, ph, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []struct {
			Name     string `json:"name"`
			Attached bool   `json:"attached"`
			Error    string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Results, 2)

	byName := map[string]bool{}
	for _, r := range resp.Results {
		byName[r.Name] = r.Attached
	}
	assert.True(t, byName["good.png"])
	assert.False(t, byName["bad.txt"])
}

func TestAttachPhotos_422_NoFiles(t *testing.T) {
	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, photoTarget(uuid.New(), uuid.New()), body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, nil, &mockPhotoAttacher{}, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttachPhotos_422_NotMultipart(t *testing.T) {
	rec := doJSON(newHTTPHandler(nil, nil, nil, &mockPhotoAttacher{}, nil, nil), http.MethodPost, photoTarget(uuid.New(), uuid.New()), jsonBody(t, map[string]any{}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
