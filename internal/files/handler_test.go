package files

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filebridge/service/internal/discord"
	"github.com/filebridge/service/internal/response"
)

func newTestRouter(svc *Service) *chi.Mux {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Post("/files", h.Upload)
	r.Get("/files/{id}", h.Resolve)
	r.Delete("/files/{id}", h.Remove)
	r.Get("/status", h.Status)
	return r
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func multipartBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHandlerUploadCreated(t *testing.T) {
	chat := &fakeChat{uploadRes: &Upload{
		Attachment: discord.Attachment{URL: "https://cdn/1", Filename: "f.bin", Size: 3},
		Mode:       ModeBot,
	}}
	router := newTestRouter(NewService(chat, newMemIndex(), nil))

	body, contentType := multipartBody(t, "f.bin", []byte{1, 2, 3})
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, decodeEnvelope(t, rr).Success)
}

func TestHandlerUploadAllBackendsFailed(t *testing.T) {
	chat := &fakeChat{uploadErr: BackendErrors{
		{Backend: ModeBot, Err: errors.New("bot down")},
		{Backend: ModeWebhook, Err: errors.New("webhook down")},
	}}
	router := newTestRouter(NewService(chat, newMemIndex(), nil))

	body, contentType := multipartBody(t, "f.bin", []byte{1})
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, "bot: bot down; webhook: webhook down", env.Error)
}

func TestHandlerUploadMissingFile(t *testing.T) {
	router := newTestRouter(NewService(&fakeChat{}, newMemIndex(), nil))

	req := httptest.NewRequest(http.MethodPost, "/files", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerResolveStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"missing record", ErrNotFound, http.StatusNotFound},
		{"confirmed absent", ErrAbsent, http.StatusNotFound},
		{"no backends", ErrNoBackends, http.StatusServiceUnavailable},
		{"transport errors", BackendErrors{{Backend: ModeBot, Err: errors.New("down")}}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := newMemIndex()
			idx.records["tg-987"] = &Record{ID: "tg-987", ChannelID: "123", MessageID: "987"}
			chat := &fakeChat{lookupErr: tt.err}
			if errors.Is(tt.err, ErrNotFound) {
				idx = newMemIndex() // no record at all
			}
			router := newTestRouter(NewService(chat, idx, nil))

			req := httptest.NewRequest(http.MethodGet, "/files/tg-987", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.False(t, decodeEnvelope(t, rr).Success)
		})
	}
}

func TestHandlerRemove(t *testing.T) {
	idx := newMemIndex()
	idx.records["r2:abc123"] = &Record{ID: "r2:abc123", Mode: ModeBucket}
	bucket := newFakeBucket()
	router := newTestRouter(NewService(&fakeChat{}, idx, bucket))

	req := httptest.NewRequest(http.MethodDelete, "/files/r2:abc123", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"abc123"}, bucket.deleted)
}

func TestHandlerStatus(t *testing.T) {
	chat := &fakeChat{status: ConnStatus{Connected: true, Mode: ModeBoth, Name: "filebot"}}
	router := newTestRouter(NewService(chat, newMemIndex(), nil))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ModeBoth, data["mode"])
}
