package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/http/handler"
	"github.com/officekit/toolbox-api/internal/repository"
	"github.com/officekit/toolbox-api/internal/service"
	"github.com/officekit/toolbox-api/internal/storage"
	"github.com/officekit/toolbox-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func fileRouter(t *testing.T, db *gorm.DB, userID *uuid.UUID) http.Handler {
	logger := zap.NewNop()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	fileService := service.NewFileService(
		repository.NewSharedFileRepository(db),
		store,
		"http://localhost:8080",
		7*24*time.Hour,
		logger,
	)
	h := handler.NewFileHandler(fileService, 100, logger)

	r := chi.NewRouter()
	r.Get("/api/v1/shared/{token}", h.DownloadShared)
	r.Group(func(r chi.Router) {
		if userID != nil {
			id := *userID
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, req.WithContext(memberRequestContext(id)))
				})
			})
		}
		r.Post("/api/v1/files/upload", h.Upload)
		r.Get("/api/v1/files", h.List)
		r.Get("/api/v1/files/{id}", h.GetByID)
		r.Get("/api/v1/files/{id}/download", h.Download)
		r.Delete("/api/v1/files/{id}", h.Delete)
	})
	return r
}

func uploadForm(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func uploadTestFile(t *testing.T, router http.Handler, filename string, content []byte) domain.SharedFileDTO {
	body, contentType := uploadForm(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var dto domain.SharedFileDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func TestFileHandler_Upload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "uploads@example.com")
	router := fileRouter(t, db, &user.ID)

	t.Run("stores the file and returns a share link", func(t *testing.T) {
		dto := uploadTestFile(t, router, "report.txt", []byte("quarterly numbers"))

		assert.Equal(t, "report.txt", dto.Filename)
		assert.Equal(t, int64(len("quarterly numbers")), dto.Size)
		assert.Len(t, dto.ShareToken, 32)
		assert.Contains(t, dto.ShareURL, "/api/v1/shared/"+dto.ShareToken)
	})

	t.Run("missing file field", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("note", "no file here"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFileHandler_DownloadAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "owner@example.com")
	router := fileRouter(t, db, &user.ID)

	dto := uploadTestFile(t, router, "notes.txt", []byte("meeting notes"))

	t.Run("downloads own file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/files/%s/download", dto.ID), nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "meeting notes", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "notes.txt")
	})

	t.Run("gets metadata", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/files/%s", dto.ID), nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.SharedFileDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, dto.ID, got.ID)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/not-a-uuid", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/files/%s", uuid.New()), nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("deletes the file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/files/%s", dto.ID), nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)

		req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/files/%s", dto.ID), nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFileHandler_DownloadShared(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "sharer@example.com")
	router := fileRouter(t, db, &user.ID)

	dto := uploadTestFile(t, router, "shared.txt", []byte("public content"))

	t.Run("anonymous download via token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/shared/"+dto.ShareToken, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public content", rec.Body.String())
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/shared/nosuchtoken", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("expired share", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		testutil.CreateTestSharedFile(t, db, user.ID, "expiredtoken123", &expired)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/shared/expiredtoken123", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusGone, rec.Code)
	})
}

func TestFileHandler_ListRequiresAuthentication(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := fileRouter(t, db, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
