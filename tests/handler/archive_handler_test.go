package handler_test

import (
	"archive/zip"
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/officekit/toolbox-api/internal/http/handler"
	"github.com/officekit/toolbox-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createArchiveHandler() *handler.ArchiveHandler {
	logger := zap.NewNop()
	return handler.NewArchiveHandler(service.NewArchiveService(logger), logger)
}

func archiveForm(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestArchiveHandler_Compress(t *testing.T) {
	h := createArchiveHandler()

	t.Run("bundles uploads into a zip download", func(t *testing.T) {
		body, contentType := archiveForm(t, map[string][]byte{
			"a.txt": []byte("first file"),
			"b.txt": []byte("second file"),
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/compress", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Compress(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "archive-")

		zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 2)

		names := map[string]string{}
		for _, f := range zr.File {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			names[f.Name] = string(data)
		}
		assert.Equal(t, "first file", names["a.txt"])
		assert.Equal(t, "second file", names["b.txt"])
	})

	t.Run("no files", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("note", "nothing attached"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/compress", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()

		h.Compress(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/compress", bytes.NewBufferString("plain"))
		rec := httptest.NewRecorder()

		h.Compress(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
