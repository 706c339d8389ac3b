package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/http/handler"
	"github.com/officekit/toolbox-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createCropHandler() *handler.CropHandler {
	logger := zap.NewNop()
	return handler.NewCropHandler(service.NewImageService(logger), logger)
}

func encodeTestImage(t *testing.T, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 80, G: 120, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func cropForm(t *testing.T, imageData []byte, fields map[string]string) (*bytes.Buffer, string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if imageData != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(imageData)
		require.NoError(t, err)
	}

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestCropHandler_Geometry(t *testing.T) {
	h := createCropHandler()

	t.Run("clamps and maps to natural pixels", func(t *testing.T) {
		body := `{
			"area": {"x": 100, "y": 50, "width": 200, "height": 100},
			"containerWidth": 800,
			"containerHeight": 600,
			"naturalWidth": 1600,
			"naturalHeight": 1200
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/crop/geometry", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Geometry(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp domain.CropGeometryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 100.0, resp.Display.X)
		require.NotNil(t, resp.Source)
		assert.Equal(t, 400, resp.Source.Width)
		assert.Equal(t, 200, resp.Source.Height)
	})

	t.Run("rejects a zero-size area", func(t *testing.T) {
		body := `{
			"area": {"x": 0, "y": 0, "width": 0, "height": 0},
			"containerWidth": 800,
			"containerHeight": 600
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/crop/geometry", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Geometry(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCropHandler_Crop(t *testing.T) {
	h := createCropHandler()

	t.Run("returns the cropped image as a download", func(t *testing.T) {
		body, contentType := cropForm(t, encodeTestImage(t, 400, 300), map[string]string{
			"x": "100", "y": "50", "width": "200", "height": "100",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/crop", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Crop(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "cropped-")

		decoded, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 200, decoded.Bounds().Dx())
		assert.Equal(t, 100, decoded.Bounds().Dy())
	})

	t.Run("missing image file", func(t *testing.T) {
		body, contentType := cropForm(t, nil, map[string]string{
			"x": "0", "y": "0", "width": "10", "height": "10",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/crop", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Crop(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid crop dimensions", func(t *testing.T) {
		body, contentType := cropForm(t, encodeTestImage(t, 100, 100), map[string]string{
			"x": "0", "y": "0", "width": "-5", "height": "10",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/crop", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Crop(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-image upload", func(t *testing.T) {
		body, contentType := cropForm(t, []byte("plain text"), map[string]string{
			"x": "0", "y": "0", "width": "10", "height": "10",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/crop", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Crop(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
