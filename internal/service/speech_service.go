package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/tools/speech"
	"go.uber.org/zap"
)

// ErrInvalidSpeechParams is returned for out-of-range synthesis parameters
var ErrInvalidSpeechParams = errors.New("invalid speech parameters")

// SpeechExport is the generated SSML document and its download filename
type SpeechExport struct {
	Data        []byte
	Filename    string
	ContentType string
}

// SpeechService exports text-to-speech settings as SSML documents
type SpeechService struct {
	logger *zap.Logger
}

// NewSpeechService creates a new SpeechService instance
func NewSpeechService(logger *zap.Logger) *SpeechService {
	return &SpeechService{logger: logger}
}

// ExportSSML renders the request as an SSML document for download
func (s *SpeechService) ExportSSML(ctx context.Context, req *domain.SpeechRequest) (*SpeechExport, error) {
	params := speech.Params{
		Text:   req.Text,
		Voice:  req.Voice,
		Rate:   req.Rate,
		Pitch:  req.Pitch,
		Volume: req.Volume,
	}

	doc, err := speech.Document(params, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpeechParams, err)
	}

	export := &SpeechExport{
		Data:        doc,
		Filename:    fmt.Sprintf("speech-%s.ssml", time.Now().UTC().Format("20060102-150405")),
		ContentType: "application/ssml+xml",
	}

	s.logger.Debug("ssml exported",
		zap.Int("textLength", len(req.Text)),
		zap.String("voice", req.Voice),
	)

	return export, nil
}
