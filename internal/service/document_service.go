package service

import (
	"context"
	"unicode/utf8"

	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/util"
)

type DocumentExtractor interface {
	ExtractText(ctx context.Context, raw []byte) (string, error)
}

// PDFExtractor reads the PDF text layer and, when enabled, falls back to OCR
// for documents whose text layer is shorter than MinChars.
type PDFExtractor struct {
	OCRFallback bool
	MinChars    int
}

func (e *PDFExtractor) ExtractText(ctx context.Context, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := util.ExtractPDFText(raw)
	if err != nil {
		return "", err
	}
	if !e.OCRFallback || utf8.RuneCountInString(text) >= e.MinChars {
		return text, nil
	}

	ocrText, err := util.ExtractPDFOCR(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("ocr fallback failed, keeping text layer")
		return text, nil
	}
	if utf8.RuneCountInString(ocrText) > utf8.RuneCountInString(text) {
		return ocrText, nil
	}
	return text, nil
}
