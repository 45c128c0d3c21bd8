package util

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/gen2brain/go-fitz"
)

var (
	// page separators some extractors emit, e.g. "----------------Page (0) Break----------------"
	pageBreakPattern = regexp.MustCompile(`-{16,}(?:Page \(\d+\) Break-{16,})?`)
	inlineWhitespace = regexp.MustCompile(`[ \t]+`)
	trailingSpace    = regexp.MustCompile(`[ \t]+\n`)
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanExtractedText removes extraction artifacts and trims the result.
func CleanExtractedText(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	text = pageBreakPattern.ReplaceAllString(text, " ")
	text = inlineWhitespace.ReplaceAllString(text, " ")
	text = trailingSpace.ReplaceAllString(text, "\n")
	text = excessBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ExtractPDFText reads the text layer of every page.
func ExtractPDFText(raw []byte) (string, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
		}
		fullText.WriteString(pageText)
		fullText.WriteString("\n\n")
	}

	return CleanExtractedText(fullText.String()), nil
}

// ExtractPDFOCR renders every page and runs it through tesseract. It is the
// fallback for scanned résumés that have no text layer.
func ExtractPDFOCR(raw []byte) (string, error) {
	if err := checkTesseract(); err != nil {
		return "", fmt.Errorf("tesseract check failed: %w", err)
	}

	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
			logger.Warn().Err(lastErr).Msg("ocr page skipped")
			continue
		}

		pageText, err := ocrImage(img)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			logger.Warn().Err(lastErr).Msg("ocr page skipped")
			continue
		}
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := CleanExtractedText(fullText.String())
	if result == "" && lastErr != nil {
		return "", fmt.Errorf("failed to extract text via OCR: %w", lastErr)
	}
	return result, nil
}

func ocrImage(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to write PNG: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, stderr.String())
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract() error {
	out, err := exec.Command("tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	logger.Debug().Str("version", strings.Split(string(out), "\n")[0]).Msg("tesseract available")
	return nil
}
