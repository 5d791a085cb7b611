package util

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractResumeText pulls plain text out of a resume PDF. Text-layer
// extraction is tried first; image-only PDFs fall back to OCR when
// tesseract is available.
func ExtractResumeText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			log.Printf("page %d: text extraction failed: %v", n+1, err)
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			fullText.WriteString(t)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) >= 100 {
		return result, nil
	}

	// Scanned resume, no usable text layer.
	if err := checkTesseract(); err != nil {
		if result == "" {
			return "", fmt.Errorf("no text layer and OCR unavailable: %w", err)
		}
		return result, nil
	}
	return extractPDFOCR(doc)
}

func extractPDFOCR(doc *fitz.Document) (string, error) {
	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
			log.Println(lastErr)
			continue
		}

		tmpFile, err := os.CreateTemp("", "page-*.png")
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to create temp file: %w", n+1, err)
			log.Println(lastErr)
			continue
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()
		defer os.Remove(tmpPath)

		if err := savePNG(tmpPath, img); err != nil {
			lastErr = fmt.Errorf("page %d: failed to save PNG: %w", n+1, err)
			log.Println(lastErr)
			continue
		}

		cmd := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng")
		out, err := cmd.CombinedOutput()
		if err != nil {
			lastErr = fmt.Errorf("page %d: tesseract error: %w, output: %s", n+1, err, string(out))
			log.Println(lastErr)
			continue
		}

		if pageText := strings.TrimSpace(string(out)); pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract text via OCR: %w", lastErr)
		}
		return "", fmt.Errorf("no text extracted from PDF")
	}
	return result, nil
}

func checkTesseract() error {
	cmd := exec.Command("tesseract", "-v")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w", err)
	}
	log.Printf("Tesseract version: %s\n", strings.Split(string(out), "\n")[0])
	return nil
}

func savePNG(path string, img interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	i, ok := img.(image.Image)
	if !ok {
		return fmt.Errorf("invalid image type: %T", img)
	}

	if err := png.Encode(f, i); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
