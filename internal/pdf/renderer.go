// Package pdf renders source PDFs into per-page PNG images.
package pdf

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// Renderer rasterizes PDF pages with go-fitz. It implements domain.Renderer.
type Renderer struct {
	dpi       float64
	validator *Validator
	log       *observability.Logger
	tempDir   string
}

// NewRenderer creates a renderer producing images at dpi.
func NewRenderer(dpi float64, log *observability.Logger) *Renderer {
	if log == nil {
		log = observability.Nop()
	}
	return &Renderer{
		dpi:       dpi,
		validator: NewValidator(log),
		log:       log.WithOperation("render"),
	}
}

// Render writes page_NNN.png for every page into a fresh temp directory.
// A PDF with no pages yields an empty slice and no error; callers decide
// whether that is fatal.
func (r *Renderer) Render(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
	if err := r.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateDPI(r.dpi); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError("failed to open PDF", err)
	}
	defer doc.Close()

	tempDir, err := os.MkdirTemp("", "textbook-extractor-*")
	if err != nil {
		return nil, domain.IOError("failed to create temp directory", err)
	}
	r.tempDir = tempDir

	pageCount := doc.NumPage()
	r.log.Info().Str("pdf", pdfPath).Int("pages", pageCount).Float64("dpi", r.dpi).Msg("rendering PDF")

	images := make([]domain.PageImage, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("failed to render page %d", i+1), err)
		}

		out := filepath.Join(tempDir, fmt.Sprintf("page_%03d.png", i+1))
		f, err := os.Create(out)
		if err != nil {
			return nil, domain.IOError(fmt.Sprintf("failed to create image for page %d", i+1), err)
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("failed to encode page %d as PNG", i+1), err)
		}

		b := img.Bounds()
		images = append(images, domain.PageImage{
			PageNumber: i + 1,
			ImagePath:  out,
			Width:      b.Dx(),
			Height:     b.Dy(),
		})
	}

	return images, nil
}

// Cleanup removes the temp directory of the last Render call.
func (r *Renderer) Cleanup() error {
	if r.tempDir == "" {
		return nil
	}
	err := os.RemoveAll(r.tempDir)
	r.tempDir = ""
	if err != nil {
		return domain.IOError("failed to remove rendered pages", err)
	}
	return nil
}
