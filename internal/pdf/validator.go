package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/observability"
)

const largeFileSize = 100 * 1024 * 1024

// Validator checks renderer inputs before any page is touched.
type Validator struct {
	log *observability.Logger
}

// NewValidator creates a validator that logs soft warnings to log.
func NewValidator(log *observability.Logger) *Validator {
	if log == nil {
		log = observability.Nop()
	}
	return &Validator{log: log}
}

// ValidatePDFPath checks that path names a readable .pdf file.
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return domain.ValidationError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	if info.Size() > largeFileSize {
		v.log.Warn().
			Str("path", path).
			Int("size_mb", int(info.Size()/(1024*1024))).
			Msg("PDF file is very large, rendering may take a while")
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	f.Close()

	return nil
}

// ValidateDPI rejects render resolutions outside 72..600.
func (v *Validator) ValidateDPI(dpi float64) error {
	if dpi < 72 || dpi > 600 {
		return domain.ValidationError(fmt.Sprintf("dpi must be between 72 and 600, got %v", dpi), nil)
	}
	return nil
}
