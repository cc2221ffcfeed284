package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/domain"
)

func TestValidatePDFPath(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "chapter3.pdf")
	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))

	v := NewValidator(nil)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid pdf", pdfPath, false},
		{"empty path", "  ", true},
		{"missing file", filepath.Join(dir, "nope.pdf"), true},
		{"directory", dir, true},
		{"wrong extension", txtPath, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePDFPath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDPI(t *testing.T) {
	v := NewValidator(nil)
	assert.NoError(t, v.ValidateDPI(300))
	assert.Error(t, v.ValidateDPI(10))
	assert.Error(t, v.ValidateDPI(1200))
}

func TestRendererRejectsBadInputBeforeOpening(t *testing.T) {
	r := NewRenderer(300, nil)
	_, err := r.Render(t.Context(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.NoError(t, r.Cleanup())
}
