package stages

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
)

type fakeGenerator struct {
	prompts []string
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.respond == nil {
		return "", nil
	}
	return f.respond(prompt)
}

type fakeVision struct {
	calls   int
	respond func(image []byte) (*domain.VisionResult, error)
}

func (f *fakeVision) Annotate(ctx context.Context, image []byte) (*domain.VisionResult, error) {
	f.calls++
	return f.respond(image)
}

func newGateway(v domain.VisionAnnotator, g domain.Generator) *gateway.Gateway {
	return gateway.New(v, g, gateway.Options{})
}

// writeImages creates one fake page image per content string. The content
// is what the fake vision collaborator receives.
func writeImages(t *testing.T, contents ...string) []domain.PageImage {
	t.Helper()
	dir := t.TempDir()
	out := make([]domain.PageImage, len(contents))
	for i, c := range contents {
		path := filepath.Join(dir, "page_"+string(rune('a'+i))+".png")
		require.NoError(t, os.WriteFile(path, []byte(c), 0o644))
		out[i] = domain.PageImage{PageNumber: i + 1, ImagePath: path}
	}
	return out
}
