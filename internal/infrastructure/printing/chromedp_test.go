package printing

import (
	"context"
	"testing"
	"time"

	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChromedpConfigFrom(t *testing.T) {
	cfg := ChromedpConfigFrom(config.PrintingConfig{
		RemoteURL: "ws://chrome:9222",
		Timeout:   10 * time.Second,
		NoSandbox: true,
	}, zap.NewNop())

	assert.Equal(t, "ws://chrome:9222", cfg.RemoteURL)
	assert.Equal(t, 10*time.Second, cfg.DefaultTimeout)
	assert.True(t, cfg.NoSandbox)
}

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultScale, r.config.Scale)
	assert.NotNil(t, r.allocCtx)
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(&ChromedpConfig{})
	defer r.Close()

	_, err := r.Render(context.Background(), nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "   "})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestBuildPrintParams_A4Portrait(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:    "<html>test</html>",
		Margins: DefaultMargins(),
	})

	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(15), params.marginLeft, 0.001)
	assert.False(t, params.landscape)
	assert.True(t, params.printBackground)
	assert.False(t, params.displayHeaderFooter)
}

func TestBuildPrintParams_Landscape(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:        "<html>test</html>",
		Orientation: OrientationLandscape,
	})
	assert.True(t, params.landscape)
}

func TestBuildPrintParams_WithFooter(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:       "<html>test</html>",
		Margins:    Margins{Top: 5, Right: 5, Bottom: 5, Left: 5},
		FooterHTML: "<div>Page</div>",
	})

	assert.True(t, params.displayHeaderFooter)
	assert.Equal(t, "<div>Page</div>", params.footerTemplate)
	assert.NotEmpty(t, params.headerTemplate)
	assert.GreaterOrEqual(t, params.marginBottom, mmToInches(12))
	assert.InDelta(t, mmToInches(5), params.marginTop, 0.001)
}

func TestBuildCompleteHTML(t *testing.T) {
	t.Run("keeps full documents", func(t *testing.T) {
		doc := "<!DOCTYPE html><html><body>test</body></html>"
		assert.Equal(t, doc, buildCompleteHTML(&RenderRequest{HTML: doc}))
	})

	t.Run("wraps fragments", func(t *testing.T) {
		out := buildCompleteHTML(&RenderRequest{HTML: "<p>Bonjour</p>", Title: "A & B"})
		assert.Contains(t, out, "<!DOCTYPE html>")
		assert.Contains(t, out, `<meta charset="UTF-8">`)
		assert.Contains(t, out, "<title>A &amp; B</title>")
		assert.Contains(t, out, "<body><p>Bonjour</p></body>")
	})
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
}
