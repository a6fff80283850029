package app

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preview-editor/internal/config"
	"preview-editor/internal/logger"
	"preview-editor/internal/models"
	"preview-editor/internal/timing"
)

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 6), G: 90, B: uint8(y * 12), A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func newTestApplication(t *testing.T, tweak func(*config.Config)) (*Application, *clockwork.FakeClock) {
	t.Helper()
	cfg, err := config.Load(config.New(""))
	require.NoError(t, err)
	if tweak != nil {
		tweak(cfg)
	}

	clock := clockwork.NewFakeClock()
	a, err := newApplication(test.NewTempApp(t), cfg, logger.Nop(), clock, immediate)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a, clock
}

func settle(t *testing.T, a *Application) {
	t.Helper()
	require.Eventually(t, func() bool { return a.Service().InFlight() == 0 }, 2*time.Second, time.Millisecond)
	a.Frame()
}

func tap(t *testing.T, a *Application, key string) {
	t.Helper()
	obj, ok := a.canvas.Lookup(key)
	require.True(t, ok, "no widget %q", key)
	test.Tap(obj.(*widget.Button))
}

func visible(a *Application, key string) bool {
	obj, ok := a.canvas.Lookup(key)
	return ok && obj.Visible()
}

func TestEditSessionThroughTheWidgets(t *testing.T) {
	a, _ := newTestApplication(t, nil)

	a.Frame()
	assert.True(t, visible(a, "frame-current/empty"))
	assert.True(t, visible(a, "frame-current/open"))
	assert.False(t, visible(a, "frame-preview/open"))

	a.Open(writePNG(t))
	settle(t, a)
	require.Equal(t, models.HasCurrent, a.Service().State())
	assert.True(t, visible(a, "frame-current/image"))
	assert.False(t, visible(a, "frame-current/empty"))

	tap(t, a, "top-panel/transform-grayscale")
	a.Frame()
	require.Equal(t, models.HasCurrentAndPreview, a.Service().State())
	assert.True(t, visible(a, "frame-preview/image"))

	tap(t, a, "top-panel/accept")
	a.Frame()
	require.Equal(t, models.HasCurrent, a.Service().State())
	assert.True(t, a.Service().Current().Get().IsGray())
	assert.False(t, visible(a, "frame-preview/image"))
	assert.True(t, visible(a, "frame-preview/empty"))

	tap(t, a, "top-panel/reset")
	a.Frame()
	assert.Equal(t, models.Empty, a.Service().State())
	assert.True(t, visible(a, "frame-current/empty"))

	assert.Equal(t, uint64(1), a.Timings().Count(timing.Load))
	assert.Equal(t, uint64(1), a.Timings().Count(timing.Transform))
	assert.Equal(t, uint64(5), a.Timings().Count(timing.Frame))
}

func TestOpenTransformsAreRegistered(t *testing.T) {
	a, _ := newTestApplication(t, nil)
	a.Frame()

	for _, name := range []string{"grayscale", "invert", "otsu", "equalize"} {
		assert.True(t, visible(a, "top-panel/transform-"+name), name)
	}
}

func TestStartDrivesFramesAndOpensConfiguredFile(t *testing.T) {
	path := writePNG(t)
	a, clock := newTestApplication(t, func(c *config.Config) { c.Open = path })

	a.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	require.Eventually(t, func() bool { return a.Service().InFlight() == 0 }, 2*time.Second, time.Millisecond)

	clock.Advance(a.cfg.FrameInterval())
	require.Eventually(t, func() bool { return a.loop.Frames() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, models.HasCurrent, a.Service().State())
}
