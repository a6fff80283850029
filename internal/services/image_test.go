package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preview-editor/internal/models"
	"preview-editor/internal/operations"
	"preview-editor/internal/sources"
	"preview-editor/internal/timing"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func colorImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
	return img
}

// settle waits for background loads to reach the queue and applies them.
func settle(t *testing.T, s *ImageService) {
	t.Helper()
	require.Eventually(t, func() bool { return s.InFlight() == 0 }, 2*time.Second, time.Millisecond)
	s.Update()
}

// gatedHandle blocks Read until release is closed.
type gatedHandle struct {
	name    string
	data    []byte
	release chan struct{}
}

func (h *gatedHandle) Name() string { return h.name }

func (h *gatedHandle) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-h.release:
		return h.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestLoadValidImageSetsCurrentAndClearsPreview(t *testing.T) {
	s := NewImageService(Options{DropStaleLoads: true})
	defer s.Shutdown()

	s.Reset(models.NewImageData(image.NewGray(image.Rect(0, 0, 1, 1)), "png", "old"))
	s.ApplyInvert()
	require.NotNil(t, s.Preview().Get())

	s.LoadNewImage(sources.NewBytesHandle("a.png", pngBytes(t, colorImage())))
	settle(t, s)

	current := s.Current().Get()
	require.NotNil(t, current)
	assert.Equal(t, "a.png", current.Source)
	assert.Equal(t, 2, current.Width)
	assert.Nil(t, s.Preview().Get())
	assert.Equal(t, models.HasCurrent, s.State())
}

func TestLoadInvalidBytesLeavesStateUnchanged(t *testing.T) {
	s := NewImageService(Options{DropStaleLoads: true})
	defer s.Shutdown()

	s.LoadNewImage(sources.NewBytesHandle("a.png", pngBytes(t, colorImage())))
	settle(t, s)
	s.ApplyGrayscale()

	current, preview := s.Current().Get(), s.Preview().Get()
	currentVersion, previewVersion := s.Current().Version(), s.Preview().Version()

	s.LoadNewImage(sources.NewBytesHandle("junk.png", []byte("not an image")))
	s.LoadNewImage(sources.NewFailingHandle("broken", errors.New("io error")))
	settle(t, s)

	assert.Same(t, current, s.Current().Get())
	assert.Same(t, preview, s.Preview().Get())
	assert.Equal(t, currentVersion, s.Current().Version())
	assert.Equal(t, previewVersion, s.Preview().Version())
}

func TestLoadWithoutSourceIsNoop(t *testing.T) {
	s := NewImageService(Options{})
	defer s.Shutdown()

	s.LoadNewImage(nil)
	assert.Equal(t, 0, s.InFlight())
	s.Update()
	assert.Equal(t, models.Empty, s.State())
	assert.Equal(t, uint64(0), s.Current().Version())
}

func TestApplyTransformWithoutCurrentIsNoop(t *testing.T) {
	s := NewImageService(Options{})
	defer s.Shutdown()

	s.ApplyGrayscale()
	assert.Nil(t, s.Preview().Get())
	assert.Equal(t, uint64(0), s.Preview().Version())
}

func TestDeclinedTransformLeavesPreviewUnchanged(t *testing.T) {
	s := NewImageService(Options{})
	defer s.Shutdown()

	s.Reset(models.NewImageData(colorImage(), "png", "c.png"))
	s.ApplyInvert()
	assert.Nil(t, s.Preview().Get())

	s.ApplyGrayscale()
	preview := s.Preview().Get()
	require.NotNil(t, preview)

	declining := func(image.Image) (image.Image, bool) { return nil, false }
	s.ApplyTransform("nope", declining)
	assert.Same(t, preview, s.Preview().Get())
}

func TestAcceptOperation(t *testing.T) {
	s := NewImageService(Options{})
	defer s.Shutdown()

	s.AcceptOperation()
	assert.Equal(t, models.Empty, s.State())

	original := models.NewImageData(colorImage(), "png", "c.png")
	s.Reset(original)
	s.ApplyGrayscale()
	preview := s.Preview().Get()

	s.AcceptOperation()
	assert.Same(t, preview, s.Current().Get())
	assert.Nil(t, s.Preview().Get())

	version := s.Current().Version()
	s.AcceptOperation()
	assert.Same(t, preview, s.Current().Get())
	assert.Equal(t, version, s.Current().Version())
}

func TestDiscardOperationNeverTouchesCurrent(t *testing.T) {
	s := NewImageService(Options{})
	defer s.Shutdown()

	original := models.NewImageData(colorImage(), "png", "c.png")
	s.Reset(original)
	s.ApplyGrayscale()

	version := s.Current().Version()
	s.DiscardOperation()
	s.DiscardOperation()

	assert.Nil(t, s.Preview().Get())
	assert.Same(t, original, s.Current().Get())
	assert.Equal(t, version, s.Current().Version())
}

func TestResetNilEmptiesBoth(t *testing.T) {
	s := NewImageService(Options{})
	defer s.Shutdown()

	s.Reset(models.NewImageData(colorImage(), "png", "c.png"))
	s.ApplyGrayscale()
	s.Reset(nil)

	assert.Nil(t, s.Current().Get())
	assert.Nil(t, s.Preview().Get())
	assert.Equal(t, models.Empty, s.State())
}

func TestEditingWorkflowEndToEnd(t *testing.T) {
	s := NewImageService(Options{DropStaleLoads: true})
	defer s.Shutdown()
	require.Equal(t, models.Empty, s.State())

	s.LoadNewImage(sources.NewBytesHandle("a.png", pngBytes(t, colorImage())))
	settle(t, s)
	a := s.Current().Get()
	require.NotNil(t, a)
	assert.Nil(t, s.Preview().Get())

	s.ApplyGrayscale()
	gray := s.Preview().Get()
	require.NotNil(t, gray)
	assert.Same(t, a, s.Current().Get())
	assert.Equal(t, models.HasCurrentAndPreview, s.State())
	assert.Equal(t, "grayscale", gray.Operation)

	want, _ := operations.Grayscale(a.Image)
	assert.Equal(t, want.(*image.Gray).Pix, gray.Image.(*image.Gray).Pix)

	s.AcceptOperation()
	assert.Same(t, gray, s.Current().Get())
	assert.Nil(t, s.Preview().Get())

	s.Reset(nil)
	assert.Equal(t, models.Empty, s.State())
}

func TestInvertTwiceRestoresOriginal(t *testing.T) {
	s := NewImageService(Options{})
	defer s.Shutdown()

	s.Reset(models.NewImageData(colorImage(), "png", "c.png"))
	s.ApplyGrayscale()
	s.AcceptOperation()
	gray := s.Current().Get()

	s.ApplyInvert()
	s.AcceptOperation()
	s.ApplyInvert()
	s.AcceptOperation()

	assert.Equal(t, gray.Image.(*image.Gray).Pix, s.Current().Get().Image.(*image.Gray).Pix)
}

func TestStaleLoadAfterResetIsDropped(t *testing.T) {
	var loaded []string
	var mu sync.Mutex
	s := NewImageService(Options{DropStaleLoads: true, OnLoaded: func(h sources.Handle) {
		mu.Lock()
		loaded = append(loaded, h.Name())
		mu.Unlock()
	}})
	defer s.Shutdown()

	slow := &gatedHandle{name: "slow.png", data: pngBytes(t, colorImage()), release: make(chan struct{})}
	s.LoadNewImage(slow)
	s.Reset(nil)
	close(slow.release)
	settle(t, s)

	assert.Equal(t, models.Empty, s.State())
	assert.Empty(t, loaded)
}

func TestNewerLoadSupersedesOlder(t *testing.T) {
	s := NewImageService(Options{DropStaleLoads: true})
	defer s.Shutdown()

	slow := &gatedHandle{name: "slow.png", data: pngBytes(t, colorImage()), release: make(chan struct{})}
	s.LoadNewImage(slow)
	s.LoadNewImage(sources.NewBytesHandle("fast.png", pngBytes(t, colorImage())))
	require.Eventually(t, func() bool { return s.InFlight() == 1 }, 2*time.Second, time.Millisecond)
	s.Update()

	close(slow.release)
	settle(t, s)

	require.NotNil(t, s.Current().Get())
	assert.Equal(t, "fast.png", s.Current().Get().Source)
}

func TestLastCompletionWinsWhenStaleLoadsKept(t *testing.T) {
	s := NewImageService(Options{DropStaleLoads: false})
	defer s.Shutdown()

	slow := &gatedHandle{name: "slow.png", data: pngBytes(t, colorImage()), release: make(chan struct{})}
	s.LoadNewImage(slow)
	s.Reset(nil)
	close(slow.release)
	settle(t, s)

	require.NotNil(t, s.Current().Get())
	assert.Equal(t, "slow.png", s.Current().Get().Source)
}

func TestShutdownCancelsPendingReads(t *testing.T) {
	s := NewImageService(Options{})

	s.LoadNewImage(&gatedHandle{name: "never.png", release: make(chan struct{})})
	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown blocked on pending read")
	}

	s.LoadNewImage(sources.NewBytesHandle("late.png", pngBytes(t, colorImage())))
	assert.Equal(t, 0, s.InFlight())
}

func TestTimingsRecordLoadsAndTransforms(t *testing.T) {
	tracker := timing.NewTracker(nil)
	s := NewImageService(Options{Timings: tracker})
	defer s.Shutdown()

	s.LoadNewImage(sources.NewBytesHandle("a.png", pngBytes(t, colorImage())))
	settle(t, s)
	s.ApplyGrayscale()
	s.ApplyInvert()

	assert.Equal(t, uint64(1), tracker.Count(timing.Load))
	assert.Equal(t, uint64(2), tracker.Count(timing.Transform))
}
