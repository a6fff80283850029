package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"preview-editor/internal/codec"
	"preview-editor/internal/logger"
	"preview-editor/internal/models"
	"preview-editor/internal/observable"
	"preview-editor/internal/operations"
	"preview-editor/internal/sources"
	"preview-editor/internal/timing"
)

const (
	component        = "ImageService"
	defaultQueueSize = 16
)

// DecodeFunc turns raw bytes from a named source into an image.
type DecodeFunc func(data []byte, source string) (*models.ImageData, error)

// ImageCell is the shared slot type for the current and preview images.
type ImageCell = observable.Cell[models.ImageData]

type Options struct {
	// DropStaleLoads discards a finished load when a newer load or a reset
	// was requested after it started. When false the last load to finish wins.
	DropStaleLoads bool
	QueueSize      int
	Decode         DecodeFunc
	Logger         logger.Logger
	// Timings receives load and transform durations. May be nil.
	Timings *timing.Tracker
	// OnLoaded runs on the Update goroutine after a load has been applied.
	OnLoaded func(sources.Handle)
}

type loadResult struct {
	generation uint64
	handle     sources.Handle
	image      *models.ImageData
	requested  time.Time
}

// ImageService owns the edit session: the current image and an optional
// preview derived from it. Every operation returns without blocking; loads
// finish in the background and are applied by Update.
type ImageService struct {
	current *ImageCell
	preview *ImageCell

	completions chan loadResult
	generation  atomic.Uint64
	inFlight    atomic.Int32

	dropStale bool
	decode    DecodeFunc
	onLoaded  func(sources.Handle)
	logger    logger.Logger
	timings   *timing.Tracker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewImageService(opts Options) *ImageService {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Decode == nil {
		opts.Decode = codec.Decode
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &ImageService{
		current:     observable.NewCell[models.ImageData](nil),
		preview:     observable.NewCell[models.ImageData](nil),
		completions: make(chan loadResult, opts.QueueSize),
		dropStale:   opts.DropStaleLoads,
		decode:      opts.Decode,
		onLoaded:    opts.OnLoaded,
		logger:      opts.Logger,
		timings:     opts.Timings,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (s *ImageService) Current() *ImageCell { return s.current }

func (s *ImageService) Preview() *ImageCell { return s.preview }

func (s *ImageService) State() models.EditState {
	return models.StateOf(s.current.Get(), s.preview.Get())
}

// InFlight reports how many loads have not yet reached the completion queue.
func (s *ImageService) InFlight() int {
	return int(s.inFlight.Load())
}

// LoadNewImage reads and decodes h in the background. A nil handle (the
// picker was cancelled) does nothing. Read and decode failures are logged
// and leave the session untouched.
func (s *ImageService) LoadNewImage(h sources.Handle) {
	if h == nil {
		s.logger.Debug(component, "load skipped, no source selected", nil)
		return
	}
	if s.ctx.Err() != nil {
		return
	}

	generation := s.generation.Add(1)
	s.inFlight.Add(1)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.inFlight.Add(-1)
		s.load(h, generation)
	}()
}

func (s *ImageService) load(h sources.Handle, generation uint64) {
	started := time.Now()
	done := s.timings.Start(timing.Load)

	data, err := h.Read(s.ctx)
	if err != nil {
		s.logger.Warning(component, "source read failed", map[string]interface{}{
			"source": h.Name(),
			"error":  err.Error(),
		})
		return
	}

	img, err := s.decode(data, h.Name())
	if err != nil {
		s.logger.Warning(component, "image decode failed", map[string]interface{}{
			"source":     h.Name(),
			"size_bytes": len(data),
			"error":      err.Error(),
		})
		return
	}

	s.logger.Debug(component, "image decoded", map[string]interface{}{
		"source":      h.Name(),
		"width":       img.Width,
		"height":      img.Height,
		"format":      img.Format,
		"duration_ms": done().Milliseconds(),
	})

	select {
	case s.completions <- loadResult{generation: generation, handle: h, image: img, requested: started}:
	case <-s.ctx.Done():
	}
}

// Update applies finished loads. It is called once per frame and never blocks.
func (s *ImageService) Update() {
	for {
		select {
		case result := <-s.completions:
			s.applyLoad(result)
		default:
			return
		}
	}
}

func (s *ImageService) applyLoad(result loadResult) {
	if s.dropStale && result.generation != s.generation.Load() {
		s.logger.Debug(component, "dropping superseded load", map[string]interface{}{
			"source":     result.handle.Name(),
			"generation": result.generation,
		})
		return
	}

	s.replace(result.image)

	s.logger.Info(component, "image loaded", map[string]interface{}{
		"source":  result.handle.Name(),
		"width":   result.image.Width,
		"height":  result.image.Height,
		"format":  result.image.Format,
		"wait_ms": time.Since(result.requested).Milliseconds(),
	})

	if s.onLoaded != nil {
		s.onLoaded(result.handle)
	}
}

// ApplyTransform previews fn applied to the current image. Nothing happens
// when there is no current image or fn declines.
func (s *ImageService) ApplyTransform(name string, fn operations.Transform) {
	current := s.current.Get()
	if current == nil || fn == nil {
		return
	}

	done := s.timings.Start(timing.Transform)
	out, ok := fn(current.Image)
	elapsed := done()
	if !ok || out == nil {
		s.logger.Debug(component, "transform declined", map[string]interface{}{
			"operation": name,
			"image":     current.ID,
		})
		return
	}

	s.preview.Set(current.Derive(out, name))

	s.logger.Debug(component, "preview ready", map[string]interface{}{
		"operation":   name,
		"duration_ms": elapsed.Milliseconds(),
	})
}

func (s *ImageService) ApplyGrayscale() {
	s.ApplyTransform("grayscale", operations.Grayscale)
}

func (s *ImageService) ApplyInvert() {
	s.ApplyTransform("invert", operations.Invert)
}

// AcceptOperation promotes the preview to current. No-op without a preview.
func (s *ImageService) AcceptOperation() {
	preview := s.preview.Get()
	if preview == nil {
		return
	}
	if !s.preview.CompareAndSwap(preview, nil) {
		return
	}
	s.current.Set(preview)

	s.logger.Debug(component, "operation accepted", map[string]interface{}{
		"operation": preview.Operation,
	})
}

func (s *ImageService) DiscardOperation() {
	s.preview.Set(nil)
}

// Reset replaces the current image (nil empties it) and clears the preview.
// Loads still in flight are superseded when stale loads are dropped.
func (s *ImageService) Reset(img *models.ImageData) {
	s.generation.Add(1)
	s.replace(img)
}

func (s *ImageService) replace(img *models.ImageData) {
	s.current.Set(img)
	s.preview.Set(nil)
}

// Shutdown cancels reads still in progress and waits for their goroutines.
func (s *ImageService) Shutdown() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info(component, "image service stopped", nil)
}
