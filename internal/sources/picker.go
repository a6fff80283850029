package sources

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"preview-editor/internal/logger"
)

// FynePicker shows fyne's file open dialog. Pick must run on the UI goroutine,
// which is where views call it from.
type FynePicker struct {
	window     fyne.Window
	extensions []string
	startDir   string
	logger     logger.Logger
}

func NewFynePicker(window fyne.Window, extensions []string, startDir string, log logger.Logger) *FynePicker {
	return &FynePicker{
		window:     window,
		extensions: extensions,
		startDir:   startDir,
		logger:     log,
	}
}

func (p *FynePicker) Pick(ctx context.Context) <-chan Handle {
	result := make(chan Handle, 1)

	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			p.logger.Warning("FilePicker", "file dialog failed", map[string]interface{}{
				"error": err.Error(),
			})
			result <- nil
			return
		}
		if reader == nil || ctx.Err() != nil {
			result <- nil
			return
		}

		uri := reader.URI()
		reader.Close()

		p.logger.Debug("FilePicker", "source selected", map[string]interface{}{
			"uri": uri.String(),
		})
		result <- NewURIHandle(uri)
	}, p.window)

	if len(p.extensions) > 0 {
		open.SetFilter(storage.NewExtensionFileFilter(p.extensions))
	}
	if p.startDir != "" {
		location, err := storage.ListerForURI(storage.NewFileURI(p.startDir))
		if err == nil {
			open.SetLocation(location)
		} else {
			p.logger.Debug("FilePicker", "start directory unavailable", map[string]interface{}{
				"dir": p.startDir,
			})
		}
	}

	p.logger.Debug("FilePicker", "showing file dialog", map[string]interface{}{
		"filter": strings.Join(p.extensions, ","),
	})
	open.Show()

	return result
}
