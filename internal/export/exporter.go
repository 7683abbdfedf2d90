// Package export asks the user for a destination and writes drawings there as
// PNG files.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/url"
	"path/filepath"
)

// Result describes a completed export.
type Result struct {
	// Path is the absolute filesystem path that was written.
	Path string
	// URI is Path in file:// form.
	URI string
}

// Exporter persists a snapshot of the drawing.
type Exporter interface {
	Export(ctx context.Context, img image.Image) (Result, error)
}

// Notifier is told about completed and failed saves.
type Notifier interface {
	Save(path string)
	SaveFailed(detail string)
}

// FileExporter prompts through Chooser and writes a PNG to the answer.
type FileExporter struct {
	Chooser  Chooser
	Request  Request
	Notifier Notifier

	write func(string, image.Image) error
}

// NewFileExporter returns a FileExporter using the default save prompt.
func NewFileExporter(ch Chooser, n Notifier) *FileExporter {
	return &FileExporter{Chooser: ch, Request: DefaultRequest(), Notifier: n}
}

// Export asks for a path and writes img there. A cancelled prompt returns
// ErrCancelled and touches nothing.
func (e *FileExporter) Export(ctx context.Context, img image.Image) (Result, error) {
	if e.Chooser == nil {
		return Result{}, fmt.Errorf("export: %w", ErrUnavailable)
	}
	req := e.Request
	if req.Title == "" {
		req = DefaultRequest()
	}
	path, err := e.Chooser.ChooseSavePath(ctx, req)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return Result{}, ErrCancelled
		}
		e.failed(err)
		return Result{}, fmt.Errorf("choose save path: %w", err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	write := e.write
	if write == nil {
		write = WritePNG
	}
	if err := write(path, img); err != nil {
		e.failed(err)
		return Result{}, err
	}
	log.Printf("saved %s", path)
	if e.Notifier != nil {
		e.Notifier.Save(path)
	}
	return Result{Path: path, URI: FileURI(path)}, nil
}

func (e *FileExporter) failed(err error) {
	log.Printf("save failed: %v", err)
	if e.Notifier != nil {
		e.Notifier.SaveFailed(err.Error())
	}
}

// FileURI converts an absolute path to a file:// URI.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if len(u.Path) > 0 && u.Path[0] != '/' {
		// windows drive letters
		u.Path = "/" + u.Path
	}
	return u.String()
}
