package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrCancelled reports that the user dismissed the save dialog. It is a
	// normal outcome, not a failure.
	ErrCancelled = errors.New("save cancelled")
	// ErrUnavailable reports that a chooser cannot prompt on this system.
	ErrUnavailable = errors.New("save dialog unavailable")
)

// Request describes the save prompt shown to the user.
type Request struct {
	Title         string
	SuggestedName string
	Folder        string
}

// DefaultRequest returns the prompt used by the paint window.
func DefaultRequest() Request {
	return Request{Title: "Save Image", SuggestedName: "drawing.png"}
}

// Chooser asks the user where to write an image.
type Chooser interface {
	ChooseSavePath(ctx context.Context, req Request) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(ctx context.Context, req Request) (string, error)

// ChooseSavePath calls f.
func (f ChooserFunc) ChooseSavePath(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// FixedChooser always answers with Path, adding ".png" when it has no PNG
// extension. An empty Path is unavailable so a ChainChooser can move on.
type FixedChooser struct {
	Path string
}

func (f FixedChooser) ChooseSavePath(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := strings.TrimSpace(f.Path)
	if p == "" {
		return "", fmt.Errorf("%w: no output path configured", ErrUnavailable)
	}
	if req.Folder != "" && !filepath.IsAbs(p) {
		p = filepath.Join(req.Folder, p)
	}
	return EnsurePNGExtension(p), nil
}

// ChainChooser tries each chooser in order. Only ErrUnavailable falls
// through; a cancellation or any other error stops the chain.
type ChainChooser []Chooser

func (c ChainChooser) ChooseSavePath(ctx context.Context, req Request) (string, error) {
	var errs []error
	for _, ch := range c {
		if ch == nil {
			continue
		}
		path, err := ch.ChooseSavePath(ctx, req)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return "", err
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrUnavailable
	}
	return "", errors.Join(errs...)
}

// EnsurePNGExtension appends ".png" when path has no PNG extension.
func EnsurePNGExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return path
	}
	return path + ".png"
}
