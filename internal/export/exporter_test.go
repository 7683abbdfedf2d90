package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingNotifier struct {
	saved  []string
	failed []string
}

func (r *recordingNotifier) Save(path string)         { r.saved = append(r.saved, path) }
func (r *recordingNotifier) SaveFailed(detail string) { r.failed = append(r.failed, detail) }

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 2, color.RGBA{255, 0, 0, 255})
	return img
}

func TestFileExporterWritesPNG(t *testing.T) {
	dir := t.TempDir()
	n := &recordingNotifier{}
	e := NewFileExporter(FixedChooser{Path: filepath.Join(dir, "drawing")}, n)

	res, err := e.Export(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := filepath.Join(dir, "drawing.png")
	if res.Path != want {
		t.Fatalf("path = %q, want %q", res.Path, want)
	}
	if !strings.HasPrefix(res.URI, "file:///") {
		t.Fatalf("uri = %q, want file:/// prefix", res.URI)
	}
	f, err := os.Open(want)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, _, _ := img.At(1, 2).RGBA(); r>>8 != 255 {
		t.Fatalf("decoded pixel red = %d, want 255", r>>8)
	}
	if len(n.saved) != 1 || n.saved[0] != want {
		t.Fatalf("save notifications = %v", n.saved)
	}
}

func TestFileExporterKeepsDialogPath(t *testing.T) {
	// the save dialog already confirmed this exact name, overwrite prompt included
	path := filepath.Join(t.TempDir(), "sketch")
	e := NewFileExporter(ChooserFunc(func(context.Context, Request) (string, error) {
		return path, nil
	}), nil)
	var writes []string
	e.write = func(p string, _ image.Image) error {
		writes = append(writes, p)
		return nil
	}
	res, err := e.Export(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Path != path || len(writes) != 1 || writes[0] != path {
		t.Fatalf("wrote %v (result %q), want exactly %q", writes, res.Path, path)
	}
}

func TestFileExporterCancelled(t *testing.T) {
	n := &recordingNotifier{}
	e := NewFileExporter(ChooserFunc(func(context.Context, Request) (string, error) {
		return "", ErrCancelled
	}), n)
	var writes []string
	e.write = func(path string, _ image.Image) error {
		writes = append(writes, path)
		return nil
	}
	if _, err := e.Export(context.Background(), testImage()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if len(writes) != 0 {
		t.Fatalf("cancel wrote %v", writes)
	}
	if len(n.saved)+len(n.failed) != 0 {
		t.Fatalf("cancel notified: %+v", n)
	}
}

func TestFileExporterWriteFailure(t *testing.T) {
	n := &recordingNotifier{}
	writeErr := errors.New("disk full")
	e := NewFileExporter(FixedChooser{Path: "/nowhere/out.png"}, n)
	e.write = func(string, image.Image) error { return writeErr }
	if _, err := e.Export(context.Background(), testImage()); !errors.Is(err, writeErr) {
		t.Fatalf("err = %v, want %v", err, writeErr)
	}
	if len(n.failed) != 1 {
		t.Fatalf("failure notifications = %v", n.failed)
	}
}

func TestFileExporterWithoutChooser(t *testing.T) {
	e := &FileExporter{}
	if _, err := e.Export(context.Background(), testImage()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestWritePNGMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "x.png")
	if err := WritePNG(path, testImage()); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestFileURI(t *testing.T) {
	if got, want := FileURI("/tmp/a b.png"), "file:///tmp/a%20b.png"; got != want {
		t.Fatalf("FileURI = %q, want %q", got, want)
	}
}
