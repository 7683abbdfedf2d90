package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/sketchpad/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	prev := send
	send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		got = append(got, s)
		return nil
	}
	t.Cleanup(func() { send = prev })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Save("/tmp/x.png")
	n.SaveFailed("disk full")
	n.Copy("", nil)
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(*got))
	}
}

func TestSaveIncludesAbsolutePathAndIcon(t *testing.T) {
	got := capture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save(path)
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*got))
	}
	s := (*got)[0]
	if s.title != platform.AppName || s.body != "Saved "+path {
		t.Fatalf("notification = %q / %q", s.title, s.body)
	}
	if s.opts.IconPath != path {
		t.Fatalf("icon = %q, want %q", s.opts.IconPath, path)
	}
}

func TestSaveFailedIsCritical(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventSaveFailed, true)
	n.SaveFailed("permission denied")
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*got))
	}
	if s := (*got)[0]; s.body != "Could not save: permission denied" || s.opts.Urgency != platform.UrgencyCritical {
		t.Fatalf("notification = %+v", s)
	}
}

func TestCopyPreviewIsCleanedUp(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*got))
	}
	s := (*got)[0]
	if s.body != "Copied drawing to clipboard" {
		t.Fatalf("body = %q", s.body)
	}
	if !s.iconExisted {
		t.Fatalf("preview icon missing while notifying")
	}
	if _, err := os.Stat(s.opts.IconPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("preview not removed: %v", err)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("SKETCHPAD_NOTIFY_TITLE", "Paint")
	t.Setenv("SKETCHPAD_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Paint" {
		t.Fatalf("title = %q", prefs.Title)
	}
	if got := prefs.Events[EventSave].Template; got != "Wrote %s" {
		t.Fatalf("save template = %q", got)
	}
	if got := prefs.Events[EventCopy].Template; got != DefaultPreferences().Events[EventCopy].Template {
		t.Fatalf("copy template changed: %q", got)
	}
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Enable(EventSave, true)
	n.Save("x")
	if n.Enabled(EventSave) {
		t.Fatalf("nil notifier reported enabled")
	}
}
