package notify

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sketchboard/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) Sender {
	return func(title, body string, opts platform.Options) error {
		existed := false
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			existed = err == nil
		}
		*out = append(*out, sent{title, body, opts, existed})
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Save("/tmp/x.png")
	n.Copy("sketch")
	n.Generated("cat", nil)
	n.GenerateFailed("boom")
	if len(got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(got))
	}

	var nilNotifier *Notifier
	nilNotifier.Save("x")
}

func TestGeneratedUsesPreviewIcon(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventGenerate, true)
	n.Generated("a red barn", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	n.GenerateFailed("API error (504)")

	if len(got) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(got))
	}
	if got[0].title != "Sketchboard" || !strings.Contains(got[0].body, `"a red barn"`) {
		t.Errorf("unexpected notification %+v", got[0])
	}
	if !got[0].iconExisted {
		t.Error("preview icon missing during dispatch")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Error("preview icon not cleaned up")
	}
	if got[1].body != "Generation failed: API error (504)" {
		t.Errorf("failure body = %q", got[1].body)
	}
}

func TestSaveAndCopy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventSave, true)
	n.Enable(EventCopy, true)
	n.Save(path)
	n.Copy("")

	if len(got) != 2 {
		t.Fatalf("sent %d notifications", len(got))
	}
	if got[0].body != "Saved "+path || got[0].opts.IconPath != path {
		t.Errorf("save notification %+v", got[0])
	}
	if got[1].body != "Copied sketch to clipboard" {
		t.Errorf("copy body = %q", got[1].body)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("SKETCHBOARD_NOTIFY_TITLE", "Board")
	t.Setenv("SKETCHBOARD_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Board" || prefs.Events[EventSave].Template != "Wrote %s" {
		t.Fatalf("unexpected prefs %+v", prefs)
	}
	if prefs.Events[EventCopy].Template != DefaultPreferences().Events[EventCopy].Template {
		t.Fatal("unrelated template changed")
	}
}
