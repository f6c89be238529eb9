// Package export writes sketches and generated images to disk.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sketchboard/internal/generate"
)

// Download names offered to the user.
const (
	SketchName    = "sketch.png"
	GeneratedName = "generated_image.png"
)

// ErrNothingToExport is returned when there is no generated image yet.
var ErrNothingToExport = errors.New("no generated image to download")

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error { return WritePNG(w, img) })
}

// Download saves img as name inside dir without overwriting existing files
// and returns the path written.
func Download(dir, name string, img image.Image) (string, error) {
	if img == nil {
		return "", ErrNothingToExport
	}
	path := UniquePath(filepath.Join(dir, name))
	if err := SavePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// DownloadGenerated saves the generated result as GeneratedName in dir.
// PNG payloads are written unchanged; other formats are re-encoded.
func DownloadGenerated(dir string, res *generate.Result) (string, error) {
	if res == nil || (res.Image == nil && len(res.Data) == 0) {
		return "", ErrNothingToExport
	}
	path := UniquePath(filepath.Join(dir, GeneratedName))
	if strings.Contains(res.ContentType, "png") && len(res.Data) > 0 {
		err := writeFile(path, func(w io.Writer) error {
			_, err := w.Write(res.Data)
			return err
		})
		return path, err
	}
	if res.Image == nil {
		return "", fmt.Errorf("generated image of type %q was not decoded", res.ContentType)
	}
	return path, SavePNG(path, res.Image)
}

// UniquePath returns path, or path with " (n)" before the extension when a
// file already exists there.
func UniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

// DefaultDir returns the directory downloads go to when none is configured.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	pics := filepath.Join(home, "Pictures")
	if st, err := os.Stat(pics); err == nil && st.IsDir() {
		return pics
	}
	return home
}

// writeFile writes through a temporary file so a failed encode never leaves
// a truncated image behind.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sketchboard-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
