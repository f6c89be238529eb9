package surface

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Snapshot is an immutable PNG encoding of a paint layer.
type Snapshot struct {
	data   []byte
	bounds image.Rectangle
}

// SnapshotFromPNG wraps already encoded PNG data. The slice is copied.
func SnapshotFromPNG(data []byte, bounds image.Rectangle) Snapshot {
	return Snapshot{data: append([]byte(nil), data...), bounds: bounds}
}

// PNG returns a copy of the encoded image.
func (s Snapshot) PNG() []byte { return append([]byte(nil), s.data...) }

// Bounds returns the rectangle the snapshot was taken from.
func (s Snapshot) Bounds() image.Rectangle { return s.bounds }

// Size returns the encoded length in bytes.
func (s Snapshot) Size() int { return len(s.data) }

// Same reports whether s and o hold identical encodings.
func (s Snapshot) Same(o Snapshot) bool {
	return s.bounds.Eq(o.bounds) && bytes.Equal(s.data, o.data)
}

// IsZero reports whether s holds no data.
func (s Snapshot) IsZero() bool { return len(s.data) == 0 }

func decodeSnapshot(ctx context.Context, snap Snapshot, want image.Rectangle) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap.IsZero() {
		return nil, fmt.Errorf("decode snapshot: empty")
	}
	img, err := png.Decode(bytes.NewReader(snap.data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !img.Bounds().Eq(want) {
		return nil, fmt.Errorf("decode snapshot: %w: got %v want %v", ErrBounds, img.Bounds(), want)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}
