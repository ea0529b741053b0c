package display

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

var errSnapshotWrite = errors.New("failed to write snapshot")

// Snapshot writes the latest frame to a PNG file whenever it changes. Useful
// on a device without a panel attached.
type Snapshot struct {
	path   string
	scale  int
	back   *image.RGBA
	last   []byte
	closed bool
}

func NewSnapshot(path string, width int, height int, scale int) (*Snapshot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Join(err, errSnapshotWrite)
	}

	return &Snapshot{
		path:  path,
		scale: max(scale, 1),
		back:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

func (s *Snapshot) Buffer() *image.RGBA {
	return s.back
}

func (s *Snapshot) Present(frame *image.RGBA) error {
	if s.closed {
		return ErrClosed
	}

	if bytes.Equal(frame.Pix, s.last) {
		return nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Scale(frame, s.scale)); err != nil {
		return errors.Join(err, errSnapshotWrite)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return errors.Join(err, errSnapshotWrite)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Join(err, errSnapshotWrite)
	}

	s.last = append(s.last[:0], frame.Pix...)

	return nil
}

func (s *Snapshot) Close() error {
	s.closed = true

	return nil
}
