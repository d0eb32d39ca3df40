package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScreenshotsSaveFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := &Screenshots{
		Dir:    dir,
		Prefix: "chunk",
		Now:    func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) },
	}
	// 1x2 frame: bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.Save(pixels, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "chunk_2024-05-01_12-30-00.000.png"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("expected blue on top, got r=%d b=%d", r, b)
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r == 0 || b != 0 {
		t.Errorf("expected red at the bottom, got r=%d b=%d", r, b)
	}
}

func TestScreenshotsSaveRejectsShortFrame(t *testing.T) {
	s := &Screenshots{Dir: t.TempDir(), Prefix: "x"}
	if _, err := s.Save(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected a size mismatch error")
	}
}
