package storage

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestSaveBase64AndDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	link, err := store.SaveBase64(pngBase64(t, 10, 10), 400)
	if err != nil {
		t.Fatalf("SaveBase64: %v", err)
	}
	if !strings.HasPrefix(link, PublicPath+"/") || !strings.HasSuffix(link, ".jpg") {
		t.Fatalf("unexpected link %q", link)
	}
	path := filepath.Join(store.Dir, filepath.Base(link))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if err := store.Delete(link); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("file still present after delete")
	}
	// deleting again is fine
	if err := store.Delete(link); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSaveBase64DataURIPrefix(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	data := "data:image/png;base64," + pngBase64(t, 4, 4)
	if _, err := store.SaveBase64(data, 400); err != nil {
		t.Fatalf("SaveBase64 with data URI: %v", err)
	}
}

func TestSaveBase64ScalesDown(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	link, err := store.SaveBase64(pngBase64(t, 200, 100), 50)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(store.Dir, filepath.Base(link)))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("got %dx%d, want 50x25", b.Dx(), b.Dy())
	}
}

func TestSaveBase64Rejects(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveBase64("not base64 at all!!", 400); err == nil {
		t.Error("invalid base64 accepted")
	}
	bogus := base64.StdEncoding.EncodeToString([]byte("plain text"))
	if _, err := store.SaveBase64(bogus, 400); err == nil {
		t.Error("non-image payload accepted")
	}
}
