// Package storage persists uploaded images as JPEG files on disk.  Clients
// send base64 payloads (optionally with a data-URI prefix); the store decodes
// them, scales them down to a bounded box and writes them under a uuid name.
package storage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for uploads
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// PublicPath is the URL prefix under which stored images are served.
const PublicPath = "/images"

// Store writes and removes image files in a single directory.
type Store struct {
	Dir string
}

// NewStore creates the image directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// SaveBase64 decodes a base64 image, scales it so that neither side exceeds
// maxDim and writes it as JPEG.  It returns the public link for the stored
// file.
func (s *Store) SaveBase64(data string, maxDim int) (string, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 {
		data = data[i+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	img := scaleDown(src, maxDim)

	name := uuid.NewString() + ".jpg"
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	return PublicPath + "/" + name, nil
}

// Delete removes the file behind a previously returned link.  A missing file
// is not an error; cleanup is best-effort.
func (s *Store) Delete(link string) error {
	name := filepath.Base(link)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// scaleDown shrinks an image so its longer side equals maxDim.  Images that
// already fit are returned unchanged.
func scaleDown(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
