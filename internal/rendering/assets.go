package rendering

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // signatures are often uploaded as webp

	"github.com/jonathan/report-cards/internal/types"
)

// AssetResolver turns an asset reference into raw image bytes.
type AssetResolver interface {
	Resolve(asset types.Asset) ([]byte, error)
}

// FileResolver reads assets from the local filesystem. Relative paths are joined to Root.
type FileResolver struct {
	Root string
}

// Resolve returns inline bytes when present, otherwise the file contents.
func (r FileResolver) Resolve(asset types.Asset) ([]byte, error) {
	if len(asset.Data) > 0 {
		return asset.Data, nil
	}
	if asset.Path == "" {
		return nil, errors.New("no path or data")
	}
	path := asset.Path
	if !filepath.IsAbs(path) && r.Root != "" {
		path = filepath.Join(r.Root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// preparedImage is a decoded asset re-encoded as PNG for embedding.
type preparedImage struct {
	png    []byte
	width  int
	height int
}

// Pixel caps applied before embedding; larger uploads are scaled down.
const (
	maxBackgroundPx = 2480
	maxSignaturePx  = 800
)

// prepareImage decodes any supported format, applies EXIF orientation, caps the
// size and re-encodes as PNG so the PDF writer only ever sees one well-formed format.
func prepareImage(data []byte, maxPx int) (*preparedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, errors.New("image has no pixels")
	}

	var fitted image.Image = img
	if img.Bounds().Dx() > maxPx || img.Bounds().Dy() > maxPx {
		fitted = imaging.Fit(img, maxPx, maxPx, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := fitted.Bounds()
	return &preparedImage{png: buf.Bytes(), width: b.Dx(), height: b.Dy()}, nil
}

// fitBox returns the largest rectangle with the image's aspect ratio that fits
// inside the box, centred in it.
func fitBox(x, y, w, h float64, imgW, imgH int) (float64, float64, float64, float64) {
	if imgW <= 0 || imgH <= 0 {
		return x, y, w, h
	}
	scale := w / float64(imgW)
	if s := h / float64(imgH); s < scale {
		scale = s
	}
	dw := float64(imgW) * scale
	dh := float64(imgH) * scale
	return x + (w-dw)/2, y + (h-dh)/2, dw, dh
}
