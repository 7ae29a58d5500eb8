package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// DefaultBinary is the poppler rasteriser looked up on PATH.
	DefaultBinary = "pdftoppm"
	// DefaultDPI matches the resolution used for printed report previews.
	DefaultDPI = 200
	// DefaultTimeout bounds a single conversion.
	DefaultTimeout = 30 * time.Second
	// JPEGQuality is the encoder quality for page images.
	JPEGQuality = 95
)

// Converter rasterises the first page of a PDF to JPEG by shelling out to pdftoppm.
// The zero value uses the defaults above. A Converter is safe for concurrent use.
type Converter struct {
	Binary  string
	DPI     int
	Timeout time.Duration
}

// NewConverter returns a Converter with the default binary, resolution and timeout.
func NewConverter() *Converter {
	return &Converter{Binary: DefaultBinary, DPI: DefaultDPI, Timeout: DefaultTimeout}
}

func (c *Converter) binary() string {
	if c == nil || c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

func (c *Converter) dpi() int {
	if c == nil || c.DPI <= 0 {
		return DefaultDPI
	}
	return c.DPI
}

func (c *Converter) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// ToJPEG renders page one of pdf and returns it as a JPEG flattened onto white.
func (c *Converter) ToJPEG(ctx context.Context, pdf []byte) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, &ConversionError{Message: "no PDF data to convert"}
	}

	bin, err := exec.LookPath(c.binary())
	if err != nil {
		return nil, &ConversionError{
			Message: fmt.Sprintf("%s not found. Please install poppler-utils", c.binary()),
			Cause:   err,
		}
	}

	workDir, err := os.MkdirTemp("", "report-raster-*")
	if err != nil {
		return nil, &ConversionError{Message: "failed to create temporary working directory", Cause: err}
	}
	defer os.RemoveAll(workDir)

	pdfPath := filepath.Join(workDir, "page.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
		return nil, &ConversionError{Message: "failed to write PDF to working directory", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	outPrefix := filepath.Join(workDir, "page")
	cmd := exec.CommandContext(ctx, bin,
		"-r", strconv.Itoa(c.dpi()),
		"-f", "1", "-l", "1",
		"-singlefile", "-png",
		pdfPath, outPrefix,
	)
	cmd.WaitDelay = time.Second

	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &ConversionError{
			Message:   "pdftoppm failed",
			LogOutput: output.String(),
			Cause:     err,
		}
	}

	page, err := os.ReadFile(outPrefix + ".png")
	if err != nil {
		return nil, &ConversionError{
			Message:   "pdftoppm did not produce a page image",
			LogOutput: output.String(),
			Cause:     err,
		}
	}

	jpg, err := EncodeJPEG(page)
	if err != nil {
		return nil, &ConversionError{Message: "failed to encode page image", Cause: err}
	}
	return jpg, nil
}

// EncodeJPEG decodes an image, drops any transparency by compositing it on a
// white canvas, and encodes the result as JPEG.
func EncodeJPEG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}

	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	flat := imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
