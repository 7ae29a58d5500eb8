package rendering

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/report-cards/internal/types"
)

const fontFamily = "Helvetica"

// page wraps one fpdf document while it is being drawn.
type page struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	assets   AssetResolver
	warnings []string
}

func (p *page) font(style string, size float64) {
	p.pdf.SetFont(fontFamily, style, size)
}

func (p *page) width(s string) float64 {
	return p.pdf.GetStringWidth(p.tr(s))
}

func (p *page) text(x, y float64, s string) {
	p.pdf.Text(x, y, p.tr(s))
}

func (p *page) textRight(right, y float64, s string) {
	p.pdf.Text(right-p.width(s), y, p.tr(s))
}

// fit shortens s with an ellipsis until it fits a cell of width w.
func (p *page) fit(s string, w float64) string {
	avail := w - 2*cellPadding
	if p.width(s) <= avail {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "..."
		if p.width(candidate) <= avail {
			return candidate
		}
	}
	return ""
}

// wrap breaks a paragraph into lines no wider than w using the current font.
func (p *page) wrap(paragraph string, w float64) []string {
	words := strings.Fields(paragraph)
	lines := []string{}
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if p.width(candidate) <= w {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		// A single word wider than the line is cut by runes.
		current = ""
		for _, r := range word {
			if p.width(current+string(r)) > w && current != "" {
				lines = append(lines, current)
				current = ""
			}
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func (p *page) warn(err error) {
	p.warnings = append(p.warnings, err.Error())
}

// image draws an asset fitted into the box. Any failure omits the image and records a warning.
func (p *page) image(element string, asset types.Asset, maxPx int, x, y, w, h float64) bool {
	if !asset.Present() {
		return false
	}

	data, err := p.assets.Resolve(asset)
	if err != nil {
		p.warn(&MissingAssetError{Element: element, Path: asset.Path, Cause: err})
		return false
	}

	img, err := prepareImage(data, maxPx)
	if err != nil {
		p.warn(&MissingAssetError{Element: element, Path: asset.Path, Cause: err})
		return false
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(element, opts, bytes.NewReader(img.png))
	if !p.pdf.Ok() {
		err := p.pdf.Error()
		p.pdf.ClearError()
		p.warn(&MissingAssetError{Element: element, Path: asset.Path, Cause: err})
		return false
	}

	dx, dy, dw, dh := fitBox(x, y, w, h, img.width, img.height)
	p.pdf.ImageOptions(element, dx, dy, dw, dh, false, opts, 0, "")
	return true
}

// tableRow is one row of a bordered table.
type tableRow struct {
	cells []string
	fill  *[3]int
	bold  bool
}

// table draws rows starting at (x, y) and returns the y just below the last row.
func (p *page) table(x, y float64, widths []float64, rows []tableRow, h float64, align func(row, col int) string) float64 {
	p.pdf.SetLineWidth(gridLine)
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.SetCellMargin(cellPadding)

	for r, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		p.font(style, 9)
		if row.fill != nil {
			p.pdf.SetFillColor(row.fill[0], row.fill[1], row.fill[2])
		}

		cx := x
		for c, w := range widths {
			txt := ""
			if c < len(row.cells) {
				txt = p.fit(row.cells[c], w)
			}
			p.pdf.SetXY(cx, y)
			p.pdf.CellFormat(w, h, p.tr(txt), "1", 0, align(r, c)+"M", row.fill != nil, 0, "")
			cx += w
		}
		y += h
	}
	return y
}
