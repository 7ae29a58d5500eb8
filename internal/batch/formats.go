package batch

import (
	"fmt"
	"strings"
)

// MIME types of everything a batch can produce.
const (
	MIMEPDF  = "application/pdf"
	MIMEJPEG = "image/jpeg"
	MIMEZip  = "application/zip"
)

// Format names accepted by ParseFormats.
const (
	FormatPDF   = "PDF"
	FormatImage = "IMAGE"
)

// FormatSet selects which artifacts are produced per student.
type FormatSet struct {
	PDF   bool
	Image bool
}

// AllFormats requests both the PDF and the page image.
var AllFormats = FormatSet{PDF: true, Image: true}

// Empty reports whether no format is selected.
func (f FormatSet) Empty() bool {
	return !f.PDF && !f.Image
}

func (f FormatSet) String() string {
	var names []string
	if f.PDF {
		names = append(names, FormatPDF)
	}
	if f.Image {
		names = append(names, FormatImage)
	}
	return strings.Join(names, ",")
}

// ParseFormats parses names such as "PDF" or "pdf,image". Unknown names are an error.
func ParseFormats(names []string) (FormatSet, error) {
	var set FormatSet
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			switch strings.ToUpper(strings.TrimSpace(name)) {
			case "":
			case FormatPDF:
				set.PDF = true
			case FormatImage, "JPG", "JPEG":
				set.Image = true
			default:
				return FormatSet{}, fmt.Errorf("unknown output format %q (expected %s or %s)", name, FormatPDF, FormatImage)
			}
		}
	}
	return set, nil
}
