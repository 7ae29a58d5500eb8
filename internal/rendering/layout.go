package rendering

// Page geometry in millimetres. All y coordinates are measured from the top edge.
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	marginLeft   = 18.0
	marginRight  = 18.0
	contentWidth = PageWidth - marginLeft - marginRight

	headerBaseline   = 59.0
	sectionTitleGap  = 6.0
	tableGapAfterA   = 8.0
	commentsBaseline = 221.0
	commentLineStep  = 6.0
	statusLineStep   = 7.0

	rowHeight    = 6.0
	minRowHeight = 4.0
	cellPadding  = 1.2
	gridLine     = 0.09

	sigWidth        = 40.0
	sigHeight       = 15.0
	sigSpacing      = 70.0
	sigBottomOffset = 40.0 // distance from page bottom to the signature baseline

	// MaxCommentLines caps the class teacher comment block; extra lines are dropped.
	MaxCommentLines = 4

	subjectColumnBonus = 5.0
)

// academicFractions are the Section A column widths as shares of the content width.
var academicFractions = []float64{0.18, 0.07, 0.07, 0.10, 0.13, 0.13, 0.07, 0.25}

var (
	headerFill = [3]int{0xdd, 0xe2, 0xdf}
	totalFill  = [3]int{0xc7, 0xb9, 0x94}
)

// Offset moves an element by X/Y millimetres; positive Y moves it down the page.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (o Offset) add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// SignatureSlot tunes one signature image and its caption independently.
type SignatureSlot struct {
	Image Offset `json:"image"`
	Label Offset `json:"label"`
}

// Layout holds the tunable signature positions. Everything else on the page is fixed.
type Layout struct {
	Principal    SignatureSlot `json:"principal"`
	ClassTeacher SignatureSlot `json:"class_teacher"`
	Parent       SignatureSlot `json:"parent"`
	// ImageShift moves all three signature images together.
	ImageShift Offset `json:"image_shift"`
	// LabelShift moves all three captions together.
	LabelShift Offset `json:"label_shift"`
}

// DefaultLayout returns the signature tuning used on printed BIGS report cards.
func DefaultLayout() Layout {
	return Layout{
		Principal:    SignatureSlot{Label: Offset{X: 4, Y: 6}},
		ClassTeacher: SignatureSlot{Label: Offset{X: 0, Y: 6}},
		Parent:       SignatureSlot{Image: Offset{X: 5}, Label: Offset{X: 4, Y: 6}},
		ImageShift:   Offset{X: -4.5, Y: -3},
		LabelShift:   Offset{X: 10, Y: -3},
	}
}

// academicColumnWidths returns Section A widths; the subject column gains a few
// millimetres which the remarks column gives up.
func academicColumnWidths() []float64 {
	widths := make([]float64, len(academicFractions))
	total := 0.0
	for i, f := range academicFractions {
		widths[i] = contentWidth * f
	}
	widths[0] += subjectColumnBonus
	for _, w := range widths {
		total += w
	}
	widths[len(widths)-1] += contentWidth - total
	return widths
}

// skillColumnWidths lines the Section B columns up with Section A.
func skillColumnWidths(academic []float64) []float64 {
	rest := 0.0
	for _, w := range academic[4:] {
		rest += w
	}
	return []float64{academic[0] + academic[1] + academic[2], academic[3], rest}
}

// tableRowHeight shrinks rows when both tables would otherwise run into the comments block.
func tableRowHeight(rows int, top float64) float64 {
	if rows <= 0 {
		return rowHeight
	}
	fixed := 2*sectionTitleGap + tableGapAfterA + 4
	available := commentsBaseline - 10 - top - fixed
	h := available / float64(rows)
	if h > rowHeight {
		return rowHeight
	}
	if h < minRowHeight {
		return minRowHeight
	}
	return h
}
