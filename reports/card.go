package reports

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/trezcool/gradebook/core/gradebook"
)

const (
	cardWidth   = 760
	cardPadding = 24.0
	headerH     = 96.0
	rowH        = 26.0
)

var (
	colorBg     = color.NRGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	colorAccent = color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	colorText   = color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	colorMuted  = color.NRGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}
	colorStripe = color.NRGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
	colorBar    = color.NRGBA{R: 0x93, G: 0xc5, B: 0xfd, A: 0xff}

	// x offsets of the assignment table columns
	colName   = cardPadding
	colType   = 300.0
	colScore  = 400.0
	colWeight = 520.0
	colPct    = 610.0
)

// RenderCard draws the report as an image: a header with the student's final percentage and
// GPA, then one line per assignment.
func RenderCard(r StudentReport) image.Image {
	height := int(headerH + 2*rowH + float64(len(r.Rows))*rowH + 2*cardPadding)
	dc := gg.NewContext(cardWidth, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorBg)
	dc.Clear()

	// header
	dc.SetColor(colorAccent)
	dc.DrawRectangle(0, 0, cardWidth, headerH)
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawString("Student Grade Report", cardPadding, 30)
	dc.DrawString(fmt.Sprintf("%s (ID: %s)", r.Student.FullName(), r.Student.ID), cardPadding, 54)
	dc.DrawString(fmt.Sprintf("Final %%: %.2f    GPA: %.2f", r.FinalPercent, r.GPA), cardPadding, 78)

	// table header
	y := headerH + rowH
	dc.SetColor(colorMuted)
	dc.DrawString("Assignment", colName, y)
	dc.DrawString("Type", colType, y)
	dc.DrawString("Score", colScore, y)
	dc.DrawString("Weight", colWeight, y)
	dc.DrawString("Percent", colPct, y)

	for i, row := range r.Rows {
		top := y + float64(i)*rowH + 8
		if i%2 == 0 {
			dc.SetColor(colorStripe)
			dc.DrawRectangle(cardPadding/2, top, cardWidth-cardPadding, rowH)
			dc.Fill()
		}

		// percent bar
		barW := (cardWidth - cardPadding - colPct) * clamp(row.Percent/100, 0, 1)
		dc.SetColor(colorBar)
		dc.DrawRectangle(colPct, top+4, barW, rowH-8)
		dc.Fill()

		baseline := top + rowH - 8
		dc.SetColor(colorText)
		dc.DrawString(truncate(row.AssignmentName, 38), colName, baseline)
		dc.DrawString(string(row.Type), colType, baseline)
		score := "-"
		if row.Graded {
			score = fmt.Sprintf("%.2f", row.Score)
		}
		dc.DrawString(fmt.Sprintf("%s / %.2f", score, row.MaxPoints), colScore, baseline)
		dc.DrawString(fmt.Sprintf("%.2f", row.Weight), colWeight, baseline)
		dc.DrawString(fmt.Sprintf("%.1f%%", row.Percent), colPct+4, baseline)
	}
	return dc.Image()
}

// WritePNG encodes the report card as PNG.
func WritePNG(w io.Writer, r StudentReport) error {
	return gg.NewContextForImage(RenderCard(r)).EncodePNG(w)
}

// ExportStudentPNG writes the student's report card to path, creating parent directories.
func ExportStudentPNG(gb *gradebook.Gradebook, studentID, path string) error {
	r, err := Build(gb, studentID)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error { return WritePNG(w, r) })
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}
