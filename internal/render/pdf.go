package render

import (
	"io"
	"math"

	"github.com/jung-kurt/gofpdf/v2"
)

// maximum angular step between polygon vertices on the rim
const arcStep = math.Pi / 90

// WritePDF paints the scene on a single square page, one point per pixel.
func WritePDF(w io.Writer, s Scene) error {
	size := s.Config.Size
	r := s.Config.Radius()
	cx, cy := size/2, size/2

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: size, Ht: size},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if s.Empty() {
		pdf.SetDrawColor(200, 200, 200)
		pdf.Circle(cx, cy, r, "D")
	}
	for _, sl := range s.Slices {
		red, green, blue := sl.Color.RGB()
		pdf.SetFillColor(int(red), int(green), int(blue))
		pdf.Polygon(slicePoints(cx, cy, r, sl.Start+s.Rotation, sl.End+s.Rotation), "F")
	}

	pdf.SetTextColor(20, 20, 20)
	cos, sin := math.Cos(s.Rotation), math.Sin(s.Rotation)
	for _, sl := range s.Slices {
		pdf.SetFont("Helvetica", "B", sl.FontSize)
		ax := cx + sl.LabelX*cos - sl.LabelY*sin
		ay := cy + sl.LabelX*sin + sl.LabelY*cos
		text := tr(sl.Label)
		width := pdf.GetStringWidth(text)

		pdf.TransformBegin()
		// gofpdf turns counter-clockwise; canvas angles run clockwise
		pdf.TransformRotate(-deg(s.Rotation+sl.LabelRotation()), ax, ay)
		pdf.Text(ax-width, ay+sl.FontSize*0.35, text)
		pdf.TransformEnd()
	}

	pdf.SetFillColor(51, 51, 51)
	pdf.Polygon([]gofpdf.PointType{
		{X: cx - 12, Y: 0},
		{X: cx + 12, Y: 0},
		{X: cx, Y: 24},
	}, "F")

	return pdf.Output(w)
}

func slicePoints(cx, cy, r, start, end float64) []gofpdf.PointType {
	steps := int(math.Ceil((end - start) / arcStep))
	if steps < 1 {
		steps = 1
	}
	pts := make([]gofpdf.PointType, 0, steps+2)
	pts = append(pts, gofpdf.PointType{X: cx, Y: cy})
	for k := 0; k <= steps; k++ {
		a := start + (end-start)*float64(k)/float64(steps)
		pts = append(pts, gofpdf.PointType{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return pts
}
