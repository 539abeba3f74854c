package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
)

func deg(rad float64) float64 { return rad * 180 / math.Pi }

// WriteSVG paints the scene. Slices and labels sit in a group with id
// "rotor" so a browser can turn the wheel between full redraws.
func WriteSVG(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)
	size := s.Config.Size
	r := s.Config.Radius()

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`, size, size, size, size)
	fmt.Fprintf(bw, `<g id="rotor" transform="translate(%g %g) rotate(%.4f)">`, r, r, deg(s.Rotation))

	if s.Empty() {
		fmt.Fprintf(bw, `<circle r="%g" fill="#eee" stroke="#ccc"/>`, r)
	}
	for _, sl := range s.Slices {
		if len(s.Slices) == 1 {
			fmt.Fprintf(bw, `<circle r="%g" fill="%s"/>`, r, sl.Color)
			continue
		}
		large := 0
		if sl.End-sl.Start > math.Pi {
			large = 1
		}
		fmt.Fprintf(bw, `<path data-index="%d" d="M0 0 L%.4f %.4f A%g %g 0 %d 1 %.4f %.4f Z" fill="%s"/>`,
			sl.Index,
			r*math.Cos(sl.Start), r*math.Sin(sl.Start),
			r, r, large,
			r*math.Cos(sl.End), r*math.Sin(sl.End),
			sl.Color)
	}
	for _, sl := range s.Slices {
		fmt.Fprintf(bw, `<text transform="translate(%.4f %.4f) rotate(%.4f)" text-anchor="end" dominant-baseline="middle" font-family="Arial" font-size="%g" fill="#fff" stroke="#000" stroke-width="3" paint-order="stroke">%s</text>`,
			sl.LabelX, sl.LabelY, deg(sl.LabelRotation()), sl.FontSize, html.EscapeString(sl.Label))
	}
	bw.WriteString(`</g>`)
	// pointer at the top, PointerAngle on screen
	fmt.Fprintf(bw, `<polygon id="pointer" points="%g,0 %g,0 %g,24" fill="#333"/>`, r-12, r+12, r)
	bw.WriteString(`</svg>`)
	return bw.Flush()
}
