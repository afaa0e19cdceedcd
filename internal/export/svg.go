package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/molsim/internal/sim"
)

const (
	background = "#0a0a0a"
	wallColor  = "#888899"
	leadColor  = "#00ccff"
	otherColor = "#ffffff"
)

// SnapshotToSVG draws the container and every atom of s. scale is the
// number of SVG units per particle diameter. Atoms of one molecule are
// joined by bonds drawn from the first atom.
func SnapshotToSVG(s sim.Snapshot, scale float64) string {
	top := s.Height
	for _, a := range s.Atoms {
		top = math.Max(top, a.Y+1)
	}

	width := s.Width * scale
	height := top * scale
	toSVG := func(x, y float64) (float64, float64) {
		return x * scale, height - y*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	_, lidY := toSVG(0, s.Height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="2" d="M0,%.1f L0,%.1f L%.1f,%.1f L%.1f,%.1f"/>
`, wallColor, lidY, height, width, height, width, lidY)
	if !s.Exploded {
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, lidY, width, lidY, wallColor)
	}

	per := s.AtomsPerMolecule
	if per < 1 {
		per = 1
	}

	if per > 1 {
		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="%.1f">
`, otherColor, scale*0.1))
		for m := 0; m+per <= len(s.Atoms); m += per {
			x1, y1 := toSVG(s.Atoms[m].X, s.Atoms[m].Y)
			for k := 1; k < per; k++ {
				x2, y2 := toSVG(s.Atoms[m+k].X, s.Atoms[m+k].Y)
				fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x1, y1, x2, y2)
			}
		}
		sb.WriteString("</g>\n")
	}

	radius := scale * 0.5
	for i, a := range s.Atoms {
		color := leadColor
		if i%per != 0 {
			color = otherColor
		}
		cx, cy := toSVG(a.X, a.Y)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, radius, color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws values as a polyline scaled to fill width by height.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
