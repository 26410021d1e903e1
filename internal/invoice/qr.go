package invoice

import (
	"fmt"
	"strings"
)

// The decorative QR-like block is a content-keyed deterministic visual, not
// a scannable code. The seed is a djb2 rolling hash of the content string;
// each cell combines one seed bit with checkerboard parity and the seed then
// advances through a fixed linear-congruential step. Identical input yields
// an identical pattern.
const (
	qrModules = 26
	qrCell    = 6

	hashInit = 5381
	lcgMul   = 1664525
	lcgInc   = 1013904223
)

// hashString is djb2: h = h*33 + ch over each byte, unsigned 32-bit.
func hashString(data string) uint32 {
	var hash uint32 = hashInit
	for i := 0; i < len(data); i++ {
		hash = ((hash << 5) + hash) + uint32(data[i])
	}
	return hash
}

// qrSVG renders the pattern as a self-contained SVG square of
// modules*cell pixels.
func qrSVG(data string, modules, cell int) string {
	width := modules * cell
	var pieces strings.Builder
	state := hashString(data)
	for y := 0; y < modules; y++ {
		for x := 0; x < modules; x++ {
			bit := (state >> uint((x+y)%32)) & 1
			parity := uint32((x + y) % 2)
			if bit^parity != 0 {
				fmt.Fprintf(&pieces, `<rect x="%d" y="%d" width="%d" height="%d" />`, x*cell, y*cell, cell, cell)
			}
			state = state*lcgMul + lcgInc
		}
	}
	return fmt.Sprintf(
		`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg"><rect width="100%%" height="100%%" fill="#fff"/><g fill="#0b1220">%s</g></svg>`,
		width, width, width, width, pieces.String(),
	)
}
