// Package render produces the textual and JSON-style disk-image dumps:
// a sector x track size map, a human-readable per-sector dump, and a
// JSON-style dump of the same data.
package render

import (
	"bytes"
	"fmt"
	"io"

	"floppy8/registry"
)

// sizeGlyph maps a stored size to the sector-map character; '?' covers
// any size registry.ValidSize would reject, which Store already filters
// out, but the renderer stays defensive rather than panicking on it.
func sizeGlyph(size int) byte {
	switch size {
	case 128:
		return '1'
	case 256:
		return '2'
	case 512:
		return '3'
	case 1024:
		return '4'
	default:
		return '?'
	}
}

// Map writes the per-sector x per-track size map: one row per sector,
// within [sectorMin, sectorMax], one column per track, '.' for a missing
// sector. sectorMin/sectorMax come from registry.Bounds, so a row can be
// all '.': rows the clamp to sector 1 adds below the lowest present
// sector, and any sector in the range that no track has.
func Map(w io.Writer, reg *registry.Registry) {
	sectorMin, sectorMax, ok := reg.Bounds()
	if !ok {
		fmt.Fprintln(w, "(no sectors present)")
		return
	}
	for s := sectorMin; s <= sectorMax; s++ {
		row := make([]byte, 0, registry.Tracks)
		for t := 0; t < registry.Tracks; t++ {
			sec, ok := reg.Get(t, s)
			if !ok {
				row = append(row, '.')
				continue
			}
			row = append(row, sizeGlyph(sec.Size))
		}
		fmt.Fprintf(w, "%02d: %s\n", s, row)
	}
}

// uniformFill reports the single repeated byte value in data, if any.
func uniformFill(data []byte) (byte, bool) {
	if len(data) == 0 {
		return 0, false
	}
	for _, b := range data[1:] {
		if b != data[0] {
			return 0, false
		}
	}
	return data[0], true
}

// Human writes a human-readable dump of every sector in [sectorMin,
// sectorMax] across all tracks, in row-major (track, sector) order.
// Uniform-fill sectors are summarized; others get a 32-byte-per-row
// hex+ASCII dump.
func Human(w io.Writer, reg *registry.Registry) {
	sectorMin, sectorMax, ok := reg.Bounds()
	if !ok {
		return
	}
	for t := 0; t < registry.Tracks; t++ {
		for s := sectorMin; s <= sectorMax; s++ {
			sec, present := reg.Get(t, s)
			if !present {
				fmt.Fprintf(w, "Track:%02d Sector:%02d Status:MISSING\n", t, s)
				continue
			}
			fmt.Fprintf(w, "Track:%02d Sector:%02d Size:%d ", t, s, sec.Size)
			if fill, ok := uniformFill(sec.Data); ok {
				if fill == 0 {
					fmt.Fprintln(w, "Status:ZERO")
				} else {
					fmt.Fprintf(w, "Status:FILL=0x%02X\n", fill)
				}
				continue
			}
			fmt.Fprintln(w, "Status:DATA")
			dumpHex(w, sec.Data)
		}
	}
}

func dumpHex(w io.Writer, data []byte) {
	for off := 0; off < len(data); off += 32 {
		end := off + 32
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]
		fmt.Fprintf(w, "  %04X: ", off)
		for _, b := range row {
			fmt.Fprintf(w, "%02X ", b)
		}
		for pad := len(row); pad < 32; pad++ {
			fmt.Fprint(w, "   ")
		}
		fmt.Fprint(w, " ")
		for _, b := range row {
			if b >= 0x20 && b < 0x7F {
				w.Write([]byte{b})
			} else {
				w.Write([]byte{'.'})
			}
		}
		fmt.Fprintln(w)
	}
}

// JSON writes a minimal, hand-rolled JSON-style dump (no external
// dependency -- every field here is already a plain integer or byte
// array, so there's nothing an encoder buys beyond what Fprintf already
// does). One object is emitted per (track, sector) in [sectorMin,
// sectorMax] x all tracks, including missing slots, which get
// "size":0,"data":[] rather than being omitted.
func JSON(w io.Writer, reg *registry.Registry) {
	sectorMin, sectorMax, ok := reg.Bounds()
	if !ok {
		fmt.Fprintln(w, "[]")
		return
	}
	fmt.Fprintln(w, "[")
	first := true
	for t := 0; t < registry.Tracks; t++ {
		for s := sectorMin; s <= sectorMax; s++ {
			if !first {
				fmt.Fprintln(w, ",")
			}
			first = false
			sec, present := reg.Get(t, s)
			if !present {
				fmt.Fprintf(w, `  {"track":%d,"sector":%d,"size":0,"data":[]}`, t, s)
				continue
			}
			var buf bytes.Buffer
			for i, b := range sec.Data {
				if i > 0 {
					buf.WriteByte(',')
				}
				fmt.Fprintf(&buf, "%d", b)
			}
			fmt.Fprintf(w, `  {"track":%d,"sector":%d,"size":%d,"data":[%s]}`, t, s, sec.Size, buf.String())
		}
	}
	fmt.Fprintln(w, "\n]")
}
