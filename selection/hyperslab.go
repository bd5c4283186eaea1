// Package selection implements spec §4.8's hyperslab/coordinate/lat-lon
// selectors and §4.6's grid recognizer, parsing pagoda's
// "name[,min[,max[,stride]]]" CLI grammar into typed selector values.
package selection

import (
	"strconv"
	"strings"

	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/pgerr"
)

// IndexHyperslab selects dimension elements by 0-based index range and
// stride, with negative indices counting from the end (spec §4.8).
type IndexHyperslab struct {
	DimName       string
	Min, Max      int64 // inclusive; both may be negative
	Stride        int64 // default 1
	HasMin, HasMax bool
}

// ParseIndexHyperslab parses the "name[,min[,max[,stride]]]" grammar (spec
// §4.8, also pgsub's -d flag).
func ParseIndexHyperslab(s string) (IndexHyperslab, error) {
	parts := strings.Split(s, ",")
	h := IndexHyperslab{DimName: parts[0], Stride: 1}
	if h.DimName == "" {
		return h, pgerr.Command("parse_hyperslab", "empty dimension name in %q", s)
	}
	if len(parts) > 1 && parts[1] != "" {
		v, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return h, pgerr.Command("parse_hyperslab", "bad min %q in %q", parts[1], s)
		}
		h.Min, h.HasMin = v, true
	}
	if len(parts) > 2 && parts[2] != "" {
		v, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return h, pgerr.Command("parse_hyperslab", "bad max %q in %q", parts[2], s)
		}
		h.Max, h.HasMax = v, true
	}
	if len(parts) > 3 && parts[3] != "" {
		v, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return h, pgerr.Command("parse_hyperslab", "bad stride %q in %q", parts[3], s)
		}
		h.Stride = v
	}
	if len(parts) > 4 {
		return h, pgerr.Command("parse_hyperslab", "too many fields in %q", s)
	}
	if h.Stride == 0 {
		return h, pgerr.Command("parse_hyperslab", "stride must not be 0 in %q", s)
	}
	return h, nil
}

func normalizeIndex(i, size int64) int64 {
	if i < 0 {
		return size + i
	}
	return i
}

// Evaluate implements mask.Selector: index i is kept iff it falls in
// [min,max] (after negative-index normalization) and (i-min)%stride==0
// for positive stride, or the mirror condition for negative stride (spec
// §4.8's "stride may be negative to select in reverse").
func (h IndexHyperslab) Evaluate(size int64) ([]bool, error) {
	min, max := int64(0), size-1
	if h.HasMin {
		min = normalizeIndex(h.Min, size)
	}
	if h.HasMax {
		max = normalizeIndex(h.Max, size)
	}
	if min < 0 || max >= size || min > max {
		return nil, pgerr.Range("hyperslab.evaluate", "dimension %s: range [%d,%d] empty or out of bounds for size %d", h.DimName, min, max, size)
	}
	keep := make([]bool, size)
	if h.Stride > 0 {
		for i := min; i <= max; i += h.Stride {
			keep[i] = true
		}
	} else {
		for i := max; i >= min; i += h.Stride {
			keep[i] = true
		}
	}
	return keep, nil
}

// CoordHyperslab selects by coordinate-variable value range instead of
// index (spec §4.8): values in [Min,Max] of the named coordinate are
// kept. Requires the coordinate's 1-D values for the target dimension.
type CoordHyperslab struct {
	DimName  string
	Min, Max float64
	Coord    []float64 // one entry per index in the target dimension
}

func (h CoordHyperslab) Evaluate(size int64) ([]bool, error) {
	if int64(len(h.Coord)) != size {
		return nil, pgerr.DimensionMismatch("coord_hyperslab.evaluate", "coordinate has %d values, dimension %s has size %d", len(h.Coord), h.DimName, size)
	}
	keep := make([]bool, size)
	for i, v := range h.Coord {
		keep[i] = v >= h.Min && v <= h.Max
	}
	return keep, nil
}

// LookupDimSize is a small helper so callers building a CoordHyperslab can
// validate against a dataset.Dimension without selection importing mask.
func LookupDimSize(d *dataset.Dimension) int64 { return d.Size }
