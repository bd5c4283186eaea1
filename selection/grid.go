package selection

import (
	"strings"

	"github.com/pagoda-run/pagoda/darray"
	"github.com/pagoda-run/pagoda/dataset"
	"github.com/pagoda-run/pagoda/dtype"
	"github.com/pagoda-run/pagoda/pgerr"
	"github.com/pagoda-run/pagoda/proc"
)

// Grid implements dataset.Grid for the three grid families spec §4.6 asks
// the recognizer to identify: a geodesic (unstructured mesh) grid with
// explicit cell/corner/edge dimensions and a cell-corners/cell-edges
// connectivity variable; a regular lat×lon grid with separate 1-D lat and
// lon coordinate variables; and (SPEC_FULL.md §5 supplement) a
// curvilinear grid whose lat/lon coordinates are themselves 2-D.
type Grid struct {
	kind Kind

	cellDim, cornerDim, edgeDim string

	cellLat, cellLon     *dataset.Variable
	cornerLat, cornerLon *dataset.Variable
	edgeLat, edgeLon     *dataset.Variable
	cellCorners          *dataset.Variable // connectivity: [cell, maxCorners] -> corner index
	cellEdges            *dataset.Variable

	ctx  *proc.Context
	rank int
	ds   dataset.Dataset
}

type Kind int

const (
	KindUnknown Kind = iota
	KindGeodesic
	KindRegularLatLon
	KindCurvilinear
)

// Recognize inspects ds's variables/attributes for one of the three
// supported grid conventions (spec §4.6), returning (nil, false) if none
// match — callers then fall back to treating the dataset as gridless.
func Recognize(ctx *proc.Context, rank int, ds dataset.Dataset) (*Grid, bool) {
	if g, ok := recognizeGeodesic(ctx, rank, ds); ok {
		return g, true
	}
	if g, ok := recognizeRegularLatLon(ctx, rank, ds); ok {
		return g, true
	}
	if g, ok := recognizeCurvilinear(ctx, rank, ds); ok {
		return g, true
	}
	return nil, false
}

func findVarByStandardName(ds dataset.Dataset, standardName string) (*dataset.Variable, bool) {
	for _, v := range ds.GetVars() {
		if a, ok := v.GetAtt("standard_name", false); ok {
			if s, ok := attrString(a); ok && s == standardName {
				return v, true
			}
		}
	}
	return nil, false
}

func attrString(a *dataset.Attribute) (string, bool) {
	switch b := a.Values.(type) {
	case *dtype.StringBuffer:
		if b.Len() == 0 {
			return "", false
		}
		return b.Raw()[0], true
	case *dtype.CharBuffer:
		return string(b.Raw()), true
	default:
		return "", false
	}
}

// recognizeGeodesic looks for a UGRID-ish convention: a "cell_corners" connectivity variable whose 2nd dimension
// indexes into a corner dimension, plus cell/corner lat & lon variables.
func recognizeGeodesic(ctx *proc.Context, rank int, ds dataset.Dataset) (*Grid, bool) {
	cc, ok := ds.GetVar("cell_corners", true)
	if !ok {
		return nil, false
	}
	if cc.NDim() != 2 {
		return nil, false
	}
	cellDim := cc.Dims[0].Name
	cornerDim := cc.Dims[1].Name
	cellLat, ok1 := findVarByStandardName(ds, "latitude")
	cellLon, ok2 := findVarByStandardName(ds, "longitude")
	if !ok1 || !ok2 {
		return nil, false
	}
	g := &Grid{
		kind: KindGeodesic, cellDim: cellDim, cornerDim: cornerDim,
		cellLat: cellLat, cellLon: cellLon, cellCorners: cc,
		ctx: ctx, rank: rank, ds: ds,
	}
	if clat, ok := ds.GetVar(cellDim+"_corner_lat", true); ok {
		g.cornerLat = clat
	}
	if clon, ok := ds.GetVar(cellDim+"_corner_lon", true); ok {
		g.cornerLon = clon
	}
	if ce, ok := ds.GetVar("cell_edges", true); ok {
		g.cellEdges = ce
		g.edgeDim = ce.Dims[1].Name
	}
	return g, true
}

func recognizeRegularLatLon(ctx *proc.Context, rank int, ds dataset.Dataset) (*Grid, bool) {
	latV, ok1 := ds.GetVar("lat", true)
	lonV, ok2 := ds.GetVar("lon", true)
	if !ok1 || !ok2 {
		latV, ok1 = findVarByStandardName(ds, "latitude")
		lonV, ok2 = findVarByStandardName(ds, "longitude")
	}
	if !ok1 || !ok2 || latV.NDim() != 1 || lonV.NDim() != 1 {
		return nil, false
	}
	return &Grid{
		kind: KindRegularLatLon, cellDim: "cell",
		cellLat: latV, cellLon: lonV,
		ctx: ctx, rank: rank, ds: ds,
	}, true
}

// recognizeCurvilinear is SPEC_FULL.md §5's supplement for a grid whose
// lat/lon coordinates vary over two spatial dimensions (common for
// regional CTM output on a rotated or Lambert grid) rather than being
// separable 1-D axes.
func recognizeCurvilinear(ctx *proc.Context, rank int, ds dataset.Dataset) (*Grid, bool) {
	latV, ok1 := findVarByStandardName(ds, "latitude")
	lonV, ok2 := findVarByStandardName(ds, "longitude")
	if !ok1 || !ok2 || latV.NDim() != 2 || lonV.NDim() != 2 {
		return nil, false
	}
	return &Grid{
		kind: KindCurvilinear, cellDim: strings.Join([]string{latV.Dims[0].Name, latV.Dims[1].Name}, ","),
		cellLat: latV, cellLon: lonV,
		ctx: ctx, rank: rank, ds: ds,
	}, true
}

func (g *Grid) Kind() Kind             { return g.kind }
func (g *Grid) CellDimName() string    { return g.cellDim }
func (g *Grid) CornerDimName() string  { return g.cornerDim }
func (g *Grid) EdgeDimName() string    { return g.edgeDim }

func (g *Grid) GetCellLat() (*darray.Array, error) { return g.cellLat.Read(g.ctx) }
func (g *Grid) GetCellLon() (*darray.Array, error) { return g.cellLon.Read(g.ctx) }

func (g *Grid) GetCornerLat() (*darray.Array, error) {
	if g.cornerLat == nil {
		return nil, pgerr.NotImplemented("grid.get_corner_lat", "dataset has no corner latitude variable")
	}
	return g.cornerLat.Read(g.ctx)
}

func (g *Grid) GetCornerLon() (*darray.Array, error) {
	if g.cornerLon == nil {
		return nil, pgerr.NotImplemented("grid.get_corner_lon", "dataset has no corner longitude variable")
	}
	return g.cornerLon.Read(g.ctx)
}

func (g *Grid) GetEdgeLat() (*darray.Array, error) {
	return nil, pgerr.NotImplemented("grid.get_edge_lat", "edge coordinates not modeled for this grid")
}

func (g *Grid) GetEdgeLon() (*darray.Array, error) {
	return nil, pgerr.NotImplemented("grid.get_edge_lon", "edge coordinates not modeled for this grid")
}

func (g *Grid) GetCellCorners() (*darray.Array, error) {
	if g.cellCorners == nil {
		return nil, pgerr.NotImplemented("grid.get_cell_corners", "dataset has no cell-corners connectivity")
	}
	return g.cellCorners.Read(g.ctx)
}

func (g *Grid) GetCellEdges() (*darray.Array, error) {
	if g.cellEdges == nil {
		return nil, pgerr.NotImplemented("grid.get_cell_edges", "dataset has no cell-edges connectivity")
	}
	return g.cellEdges.Read(g.ctx)
}

func (g *Grid) IsCoordinate(v *dataset.Variable) bool {
	return v == g.cellLat || v == g.cellLon || v == g.cornerLat || v == g.cornerLon
}

func (g *Grid) IsTopology(v *dataset.Variable) bool {
	return v == g.cellCorners || v == g.cellEdges
}

// ConnectedCorners implements mask's TopologyMasks connect callback for a
// geodesic grid: given the flat cell subscripts kept by a cell mask,
// returns the (deduplicated) corner subscripts those cells reference
// (spec §4.3a).
func (g *Grid) ConnectedCorners(rank int, kept []int64) ([]int64, error) {
	if g.cellCorners == nil {
		return nil, pgerr.NotImplemented("grid.connected_corners", "dataset has no cell-corners connectivity")
	}
	conn, err := g.cellCorners.Read(g.ctx)
	if err != nil {
		return nil, err
	}
	nCorners := conn.GetShape()[1]
	seen := make(map[int64]bool)
	var out []int64
	for _, cell := range kept {
		for c := int64(0); c < nCorners; c++ {
			buf, err := conn.Get([]int64{cell, c}, []int64{cell, c})
			if err != nil {
				return nil, err
			}
			nb, ok := buf.(dtype.NumericBuffer)
			if !ok {
				continue
			}
			idx := int64(nb.GetF64(0))
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	return out, nil
}
