package selection

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"
)

func TestLatLonBox_Contains(t *testing.T) {
	box := LatLonBox{LatMin: -10, LatMax: 10, LonMin: 100, LonMax: 120}
	require.True(t, box.Contains(0, 110))
	require.True(t, box.Contains(-10, 100)) // closed interval at the edges
	require.True(t, box.Contains(10, 120))
	require.False(t, box.Contains(11, 110))
	require.False(t, box.Contains(0, 90))
}

func TestLatLonBox_Contains_AntimeridianWrap(t *testing.T) {
	box := LatLonBox{LatMin: -10, LatMax: 10, LonMin: 170, LonMax: -170}
	require.True(t, box.Contains(0, 175))
	require.True(t, box.Contains(0, -175))
	require.True(t, box.Contains(0, 180))
	require.False(t, box.Contains(0, 0))
}

func TestLatLonBox_Evaluate(t *testing.T) {
	box := LatLonBox{LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 10}
	lat := []float64{5, 20, 5}
	lon := []float64{5, 20, 50}
	keep, err := box.Evaluate(lat, lon)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, false}, keep)
}

func TestLatLonBox_ContainsPolygon(t *testing.T) {
	box := LatLonBox{LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 10}
	overlapping := geom.Polygon{[]geom.Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15}, {X: 5, Y: 5}}}
	require.True(t, box.ContainsPolygon(overlapping))

	disjoint := geom.Polygon{[]geom.Point{{X: 50, Y: 50}, {X: 60, Y: 50}, {X: 60, Y: 60}, {X: 50, Y: 60}, {X: 50, Y: 50}}}
	require.False(t, box.ContainsPolygon(disjoint))
}
