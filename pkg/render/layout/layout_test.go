package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

func el(name string, start, end int, side plasmid.Side) plasmid.Element {
	return plasmid.Element{
		Name:      name,
		Start:     start,
		End:       end,
		Side:      side,
		Color:     "lightblue",
		Connector: plasmid.Pointed,
		Visible:   true,
	}
}

func threeElements() []plasmid.Element {
	return []plasmid.Element{
		el("lac", 100, 300, plasmid.Up),
		el("AmpR", 400, 1200, plasmid.Down),
		el("ori", 1300, 2100, plasmid.Up),
	}
}

func TestBuildExtent(t *testing.T) {
	s, err := Build(threeElements(), plasmid.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Extent{Start: 50, End: 2150}, s.Extent)
	assert.Equal(t, 50.0-OuterMargin, s.Viewport.MinX)
	assert.Equal(t, 2150.0+OuterMargin, s.Viewport.MaxX)
	assert.Equal(t, 3, s.Stats.Elements)
	assert.Equal(t, 2, s.Stats.MaxLevel)
}

func TestBuildExtentUsesEndsToo(t *testing.T) {
	// Start > End is tolerated; extent takes the min and max over both.
	s, err := Build([]plasmid.Element{el("rev", 900, 200, plasmid.Up)}, plasmid.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Extent{Start: 150, End: 950}, s.Extent)
}

func TestBuildRegion(t *testing.T) {
	els := []plasmid.Element{
		el("a", 500, 1000, plasmid.Up),
		el("b", 100, 200, plasmid.Up),
		el("c", 1100, 1300, plasmid.Down),
	}
	cfg := plasmid.DefaultConfig()
	cfg.Region = &plasmid.Region{Start: 900, End: 1200}

	s, err := Build(els, cfg)
	require.NoError(t, err)
	assert.Equal(t, Extent{Start: 900, End: 1200}, s.Extent)
	assert.Equal(t, 2, s.Stats.Elements)
	assert.Equal(t, 1, s.Stats.Filtered)
	assert.Empty(t, s.ElementPrimitives(1))
	assert.NotEmpty(t, s.ElementPrimitives(0))
	assert.NotEmpty(t, s.ElementPrimitives(2))
}

func TestBuildSpanningRegion(t *testing.T) {
	cfg := plasmid.DefaultConfig()
	cfg.Region = &plasmid.Region{Start: 400, End: 600}
	s, err := Build([]plasmid.Element{el("big", 100, 2000, plasmid.Up)}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats.Elements)
}

func TestBuildNothingToRender(t *testing.T) {
	els := threeElements()
	for i := range els {
		els[i].Visible = false
	}
	_, err := Build(els, plasmid.DefaultConfig())
	assert.True(t, errors.Is(err, ErrNothingToRender))

	_, err = Build(nil, plasmid.DefaultConfig())
	assert.ErrorIs(t, err, ErrNothingToRender)

	cfg := plasmid.DefaultConfig()
	cfg.Region = &plasmid.Region{Start: 5000, End: 6000}
	_, err = Build(threeElements(), cfg)
	assert.ErrorIs(t, err, ErrNothingToRender)
}

func TestBuildPrimitiveOrder(t *testing.T) {
	cfg := plasmid.DefaultConfig()
	cfg.ShowSizes = true
	s, err := Build(threeElements(), cfg)
	require.NoError(t, err)

	require.Len(t, s.Primitives, 1+3*4)
	base := s.Primitives[0]
	assert.Equal(t, Line, base.Kind)
	assert.Equal(t, -1, base.Element)
	assert.Equal(t, BaselineWidth, base.Width)
	assert.Equal(t, []Point{{50, 0}, {2150, 0}}, base.Points)

	for i := range 3 {
		group := s.Primitives[1+i*4 : 1+(i+1)*4]
		assert.Equal(t, []Kind{Polygon, Line, Text, Text},
			[]Kind{group[0].Kind, group[1].Kind, group[2].Kind, group[3].Kind})
		for _, p := range group {
			assert.Equal(t, i, p.Element)
		}
	}
}

func TestBuildPointWidening(t *testing.T) {
	s, err := Build([]plasmid.Element{el("site", 1000, 1000, plasmid.Up)}, plasmid.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats.Widened)

	box := s.ElementPrimitives(0)[0]
	xs := []float64{}
	for _, p := range box.Points {
		xs = append(xs, p.X)
	}
	assert.Equal(t, 975.0, minOf(xs))
	assert.Equal(t, 1025.0, maxOf(xs))
	assert.Equal(t, MinWidth, maxOf(xs)-minOf(xs))

	// Extent is computed on data, not on the widened geometry.
	assert.Equal(t, Extent{Start: 950, End: 1050}, s.Extent)
}

func TestBuildGeometryUp(t *testing.T) {
	s, err := Build([]plasmid.Element{el("x", 100, 300, plasmid.Up)}, plasmid.DefaultConfig())
	require.NoError(t, err)
	prims := s.ElementPrimitives(0)

	assert.Equal(t, []Point{{100, 0}, {300, 0}, {300, 80}, {100, 80}}, prims[0].Points)
	assert.Equal(t, "lightblue", prims[0].Fill)
	assert.Equal(t, StrokeColor, prims[0].Stroke)

	conn := prims[1]
	assert.True(t, conn.Arrow)
	assert.Equal(t, []Point{{200, 80}, {200, 310}}, conn.Points)

	label := prims[2]
	assert.Equal(t, []Point{{200, 330}}, label.Points)
	assert.Equal(t, "x", label.Text)
	assert.Equal(t, float64(plasmid.DefaultFontSize), label.Size)
	assert.Zero(t, label.Rotate)
}

func TestBuildGeometryDown(t *testing.T) {
	e := el("x", 100, 300, plasmid.Down)
	e.Connector = plasmid.Flat
	cfg := plasmid.DefaultConfig()
	cfg.ShowSizes = true
	cfg.FontSize = 8

	s, err := Build([]plasmid.Element{e}, cfg)
	require.NoError(t, err)
	prims := s.ElementPrimitives(0)

	assert.Equal(t, []Point{{100, -80}, {300, -80}, {300, 0}, {100, 0}}, prims[0].Points)
	assert.False(t, prims[1].Arrow)
	assert.Equal(t, []Point{{200, -80}, {200, -310}}, prims[1].Points)
	assert.Equal(t, []Point{{200, -330}}, prims[2].Points)

	size := prims[3]
	assert.Equal(t, "201 bp", size.Text)
	assert.Equal(t, SizeColor, size.Color)
	assert.Equal(t, 6.0, size.Size)
	assert.Equal(t, []Point{{200, -40 - 40 - 30}}, size.Points)
}

func TestBuildArrowShapes(t *testing.T) {
	fwd := el("p", 100, 300, plasmid.Up)
	fwd.Shape = plasmid.Arrow
	fwd.Strand = plasmid.Forward
	rev := fwd
	rev.Strand = plasmid.Reverse
	short := el("s", 100, 200, plasmid.Up)
	short.Shape = plasmid.Arrow

	s, err := Build([]plasmid.Element{fwd, rev, short}, plasmid.DefaultConfig())
	require.NoError(t, err)

	// width 200: point capped at 40
	assert.Equal(t, []Point{{100, 0}, {260, 0}, {300, 40}, {260, 80}, {100, 80}},
		s.ElementPrimitives(0)[0].Points)
	// reverse mirrors forward, tip at start
	assert.Equal(t, []Point{{300, 0}, {140, 0}, {100, 40}, {140, 80}, {300, 80}},
		s.ElementPrimitives(1)[0].Points)
	// width 100: point is 30
	assert.Equal(t, []Point{{100, 0}, {170, 0}, {200, 40}, {170, 80}, {100, 80}},
		s.ElementPrimitives(2)[0].Points)
}

func TestBuildStagger(t *testing.T) {
	els := []plasmid.Element{
		el("d", 700, 800, plasmid.Up),
		el("a", 100, 200, plasmid.Up),
		el("c", 500, 600, plasmid.Up),
		el("b", 300, 400, plasmid.Up),
	}
	s, err := Build(els, plasmid.DefaultConfig())
	require.NoError(t, err)

	labelY := func(i int) float64 { return s.ElementPrimitives(i)[2].Points[0].Y }
	// rank by start: a(1)=0, b(3)=1, c(2)=2, d(0)=0
	assert.InDelta(t, BoxHeight+TextDistance, labelY(1), 1e-9)
	assert.InDelta(t, BoxHeight+TextDistance*1.35, labelY(3), 1e-9)
	assert.InDelta(t, BoxHeight+TextDistance*1.7, labelY(2), 1e-9)
	assert.Equal(t, labelY(1), labelY(0), "rank 3 wraps to level 0")
	assert.Equal(t, 2, s.Stats.MaxLevel)

	half := BoxHeight + TextDistance*1.7 + LabelPad
	assert.InDelta(t, half, s.Viewport.MaxY, 1e-9)
	assert.InDelta(t, -half, s.Viewport.MinY, 1e-9)
}

func TestBuildStaggerStableForEqualStarts(t *testing.T) {
	els := []plasmid.Element{
		el("a", 100, 200, plasmid.Up),
		el("b", 100, 300, plasmid.Up),
	}
	s, err := Build(els, plasmid.DefaultConfig())
	require.NoError(t, err)
	assert.Less(t, s.ElementPrimitives(0)[2].Points[0].Y, s.ElementPrimitives(1)[2].Points[0].Y)
}

func TestStaggerExtremeStarts(t *testing.T) {
	els := []plasmid.Element{
		{Start: math.MaxInt},
		{Start: math.MinInt},
		{Start: 0},
	}
	levels := stagger(els, []int{0, 1, 2}, plasmid.Horizontal)
	assert.Equal(t, map[int]int{1: 0, 2: 1, 0: 2}, levels)
}

func TestBuildVerticalNoStagger(t *testing.T) {
	cfg := plasmid.DefaultConfig()
	cfg.Orientation = plasmid.Vertical
	s, err := Build(threeElements(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Stats.MaxLevel)
	for _, l := range s.Labels() {
		assert.Equal(t, 90.0, l.Rotate)
		assert.Equal(t, BoxHeight+TextDistance, abs(l.Points[0].Y))
	}
	assert.Equal(t, MinHalfHeight, s.Viewport.MaxY, "floor applies")
}

func TestBuildResolvesColors(t *testing.T) {
	e := el("x", 1, 10, plasmid.Up)
	e.Color = "darkorchid3"
	f := el("y", 20, 30, plasmid.Up)
	f.Color = "not-a-color"

	s, err := Build([]plasmid.Element{e, f}, plasmid.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "darkorchid", s.ElementPrimitives(0)[0].Fill)
	assert.Equal(t, "black", s.ElementPrimitives(1)[0].Fill)
}

func TestBuildClampsFontSize(t *testing.T) {
	cfg := plasmid.DefaultConfig()
	cfg.FontSize = 99
	s, err := Build(threeElements(), cfg)
	require.NoError(t, err)
	assert.Equal(t, float64(plasmid.MaxFontSize), s.Labels()[0].Size)
}

func TestBuildDeterministic(t *testing.T) {
	a, err := Build(threeElements(), plasmid.DefaultConfig())
	require.NoError(t, err)
	b, err := Build(threeElements(), plasmid.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{Line, Polygon, Text} {
		b, err := k.MarshalText()
		require.NoError(t, err)
		var got Kind
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, k, got)
	}
	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("circle")))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs {
		m = min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs {
		m = max(m, x)
	}
	return m
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
