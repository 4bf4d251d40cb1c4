package charts

import (
	"bytes"
	"errors"
	"image/gif"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalsouth/internal/dataset"
)

func sampleDataset() *dataset.Dataset {
	d := &dataset.Dataset{Colors: dataset.DefaultColors}
	shares := []float64{30, 32, 35, 38, 40}
	for i, year := range []int{2000, 2005, 2010, 2015, 2020} {
		d.Records = append(d.Records, dataset.Record{
			Year:  year,
			Share: shares[i],
			Contribution: map[dataset.Region]float64{
				dataset.Asia:         20 + float64(i)*2,
				dataset.Africa:       4,
				dataset.LatinAmerica: 5,
				dataset.Oceania:      1,
			},
		})
	}
	return d
}

func TestShareLine_PNG(t *testing.T) {
	p, err := ShareLine(sampleDataset(), 2010)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, p.X.Min)
	assert.Equal(t, 2020.0, p.X.Max)
	assert.Equal(t, 25.0, p.Y.Min)
	assert.Equal(t, 45.0, p.Y.Max)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p, LineSize))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestShareLine_SkipsMissing(t *testing.T) {
	d := sampleDataset()
	d.Records[1].Share = math.NaN()

	p, err := ShareLine(d, 2020)
	require.NoError(t, err)
	require.NoError(t, WritePNG(&bytes.Buffer{}, p, LineSize))
}

func TestRegionBars(t *testing.T) {
	p, err := RegionBars(sampleDataset(), []dataset.Region{dataset.Asia, dataset.Oceania}, 2020, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, p.Y.Max)
	require.NoError(t, WritePNG(&bytes.Buffer{}, p, BarSize))

	_, err = RegionBars(sampleDataset(), dataset.Regions, 1999, 30)
	assert.True(t, errors.Is(err, dataset.ErrNoDataForYear))
}

func TestRegionPie(t *testing.T) {
	p, err := RegionPie(sampleDataset(), dataset.Regions, 2005)
	require.NoError(t, err)
	require.NoError(t, WritePNG(&bytes.Buffer{}, p, PieSize))
}

func TestRegionPie_NoDataForYear(t *testing.T) {
	_, err := RegionPie(sampleDataset(), dataset.Regions, 2011)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrNoDataForYear))
	assert.False(t, dataset.IsFatal(err))
}

func TestWedgePoints(t *testing.T) {
	pts := wedgePoints(math.Pi/2, math.Pi)
	assert.Equal(t, 0.0, pts[0].X)
	assert.InDelta(t, 1.0, pts[1].Y, 1e-9)
	assert.InDelta(t, -1.0, pts[len(pts)-1].Y, 1e-9)
}

func TestAnimations(t *testing.T) {
	d := sampleDataset()
	small := Size{Width: LineSize.Width / 3, Height: LineSize.Height / 3}

	var buf bytes.Buffer
	require.NoError(t, ShareAnimation(&buf, d, 500*time.Millisecond, small))

	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 5)
	assert.Equal(t, 50, anim.Delay[0])

	buf.Reset()
	require.NoError(t, RegionAnimation(&buf, d, []dataset.Region{dataset.Africa}, 100*time.Millisecond, small))
	anim, err = gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 5)
	assert.Equal(t, 10, anim.Delay[0])
}
