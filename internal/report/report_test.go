package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalsouth/internal/dataset"
)

const sampleCSV = `年份,全球南方国家GDP占比(%),亚洲贡献(%),非洲贡献(%),拉丁美洲贡献(%),大洋洲贡献(%)
2000,30,20,4,5,1
2005,32,22,4,,1
2010,35,25,4.5,4.5,1
2015,38,28,4.5,4.5,1
2020,40,30,4.5,4.5,1
`

func TestBuild(t *testing.T) {
	table, err := dataset.Parse("test.csv", []byte(sampleCSV))
	require.NoError(t, err)
	snap, err := dataset.Prepare("test.csv", table, dataset.DefaultSchema())
	require.NoError(t, err)

	in := Build(snap, dataset.Regions)

	assert.Equal(t, 2000, in.FirstYear)
	assert.Equal(t, 2020, in.LastYear)
	assert.Equal(t, 30.0, in.StartShare)
	assert.Equal(t, 40.0, in.CurrentShare)
	assert.Equal(t, 10.0, in.Growth)
	assert.Equal(t, dataset.Asia, in.LeadingRegion)
	assert.InDelta(t, 18.5, in.RegionTotals[dataset.LatinAmerica], 1e-9)
	require.Len(t, in.Warnings, 1)

	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, in))
	out := b.String()

	assert.Contains(t, out, "**Starting share (2000)**: 30.00%")
	assert.Contains(t, out, "**Current share (2020)**: 40.00%")
	assert.Contains(t, out, "拉丁美洲贡献(%)")
	assert.Contains(t, out, "| 2005 | 32.00 | 22.00 | 4.00 | – | 1.00 |")
}
