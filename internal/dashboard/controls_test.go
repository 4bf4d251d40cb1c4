package dashboard

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"globalsouth/internal/config"
	"globalsouth/internal/dataset"
)

func TestParseControls(t *testing.T) {
	d := &dataset.Dataset{Records: []dataset.Record{{Year: 2000}, {Year: 2010}, {Year: 2020}}}
	anim := config.DefaultConfig().Animation

	tests := []struct {
		query string
		want  Controls
	}{
		{"", Controls{Regions: dataset.Regions, SpeedMS: 500, Year: 2020}},
		{"?year=1990&speed=50", Controls{Regions: dataset.Regions, SpeedMS: 100, Year: 2000}},
		{"?year=2010&speed=9000", Controls{Regions: dataset.Regions, SpeedMS: 2000, Year: 2010}},
		{"?region=oceania&region=Asia&region=Europe&region=Asia",
			Controls{Regions: []dataset.Region{dataset.Oceania, dataset.Asia}, SpeedMS: 500, Year: 2020}},
		{"?region=", Controls{Regions: nil, SpeedMS: 500, Year: 2020}},
		{"?region=&speed=500&year=2020", Controls{Regions: nil, SpeedMS: 500, Year: 2020}},
		{"?region=&region=Africa&speed=500&year=2010",
			Controls{Regions: []dataset.Region{dataset.Africa}, SpeedMS: 500, Year: 2010}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/"+tt.query, nil)
			assert.Equal(t, tt.want, parseControls(r, anim, d))
		})
	}
}

func TestControlsQuery(t *testing.T) {
	c := Controls{Regions: []dataset.Region{dataset.LatinAmerica}, SpeedMS: 300, Year: 2015}
	assert.Equal(t, "region=Latin+America&speed=300&year=2015", c.Query())
	assert.True(t, c.Selected(dataset.LatinAmerica))
	assert.False(t, c.Selected(dataset.Asia))
}

func TestControlsQuery_EmptySelectionRoundTrip(t *testing.T) {
	d := &dataset.Dataset{Records: []dataset.Record{{Year: 2000}, {Year: 2020}}}
	anim := config.DefaultConfig().Animation

	c := Controls{SpeedMS: 500, Year: 2020}
	assert.Equal(t, "region=&speed=500&year=2020", c.Query())

	r := httptest.NewRequest("GET", "/?"+c.Query(), nil)
	got := parseControls(r, anim, d)
	assert.Empty(t, got.Regions)
	assert.Equal(t, c.Query(), got.Query())
}
