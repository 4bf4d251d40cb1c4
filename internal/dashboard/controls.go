package dashboard

import (
	"net/http"
	"net/url"
	"strconv"

	"globalsouth/internal/config"
	"globalsouth/internal/dataset"
)

// Controls are the user's widget selections for one request.
type Controls struct {
	Regions []dataset.Region
	SpeedMS int
	Year    int
}

// parseControls reads region, speed and year from the query. Unknown and empty
// region values are dropped, so "region=" alone is an empty selection; no
// region parameter at all selects every region. Speed and year are
// clamped to their ranges; the year defaults to the latest one.
func parseControls(r *http.Request, anim config.AnimationConfig, d *dataset.Dataset) Controls {
	q := r.URL.Query()

	c := Controls{Regions: parseRegions(q)}

	speed, _ := strconv.Atoi(q.Get("speed"))
	c.SpeedMS = anim.ClampSpeed(speed)

	minYear, maxYear, _ := dataset.YearRange(d)
	c.Year = maxYear
	if y, err := strconv.Atoi(q.Get("year")); err == nil {
		switch {
		case y < minYear:
			c.Year = minYear
		case y > maxYear:
			c.Year = maxYear
		default:
			c.Year = y
		}
	}
	return c
}

func parseRegions(q url.Values) []dataset.Region {
	values, ok := q["region"]
	if !ok {
		return append([]dataset.Region(nil), dataset.Regions...)
	}

	seen := make(map[dataset.Region]bool)
	var regions []dataset.Region
	for _, v := range values {
		r, ok := dataset.ParseRegion(v)
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		regions = append(regions, r)
	}
	return regions
}

// Query encodes the controls for chart and download links.
func (c Controls) Query() string {
	q := url.Values{}
	if len(c.Regions) == 0 {
		q.Set("region", "")
	}
	for _, r := range c.Regions {
		q.Add("region", string(r))
	}
	q.Set("speed", strconv.Itoa(c.SpeedMS))
	q.Set("year", strconv.Itoa(c.Year))
	return q.Encode()
}

// Selected reports whether r is part of the selection.
func (c Controls) Selected(r dataset.Region) bool {
	for _, s := range c.Regions {
		if s == r {
			return true
		}
	}
	return false
}
