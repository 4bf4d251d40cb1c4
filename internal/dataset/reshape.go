package dataset

import (
	"math"
	"sort"
)

// Field selects a numeric value from a record.
type Field func(Record) float64

// Share selects the Global South share of global GDP.
func Share(r Record) float64 { return r.Share }

// Contribution selects the contribution of region.
func Contribution(region Region) Field {
	return func(r Record) float64 {
		v, ok := r.Contribution[region]
		if !ok {
			return math.NaN()
		}
		return v
	}
}

// RegionContribution is one long-form row.
type RegionContribution struct {
	Year   int
	Region Region
	Value  float64
}

// MeltRegions produces one row per (year, region) pair for the selected
// regions, in record order then selection order.
func MeltRegions(d *Dataset, regions []Region) []RegionContribution {
	out := make([]RegionContribution, 0, d.Len()*len(regions))
	for _, rec := range d.Records {
		for _, region := range regions {
			out = append(out, RegionContribution{
				Year:   rec.Year,
				Region: region,
				Value:  Contribution(region)(rec),
			})
		}
	}
	return out
}

// YearSlice returns the records for year. An absent year yields an empty
// slice, never an error.
func YearSlice(d *Dataset, year int) []Record {
	var out []Record
	for _, rec := range d.Records {
		if rec.Year == year {
			out = append(out, rec)
		}
	}
	return out
}

// UpTo returns the records whose year is at most year, sorted by year.
func UpTo(d *Dataset, year int) []Record {
	var out []Record
	for _, rec := range d.Records {
		if rec.Year <= year {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Extrema returns the minimum and maximum of field, skipping NaN. ok is false
// when there is no value to aggregate.
func Extrema(d *Dataset, field Field) (min, max float64, ok bool) {
	for _, rec := range d.Records {
		v := field(rec)
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// Endpoints returns field at the earliest and the latest year. The first
// record wins among equal years and NaN values are skipped, so a missing
// value at either end falls back to the nearest year that has one.
func Endpoints(d *Dataset, field Field) (first, last float64, ok bool) {
	idx := make([]int, 0, d.Len())
	for i, rec := range d.Records {
		if !math.IsNaN(field(rec)) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return 0, 0, false
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return d.Records[idx[a]].Year < d.Records[idx[b]].Year
	})

	lastIdx := len(idx) - 1
	maxYear := d.Records[idx[lastIdx]].Year
	for lastIdx > 0 && d.Records[idx[lastIdx-1]].Year == maxYear {
		lastIdx--
	}

	return field(d.Records[idx[0]]), field(d.Records[idx[lastIdx]]), true
}

// Years returns the distinct years in ascending order.
func Years(d *Dataset) []int {
	seen := make(map[int]bool, d.Len())
	var out []int
	for _, rec := range d.Records {
		if !seen[rec.Year] {
			seen[rec.Year] = true
			out = append(out, rec.Year)
		}
	}
	sort.Ints(out)
	return out
}

// YearRange returns the smallest and largest year.
func YearRange(d *Dataset) (min, max int, ok bool) {
	for i, rec := range d.Records {
		if i == 0 || rec.Year < min {
			min = rec.Year
		}
		if i == 0 || rec.Year > max {
			max = rec.Year
		}
	}
	return min, max, d.Len() > 0
}

// RegionTotals sums each region's contribution over all years, skipping NaN.
func RegionTotals(d *Dataset, regions []Region) map[Region]float64 {
	totals := make(map[Region]float64, len(regions))
	for _, region := range regions {
		totals[region] = 0
		for _, rec := range d.Records {
			if v := Contribution(region)(rec); !math.IsNaN(v) {
				totals[region] += v
			}
		}
	}
	return totals
}

// LeadingRegion returns the region with the largest total contribution. Ties
// go to the region listed first.
func LeadingRegion(d *Dataset, regions []Region) (Region, bool) {
	totals := RegionTotals(d, regions)
	var best Region
	found := false
	for _, region := range regions {
		if !found || totals[region] > totals[best] {
			best, found = region, true
		}
	}
	return best, found
}

// ContributionMax is the largest contribution among the selected regions.
func ContributionMax(d *Dataset, regions []Region) (float64, bool) {
	var max float64
	found := false
	for _, region := range regions {
		if _, hi, ok := Extrema(d, Contribution(region)); ok && (!found || hi > max) {
			max, found = hi, true
		}
	}
	return max, found
}
