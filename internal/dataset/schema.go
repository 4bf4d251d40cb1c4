// Package dataset loads the Global South GDP share table, validates it against
// a fixed column schema and derives the per-year and per-region views the
// charts and exports are built from.
package dataset

import "strings"

// Region is one of the four fixed Global South regions.
type Region string

const (
	Asia         Region = "Asia"
	Africa       Region = "Africa"
	LatinAmerica Region = "Latin America"
	Oceania      Region = "Oceania"
)

// Regions lists the fixed regions in display order.
var Regions = []Region{Asia, Africa, LatinAmerica, Oceania}

// DefaultColors maps each region to its display colour.
var DefaultColors = map[Region]string{
	Asia:         "#32CD32",
	Africa:       "#FFA500",
	LatinAmerica: "#FF6347",
	Oceania:      "#1E90FF",
}

// ParseRegion matches a region name case-insensitively.
func ParseRegion(s string) (Region, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Regions {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// RegionColumns maps a region to its source headers.
type RegionColumns struct {
	Region       Region
	Contribution string
	Color        string
	DefaultColor string
}

// Schema maps logical columns to the headers of the source file.
type Schema struct {
	Year    string
	Share   string
	Regions []RegionColumns
}

// DefaultSchema uses the headers of the published global_south_gdp.csv.
func DefaultSchema() Schema {
	return Schema{
		Year:  "年份",
		Share: "全球南方国家GDP占比(%)",
		Regions: []RegionColumns{
			{Region: Asia, Contribution: "亚洲贡献(%)", Color: "亚洲颜色", DefaultColor: DefaultColors[Asia]},
			{Region: Africa, Contribution: "非洲贡献(%)", Color: "非洲颜色", DefaultColor: DefaultColors[Africa]},
			{Region: LatinAmerica, Contribution: "拉丁美洲贡献(%)", Color: "拉丁美洲颜色", DefaultColor: DefaultColors[LatinAmerica]},
			{Region: Oceania, Contribution: "大洋洲贡献(%)", Color: "大洋洲颜色", DefaultColor: DefaultColors[Oceania]},
		},
	}
}

// Required returns the required headers in schema order.
func (s Schema) Required() []string {
	cols := []string{s.Year, s.Share}
	for _, rc := range s.Regions {
		cols = append(cols, rc.Contribution)
	}
	return cols
}

// Columns returns the headers configured for r.
func (s Schema) Columns(r Region) (RegionColumns, bool) {
	for _, rc := range s.Regions {
		if rc.Region == r {
			return rc, true
		}
	}
	return RegionColumns{}, false
}
