// Package geo maps zip codes in the service region to counties and median
// family incomes.
package geo

import "sort"

// County is one of the eight counties in the service region.
type County string

const (
	Bexar     County = "Bexar"
	Kendall   County = "Kendall"
	Bandera   County = "Bandera"
	Comal     County = "Comal"
	Guadalupe County = "Guadalupe"
	Wilson    County = "Wilson"
	Atascosa  County = "Atascosa"
	Medina    County = "Medina"
)

var counties = []County{Bexar, Kendall, Bandera, Comal, Guadalupe, Wilson, Atascosa, Medina}

// zipCounty is the inverted countyZips table. Zip sets are disjoint, so the
// first county to claim a zip keeps it.
var zipCounty = func() map[int]County {
	m := make(map[int]County, 256)
	for _, c := range counties {
		for _, z := range countyZips[c] {
			if _, dup := m[z]; !dup {
				m[z] = c
			}
		}
	}
	return m
}()

// Counties returns the counties in the service region in a stable order.
func Counties() []County {
	out := make([]County, len(counties))
	copy(out, counties)
	return out
}

// CountyOf returns the county containing zip.
func CountyOf(zip int) (County, bool) {
	c, ok := zipCounty[zip]
	return c, ok
}

// IncomeOf returns the published zip-level median family income. Most zip
// codes have no published value.
func IncomeOf(zip int) (int, bool) {
	v, ok := zipIncomes[zip]
	return v, ok
}

// CountyIncomeOf returns the published county-level median family income.
func CountyIncomeOf(c County) (int, bool) {
	v, ok := countyIncomes[c]
	return v, ok
}

// ResolveIncome prefers the zip-level income and falls back to the income of
// the containing county. Zip codes outside the region resolve to nothing.
func ResolveIncome(zip int) (int, bool) {
	c, ok := CountyOf(zip)
	if !ok {
		return 0, false
	}
	if v, ok := IncomeOf(zip); ok {
		return v, true
	}
	return CountyIncomeOf(c)
}

// CoverageZips returns every zip code in the service region, ascending.
func CoverageZips() []int {
	out := make([]int, 0, len(zipCounty))
	for z := range zipCounty {
		out = append(out, z)
	}
	sort.Ints(out)
	return out
}
