package pipeline

import (
	"sort"

	"github.com/KaramelBytes/sosdash/internal/geo"
)

// ZipClients is one area of the client-distribution map.
type ZipClients struct {
	Zip     int64  `json:"zip"`
	County  string `json:"county"`
	Income  int    `json:"median_family_income,omitempty"`
	Clients int    `json:"clients"`
}

// CountyClients is the client count of one county in the service region.
type CountyClients struct {
	County  string `json:"county"`
	Income  int    `json:"median_family_income,omitempty"`
	Clients int    `json:"clients"`
}

func clientsByZip(d *Dataset) map[int64]int {
	n := map[int64]int{}
	if d == nil {
		return n
	}
	for _, c := range d.Clients {
		if c.Zip.Kind == KindInt {
			n[c.Zip.I]++
		}
	}
	return n
}

// ZipLayer counts clients in every zip code of the service region, in zip
// order. Zips without clients are listed with a zero count; clients outside
// the region are not.
func (d *Dataset) ZipLayer() []ZipClients {
	n := clientsByZip(d)
	zips := geo.CoverageZips()
	out := make([]ZipClients, 0, len(zips))
	for _, z := range zips {
		c, _ := geo.CountyOf(z)
		income, _ := geo.ResolveIncome(z)
		out = append(out, ZipClients{Zip: int64(z), County: string(c), Income: income, Clients: n[int64(z)]})
	}
	return out
}

// CountyLayer rolls ZipLayer up to counties, busiest first.
func (d *Dataset) CountyLayer() []CountyClients {
	n := map[geo.County]int{}
	for z, k := range clientsByZip(d) {
		if c, ok := geo.CountyOf(int(z)); ok {
			n[c] += k
		}
	}
	counties := geo.Counties()
	out := make([]CountyClients, 0, len(counties))
	for _, c := range counties {
		income, _ := geo.CountyIncomeOf(c)
		out = append(out, CountyClients{County: string(c), Income: income, Clients: n[c]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Clients > out[j].Clients })
	return out
}
