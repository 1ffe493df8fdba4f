// Package stats computes confidence intervals and per-group population
// statistics over a cleaned dataset.
package stats

import (
	"math"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Alpha is the significance level of every interval. It is fixed.
const Alpha = 0.05

// Interval is a two-sided Student's t confidence interval for a mean.
type Interval struct {
	N     int     `json:"n"`
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ClubInterval compares mean hours of schools with and without a club.
type ClubInterval struct {
	Club   Interval `json:"club"`
	NoClub Interval `json:"no_club"`
}

// ConfidenceInterval returns the (1-Alpha) interval for the mean of xs.
// An empty sample gives (0, 0); a single value v gives (v, v).
func ConfidenceInterval(xs []float64) Interval {
	n := len(xs)
	switch n {
	case 0:
		return Interval{}
	case 1:
		return Interval{N: 1, Mean: xs[0], Lower: xs[0], Upper: xs[0]}
	}
	mean := stat.Mean(xs, nil)
	sd := stat.StdDev(xs, nil)
	t := TCritical(n - 1)
	half := t * sd / math.Sqrt(float64(n))
	return Interval{N: n, Mean: mean, Lower: mean - half, Upper: mean + half}
}

// TCritical is the two-sided Student's t critical value at Alpha.
func TCritical(df int) float64 {
	d := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return d.Quantile(1 - Alpha/2)
}

// ClubCI splits the club-hours summary by club presence and returns an
// interval for each side.
func ClubCI(summary []pipeline.SchoolHours) ClubInterval {
	var club, noClub []float64
	for _, s := range summary {
		if s.Club == 1 {
			club = append(club, s.Hours)
		} else {
			noClub = append(noClub, s.Hours)
		}
	}
	return ClubInterval{Club: ConfidenceInterval(club), NoClub: ConfidenceInterval(noClub)}
}
