package statistics

import (
	"math"
	"sort"
)

// MannWhitneyU performs a Mann-Whitney U test on two groups
// Returns the p-value (approximate, using normal approximation)
// H0: The two groups come from the same distribution
// If p < 0.05: reject H0 (groups are significantly different)
func MannWhitneyU(groupA, groupB []float64) float64 {
	if len(groupA) == 0 || len(groupB) == 0 {
		return 1.0
	}

	n1 := len(groupA)
	n2 := len(groupB)

	type rankItem struct {
		value float64
		group int // 0 for A, 1 for B
	}

	combined := make([]rankItem, n1+n2)
	for i, v := range groupA {
		combined[i] = rankItem{v, 0}
	}
	for i, v := range groupB {
		combined[n1+i] = rankItem{v, 1}
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].value < combined[j].value
	})

	// Average ranks across ties
	ranks := make([]float64, len(combined))
	for i := 0; i < len(combined); {
		j := i
		for j < len(combined) && combined[j].value == combined[i].value {
			j++
		}
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		i = j
	}

	rankSumA := 0.0
	for i, item := range combined {
		if item.group == 0 {
			rankSumA += ranks[i]
		}
	}

	U1 := rankSumA - float64(n1*(n1+1))/2.0
	U2 := float64(n1*n2) - U1
	U := math.Min(U1, U2)

	meanU := float64(n1*n2) / 2.0
	stdU := math.Sqrt(float64(n1*n2*(n1+n2+1)) / 12.0)

	if stdU == 0 {
		return 1.0
	}

	z := (U - meanU) / stdU

	// Two-tailed
	return 2.0 * normalCDF(-math.Abs(z))
}

// normalCDF approximates the standard normal cumulative distribution function
func normalCDF(z float64) float64 {
	return 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
}

// Comparison summarizes how a sample set differs from a baseline.
type Comparison struct {
	MedianDiffPct float64 // Percentage difference in medians
	PValue        float64 // Mann-Whitney U p-value
	HasOverlap    bool    // Whether ranges overlap
	Significant   bool    // Whether p < 0.05
	BaselineCV    float64 // Coefficient of variation of the baseline (%)
	OtherCV       float64
}

// Compare performs statistical comparison of other against baseline.
func Compare(baseline, other []float64) Comparison {
	medianDiff := 0.0
	if m := Median(baseline); m != 0 {
		medianDiff = ((Median(other) - m) / m) * 100
	}

	pValue := MannWhitneyU(baseline, other)

	return Comparison{
		MedianDiffPct: medianDiff,
		PValue:        pValue,
		HasOverlap:    HasOverlap(baseline, other),
		Significant:   pValue < 0.05,
		BaselineCV:    CV(baseline),
		OtherCV:       CV(other),
	}
}

// Significance returns the star notation used in comparison tables.
func (c Comparison) Significance() string {
	switch {
	case !c.HasOverlap:
		return "No overlap"
	case c.PValue < 0.001:
		return "*** (p<0.001)"
	case c.PValue < 0.01:
		return "** (p<0.01)"
	case c.PValue < 0.05:
		return "* (p<0.05)"
	}
	return "n.s."
}
