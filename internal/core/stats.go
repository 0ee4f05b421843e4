package core

import "math"

// PhishingPercentage returns 100*phishing/total rounded to one decimal, or 0 when total is 0
func PhishingPercentage(phishing, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(1000*float64(phishing)/float64(total)) / 10
}

// Normalize recomputes the derived fields from the counts.
// A total that disagrees with the two counts is replaced by their sum.
func (c CategoryStats) Normalize() CategoryStats {
	if c.PhishingCount < 0 {
		c.PhishingCount = 0
	}
	if c.LegitimateCount < 0 {
		c.LegitimateCount = 0
	}
	c.Total = c.PhishingCount + c.LegitimateCount
	c.PhishingPercentage = PhishingPercentage(c.PhishingCount, c.Total)
	return c
}

// HasData reports whether there is anything to chart
func (c CategoryStats) HasData() bool {
	return c.Total > 0
}
