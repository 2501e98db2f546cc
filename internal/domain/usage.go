package domain

import (
	"math"
	"strconv"
)

// UsageSummary is the normalized data quota shown by every widget variant.
type UsageSummary struct {
	Limit      float64 `json:"limit"`
	Used       float64 `json:"used"`
	VolumeUnit string  `json:"volume_unit"`
}

// Percent returns used/limit as a 0-100 percentage. Values above 100 are
// returned as-is so over-quota usage stays visible.
func (u UsageSummary) Percent() float64 {
	if u.Limit <= 0 {
		return 0
	}
	return u.Used / u.Limit * 100
}

// Remaining returns limit - used, negative when over quota.
func (u UsageSummary) Remaining() float64 {
	return u.Limit - u.Used
}

// FormatAmount renders a quantity with the summary's unit, e.g. "9.6 GB".
func (u UsageSummary) FormatAmount(v float64) string {
	if u.VolumeUnit == "" {
		return FormatQuantity(v)
	}
	return FormatQuantity(v) + " " + u.VolumeUnit
}

// FormatQuantity trims trailing zeros: 24 -> "24", 9.60 -> "9.6".
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
