package model

// LabelThresholdPercent is the share a slice must exceed to get a label
const LabelThresholdPercent = 5.0

// SlicePercent returns values[i] as a percentage of the sum of values. ok is
// false when the sum is zero or i is out of range.
func SlicePercent(values []int, i int) (percent float64, ok bool) {
	if i < 0 || i >= len(values) {
		return 0, false
	}

	total := 0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return 0, false
	}

	return float64(values[i]) * 100 / float64(total), true
}

// ShowLabel reports whether the label of slice i is displayed
func ShowLabel(values []int, i int) bool {
	percent, ok := SlicePercent(values, i)
	if !ok {
		return false
	}
	return percent > LabelThresholdPercent
}
