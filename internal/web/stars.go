package web

import "math"

// StarSlots is the width of a star bar.
const StarSlots = 5

// StarBar is a rating split into full, half and empty stars; the three
// always add up to StarSlots.
type StarBar struct {
	Full  int
	Half  int
	Empty int
}

// Stars rounds rating up to the next half star and clamps it to 0..StarSlots.
// 4.3 gives four and a half stars, 4.74 gives five, 0.2 gives a half.
func Stars(rating float64) StarBar {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	// tolerance keeps exact halves such as 4.5 from rounding up
	halves := int(math.Ceil(rating*2 - 1e-9))
	if halves < 0 {
		halves = 0
	}
	if halves > StarSlots*2 {
		halves = StarSlots * 2
	}
	full := halves / 2
	half := halves % 2
	return StarBar{Full: full, Half: half, Empty: StarSlots - full - half}
}

// starsOf accepts whatever a template hands it: an int rating, a float
// average, or a possibly nil average pointer.
func starsOf(v any) StarBar {
	switch r := v.(type) {
	case int:
		return Stars(float64(r))
	case int64:
		return Stars(float64(r))
	case float64:
		return Stars(r)
	case *float64:
		if r == nil {
			return Stars(0)
		}
		return Stars(*r)
	default:
		return Stars(0)
	}
}
