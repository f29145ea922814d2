package trailhead

import "net/url"

const LogMaskVal = "xxxxxx"

// Mask replaces all values for key in vals with a single LogMaskVal.
// Keys not in vals are left alone.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals[key] = []string{LogMaskVal}
}
