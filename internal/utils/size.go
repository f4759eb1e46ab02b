package utils

import (
	"strconv"
	"strings"
)

const sizeUnitStep = 1024

var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case binary unit, for example "512b", "1.5kb" or "12mb".
// Values below ten keep one decimal; larger values are rounded to whole units.
func FormatFileSize(byteCount int64) string {
	if byteCount <= 0 {
		return "0" + sizeUnits[0]
	}
	if byteCount < sizeUnitStep {
		return strconv.FormatInt(byteCount, 10) + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= sizeUnitStep && unitIndex < len(sizeUnits)-1 {
		scaled /= sizeUnitStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	rendered := strconv.FormatFloat(scaled, 'f', precision, 64)
	return strings.TrimSuffix(rendered, ".0") + sizeUnits[unitIndex]
}
