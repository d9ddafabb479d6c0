package docx

import (
	"math"
	"strconv"
)

// Length is a physical length in EMU (English Metric Units).
// 1 inch = 914400 EMU, 1 cm = 360000 EMU, 1 twip = 635 EMU.
type Length int64

const (
	emuPerInch       = 914400
	emuPerCentimeter = 360000
	emuPerPoint      = 12700
	emuPerTwip       = 635
)

// Cm converts centimeters to a Length.
func Cm(v float64) Length {
	return Length(math.Round(v * emuPerCentimeter))
}

// Inch converts inches to a Length.
func Inch(v float64) Length {
	return Length(math.Round(v * emuPerInch))
}

// Pt converts points to a Length.
func Pt(v float64) Length {
	return Length(math.Round(v * emuPerPoint))
}

// Twips converts twentieths of a point to a Length.
func Twips(v int64) Length {
	return Length(v * emuPerTwip)
}

// Cm returns the length in centimeters.
func (l Length) Cm() float64 {
	return float64(l) / emuPerCentimeter
}

// Pt returns the length in points.
func (l Length) Pt() float64 {
	return float64(l) / emuPerPoint
}

// Twips returns the length in twips, rounded to the nearest twip.
func (l Length) Twips() int64 {
	return int64(math.Round(float64(l) / emuPerTwip))
}

// parseTwips parses a twips attribute value into a Length.
func parseTwips(s string) Length {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Length(math.Round(v * emuPerTwip))
}

func twipsAttr(l Length) string {
	return strconv.FormatInt(l.Twips(), 10)
}
