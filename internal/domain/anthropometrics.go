package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// NotAvailable is printed in place of a measure that cannot be computed.
const NotAvailable = "N/A"

// ParseMeasure converts a typed numeric field to a float. Empty, malformed and
// non-finite input yields ok=false and never an error; a decimal comma is accepted.
func ParseMeasure(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// BMI returns weight / (height in metres)². ok is false when either measure is
// missing, malformed or not strictly positive.
func BMI(heightCm, weightKg string) (float64, bool) {
	height, okH := ParseMeasure(heightCm)
	weight, okW := ParseMeasure(weightKg)
	if !okH || !okW || height <= 0 || weight <= 0 {
		return 0, false
	}
	meters := height / 100
	return weight / (meters * meters), true
}

// FormatBMI renders the BMI with one decimal, or N/A.
func FormatBMI(heightCm, weightKg string) string {
	bmi, ok := BMI(heightCm, weightKg)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f", bmi)
}

// Age returns the age in whole years at now. It decrements when the birthday has
// not yet been reached this calendar year. An empty or malformed birthdate gives 0.
func Age(birthdate string, now time.Time) int {
	birth, err := parseDate(birthdate)
	if err != nil {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// FormatReportDate renders an ISO date the way the French locale prints it (dd/mm/yyyy).
func FormatReportDate(date string) string {
	d, err := parseDate(date)
	if err != nil {
		return NotAvailable
	}
	return d.Format("02/01/2006")
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
