package models

import "strings"

// MeasurementUnit names the unit an ingredient amount is expressed in.
type MeasurementUnit string

const (
	Grams       MeasurementUnit = "grams"
	Kilograms   MeasurementUnit = "kilograms"
	Milligrams  MeasurementUnit = "milligrams"
	Milliliters MeasurementUnit = "milliliters"
	Liters      MeasurementUnit = "liters"
	Teaspoons   MeasurementUnit = "teaspoons"
	Tablespoons MeasurementUnit = "tablespoons"
	Cups        MeasurementUnit = "cups"
	Ounces      MeasurementUnit = "ounces"
	Pounds      MeasurementUnit = "pounds"
	Pieces      MeasurementUnit = "pieces"
)

var unitAliases = map[string]MeasurementUnit{
	"g":    Grams,
	"gram": Grams,
	"kg":   Kilograms,
	"mg":   Milligrams,
	"ml":   Milliliters,
	"l":    Liters,
	"tsp":  Teaspoons,
	"tbsp": Tablespoons,
	"cup":  Cups,
	"oz":   Ounces,
	"lb":   Pounds,
	"lbs":  Pounds,
	"pc":   Pieces,
	"pcs":  Pieces,
}

// MeasurementUnits lists every supported unit in display order.
func MeasurementUnits() []MeasurementUnit {
	return []MeasurementUnit{
		Grams, Kilograms, Milligrams,
		Milliliters, Liters,
		Teaspoons, Tablespoons, Cups,
		Ounces, Pounds, Pieces,
	}
}

// ValidMeasurementUnit reports whether the provided value is a canonical unit name.
func ValidMeasurementUnit(value string) bool {
	for _, unit := range MeasurementUnits() {
		if string(unit) == value {
			return true
		}
	}
	return false
}

// ParseMeasurementUnit resolves canonical names and common abbreviations,
// ignoring case and surrounding whitespace.
func ParseMeasurementUnit(value string) (MeasurementUnit, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if ValidMeasurementUnit(normalized) {
		return MeasurementUnit(normalized), true
	}
	if unit, ok := unitAliases[normalized]; ok {
		return unit, true
	}
	return "", false
}
