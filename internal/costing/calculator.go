// Package costing estimates material usage, production time and packaging
// counts for one order line. Calculate is pure: no I/O, no mutation of its
// inputs, identical inputs give identical results.
package costing

import (
	"math"

	"tubeworks/internal/storage"
)

// Documented fallbacks for product-spec fields left unset. An explicit zero
// on a percentage or setup field is honoured as entered; only the carton and
// pallet divisors guard against non-positive values.
const (
	DefaultTubeLengthM      = 1.0
	DefaultMakereadyPercent = 10.0
	DefaultWastePercent     = 5.0
	DefaultTubesPerCarton   = 50
	DefaultCartonsPerPallet = 20

	// Fixed packing constant: one tape roll seals 25 cartons.
	CartonsPerTapeRoll = 25
)

// Result is the derived estimate for one order line. Lengths are metres and
// times minutes, rounded to whole units; the applied percentages are echoed
// to one decimal. Nothing here is persisted; it is recomputed on demand.
type Result struct {
	// Incomplete marks an estimate produced without a usable order
	// quantity. All numeric fields are zero in that case, so callers can
	// tell "no data" from a legitimately zero outcome.
	Incomplete bool `json:"incomplete"`

	GoodMaterialLength  int `json:"good_material_length"`
	MakereadyLength     int `json:"makeready_length"`
	WasteLength         int `json:"waste_length"`
	TotalLengthRequired int `json:"total_length_required"`

	SetupMinutes int `json:"setup_minutes"`
	RunMinutes   int `json:"run_minutes"`
	TotalMinutes int `json:"total_minutes"`

	CartonsRequired   int `json:"cartons_required"`
	PalletsRequired   int `json:"pallets_required"`
	TapeRollsRequired int `json:"tape_rolls_required"`

	MakereadyPercent float64 `json:"makeready_percent"`
	WastePercent     float64 `json:"waste_percent"`
}

// Calculate derives the material, time and packaging estimate for quantity
// tubes of the given product on the given machine line.
//
// line.RatePerMinute must be positive; that is the caller's contract, the
// line table is static and curated. A quantity of zero or less (the order
// line is missing or empty) short-circuits to an all-zero Incomplete result
// rather than an error.
func Calculate(quantity int, spec *storage.ProductSpec, line storage.MachineLine) Result {
	if quantity <= 0 {
		return Result{Incomplete: true}
	}

	mrPct := makereadyPercent(spec)
	wPct := wastePercent(spec)

	good := float64(quantity) * tubeLengthMetres(spec)
	makeready := good * mrPct / 100
	withMakeready := good + makeready
	waste := withMakeready * wPct / 100
	totalLength := withMakeready + waste

	setup := setupMinutes(spec, line)
	run := totalLength / line.RatePerMinute

	cartons := int(math.Ceil(float64(quantity) / float64(tubesPerCarton(spec))))
	pallets := int(math.Ceil(float64(cartons) / float64(cartonsPerPallet(spec))))
	tapeRolls := int(math.Ceil(float64(cartons) / float64(CartonsPerTapeRoll)))

	return Result{
		GoodMaterialLength:  wholeUnits(good),
		MakereadyLength:     wholeUnits(makeready),
		WasteLength:         wholeUnits(waste),
		TotalLengthRequired: wholeUnits(totalLength),
		SetupMinutes:        wholeUnits(setup),
		RunMinutes:          wholeUnits(run),
		TotalMinutes:        wholeUnits(setup + run),
		CartonsRequired:     cartons,
		PalletsRequired:     pallets,
		TapeRollsRequired:   tapeRolls,
		MakereadyPercent:    oneDecimal(mrPct),
		WastePercent:        oneDecimal(wPct),
	}
}

// tubeLengthMetres converts the product's core width to metres of wound
// material per tube, defaulting to one metre when the width is unset.
func tubeLengthMetres(spec *storage.ProductSpec) float64 {
	if spec == nil || spec.CoreWidthMM == nil {
		return DefaultTubeLengthM
	}
	return *spec.CoreWidthMM / 1000
}

func makereadyPercent(spec *storage.ProductSpec) float64 {
	if spec == nil || spec.MakereadyPercent == nil {
		return DefaultMakereadyPercent
	}
	return nonNegative(*spec.MakereadyPercent)
}

func wastePercent(spec *storage.ProductSpec) float64 {
	if spec == nil || spec.WastePercent == nil {
		return DefaultWastePercent
	}
	return nonNegative(*spec.WastePercent)
}

// setupMinutes prefers the product's own setup allowance, falling back to
// the machine line's standard figure.
func setupMinutes(spec *storage.ProductSpec, line storage.MachineLine) float64 {
	if spec == nil || spec.SetupMinutes == nil {
		return line.SetupMinutes
	}
	return nonNegative(*spec.SetupMinutes)
}

// tubesPerCarton is a divisor, so an unset or non-positive value falls back
// to the default rather than letting the carton count blow up.
func tubesPerCarton(spec *storage.ProductSpec) int {
	if spec == nil || spec.TubesPerCarton == nil || *spec.TubesPerCarton <= 0 {
		return DefaultTubesPerCarton
	}
	return *spec.TubesPerCarton
}

func cartonsPerPallet(spec *storage.ProductSpec) int {
	if spec == nil || spec.CartonsPerPallet == nil || *spec.CartonsPerPallet <= 0 {
		return DefaultCartonsPerPallet
	}
	return *spec.CartonsPerPallet
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func wholeUnits(v float64) int {
	return int(math.Round(v))
}

func oneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
