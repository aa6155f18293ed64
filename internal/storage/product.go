package storage

// ProductSpec describes one catalogue product together with the figures the
// costing calculator consumes. Optional fields are pointers: nil means the
// calculator falls back to its documented default, while an explicit zero is
// preserved as entered.
type ProductSpec struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`

	CoreWidthMM      *float64 `json:"core_width_mm"`
	MakereadyPercent *float64 `json:"makeready_percent"`
	WastePercent     *float64 `json:"waste_percent"`
	SetupMinutes     *float64 `json:"setup_minutes"`
	TubesPerCarton   *int     `json:"tubes_per_carton"`
	CartonsPerPallet *int     `json:"cartons_per_pallet"`

	// QC reference data echoed to job cards, not used in length arithmetic.
	ToleranceIDMM          *float64 `json:"tolerance_id_mm"`
	ToleranceODMM          *float64 `json:"tolerance_od_mm"`
	ToleranceWallMM        *float64 `json:"tolerance_wall_mm"`
	InspectionEveryMinutes *int     `json:"inspection_every_minutes"`

	Active bool `json:"active"`
}

// SaveProductSpec is the admin create/update payload for a catalogue entry.
// Pointer fields left null clear the stored value back to "unset".
type SaveProductSpec struct {
	Code string `json:"code"`
	Name string `json:"name"`

	CoreWidthMM      *float64 `json:"core_width_mm"`
	MakereadyPercent *float64 `json:"makeready_percent"`
	WastePercent     *float64 `json:"waste_percent"`
	SetupMinutes     *float64 `json:"setup_minutes"`
	TubesPerCarton   *int     `json:"tubes_per_carton"`
	CartonsPerPallet *int     `json:"cartons_per_pallet"`

	ToleranceIDMM          *float64 `json:"tolerance_id_mm"`
	ToleranceODMM          *float64 `json:"tolerance_od_mm"`
	ToleranceWallMM        *float64 `json:"tolerance_wall_mm"`
	InspectionEveryMinutes *int     `json:"inspection_every_minutes"`

	Active bool `json:"active"`
}
