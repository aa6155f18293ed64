package constants

import (
	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

// Machine lines are plant reference data, maintained here rather than in the
// database. Only the three production stages run on machines; rates are
// metres of wound material per minute.
var (
	MachineLines = map[pipeline.Stage]storage.MachineLine{
		pipeline.StagePaperSlitting: {
			Stage:         pipeline.StagePaperSlitting,
			Name:          "Paper slitting",
			Machines:      []string{"SL-1", "SL-2"},
			SetupMinutes:  15,
			RatePerMinute: 250,
		},
		pipeline.StageWinding: {
			Stage:         pipeline.StageWinding,
			Name:          "Winding",
			Machines:      []string{"WD-1", "WD-2", "WD-3"},
			SetupMinutes:  30,
			RatePerMinute: 180,
		},
		pipeline.StageFinishing: {
			Stage:         pipeline.StageFinishing,
			Name:          "Finishing",
			Machines:      []string{"FN-1"},
			SetupMinutes:  10,
			RatePerMinute: 220,
		},
	}

	// MachineStages lists the machined stages in pipeline order, for
	// stable listings.
	MachineStages = []pipeline.Stage{
		pipeline.StagePaperSlitting,
		pipeline.StageWinding,
		pipeline.StageFinishing,
	}
)

// LineFor returns the machine line for a production stage. Stages without
// machines (order entry, delivery and so on) report false.
func LineFor(stage pipeline.Stage) (storage.MachineLine, bool) {
	line, ok := MachineLines[stage]
	return line, ok
}
