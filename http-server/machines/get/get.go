package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"tubeworks/internal/constants"
	"tubeworks/internal/storage"
)

// GetMachineLines serves the static machine-line table in pipeline order.
// Plant reference data, no storage behind it.
func GetMachineLines(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines := make([]storage.MachineLine, 0, len(constants.MachineStages))
		for _, stage := range constants.MachineStages {
			lines = append(lines, constants.MachineLines[stage])
		}

		render.JSON(w, r, lines)
	}
}
