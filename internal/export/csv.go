package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/otis/internal/store"
)

func ToCSV(installations []store.Installation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{
		"ID", "Client", "Country", "City", "Status", "Elevator Type",
		"Start", "Deadline", "Completed", "Cost", "Cost (formatted)", "Progress (%)", "Responsible",
	}); err != nil {
		return err
	}

	for _, inst := range installations {
		row := []string{
			inst.ID,
			inst.Client,
			inst.Country,
			inst.City,
			inst.Status.Label(),
			inst.ElevatorType.Label(),
			inst.StartDate.String(),
			inst.Deadline.String(),
			completionDate(inst),
			strconv.FormatFloat(inst.Cost, 'f', -1, 64),
			FormatCost(inst.Cost),
			strconv.Itoa(inst.Progress),
			inst.Responsible,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func completionDate(inst store.Installation) string {
	if inst.CompletionDate == nil {
		return ""
	}
	return inst.CompletionDate.String()
}

// FormatCost renders a cost in whole dollars with thousands separators.
func FormatCost(cost float64) string {
	return "$" + humanize.Comma(int64(cost+0.5))
}
