package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/otis/internal/store"
)

type jsonExport struct {
	ExportedAt    string             `json:"exported_at"`
	Count         int                `json:"count"`
	TotalCost     float64            `json:"total_cost"`
	Installations []jsonInstallation `json:"installations"`
}

type jsonInstallation struct {
	ID             string  `json:"id"`
	Client         string  `json:"client"`
	Country        string  `json:"country"`
	City           string  `json:"city,omitempty"`
	Status         string  `json:"status"`
	ElevatorType   string  `json:"elevator_type"`
	StartDate      string  `json:"start_date"`
	Deadline       string  `json:"deadline"`
	CompletionDate string  `json:"completion_date,omitempty"`
	Cost           float64 `json:"cost"`
	Progress       int     `json:"progress"`
	Responsible    string  `json:"responsible,omitempty"`
}

func ToJSON(installations []store.Installation, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(installations),
	}

	for _, inst := range installations {
		export.TotalCost += inst.Cost
		export.Installations = append(export.Installations, jsonInstallation{
			ID:             inst.ID,
			Client:         inst.Client,
			Country:        inst.Country,
			City:           inst.City,
			Status:         string(inst.Status),
			ElevatorType:   string(inst.ElevatorType),
			StartDate:      inst.StartDate.String(),
			Deadline:       inst.Deadline.String(),
			CompletionDate: completionDate(inst),
			Cost:           inst.Cost,
			Progress:       inst.Progress,
			Responsible:    inst.Responsible,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
