package query

import "github.com/sadopc/otis/internal/store"

// KPIs are the headline figures of the dashboard.
type KPIs struct {
	TotalInstallations int
	InProgress         int
	// OnTimeRate is the percentage of completed installations finished on
	// or before their deadline. 0 when nothing is completed.
	OnTimeRate   float64
	AverageCost  float64
	Satisfaction float64
}

func Summarize(installations []store.Installation, feedback []store.Feedback) KPIs {
	k := KPIs{
		TotalInstallations: len(installations),
		AverageCost:        Average(installations, func(i store.Installation) float64 { return i.Cost }),
		Satisfaction:       Average(feedback, func(f store.Feedback) float64 { return float64(f.Rating) }),
	}
	var completed, onTime int
	for _, inst := range installations {
		switch inst.Status {
		case store.StatusInProgress:
			k.InProgress++
		case store.StatusCompleted:
			completed++
			if inst.CompletionDate != nil && !inst.CompletionDate.After(inst.Deadline.Time) {
				onTime++
			}
		}
	}
	if completed > 0 {
		k.OnTimeRate = float64(onTime) / float64(completed) * 100
	}
	return k
}
