package store

import "time"

func datePtr(d Date) *Date { return &d }

// DefaultInstallations is the bundled installations dataset.
func DefaultInstallations() []Installation {
	return []Installation{
		{
			ID: "INST-001", Client: "Edifício Central Plaza", Country: "Brasil", City: "São Paulo",
			Status: StatusInProgress, ElevatorType: ElevatorPersonal,
			Deadline: NewDate(2024, time.December, 15), Cost: 45000, Responsible: "João Silva",
			Progress: 65, StartDate: NewDate(2024, time.August, 1),
			Description: "Two passenger elevators for a 20-floor commercial tower.",
		},
		{
			ID: "INST-002", Client: "Hospital São Lucas", Country: "Argentina", City: "Buenos Aires",
			Status: StatusCompleted, ElevatorType: ElevatorHospital,
			Deadline: NewDate(2024, time.November, 30), Cost: 38000, Responsible: "Maria García",
			Progress: 100, StartDate: NewDate(2024, time.June, 10),
			CompletionDate: datePtr(NewDate(2024, time.November, 25)),
			Description:    "Stretcher elevator with priority call for the emergency wing.",
		},
		{
			ID: "INST-003", Client: "Shopping Premium", Country: "Chile", City: "Santiago",
			Status: StatusLate, ElevatorType: ElevatorPanoramic,
			Deadline: NewDate(2024, time.November, 20), Cost: 52000, Responsible: "Carlos Ruiz",
			Progress: 40, StartDate: NewDate(2024, time.July, 15),
			Description: "Glass panoramic elevator in the central atrium.",
		},
		{
			ID: "INST-004", Client: "Torre Empresarial", Country: "México", City: "Monterrey",
			Status: StatusInProgress, ElevatorType: ElevatorPersonal,
			Deadline: NewDate(2024, time.December, 28), Cost: 41000, Responsible: "Ana López",
			Progress: 55, StartDate: NewDate(2024, time.September, 2),
			Description: "Modernisation of the main passenger elevator bank.",
		},
		{
			ID: "INST-005", Client: "Condomínio Vista Mar", Country: "Brasil", City: "Rio de Janeiro",
			Status: StatusCompleted, ElevatorType: ElevatorPersonal,
			Deadline: NewDate(2024, time.November, 25), Cost: 35000, Responsible: "Pedro Santos",
			Progress: 100, StartDate: NewDate(2024, time.May, 20),
			CompletionDate: datePtr(NewDate(2024, time.November, 28)),
			Description:    "Residential elevator replacement, 12 floors.",
		},
		{
			ID: "INST-006", Client: "Centro Logístico Andino", Country: "Peru", City: "Lima",
			Status: StatusPending, ElevatorType: ElevatorFreight,
			Deadline: NewDate(2025, time.March, 10), Cost: 60000, Responsible: "Luis Torres",
			Progress: 0, StartDate: NewDate(2025, time.January, 6),
			Description: "Heavy freight lift for the loading docks.",
		},
		{
			ID: "INST-007", Client: "Clínica Bogotá Norte", Country: "Colômbia", City: "Bogotá",
			Status: StatusInProgress, ElevatorType: ElevatorHospital,
			Deadline: NewDate(2024, time.December, 20), Cost: 47000, Responsible: "Sofía Ramírez",
			Progress: 80, StartDate: NewDate(2024, time.July, 1),
			Description: "Bed elevator with backup power integration.",
		},
		{
			ID: "INST-008", Client: "Armazém Porto Seco", Country: "Brasil", City: "Campinas",
			Status: StatusCompleted, ElevatorType: ElevatorFreight,
			Deadline: NewDate(2024, time.October, 15), Cost: 55000, Responsible: "João Silva",
			Progress: 100, StartDate: NewDate(2024, time.April, 8),
			CompletionDate: datePtr(NewDate(2024, time.October, 10)),
			Description:    "Two-ton goods lift between warehouse levels.",
		},
		{
			ID: "INST-009", Client: "Hotel Mirador", Country: "México", City: "Cancún",
			Status: StatusInProgress, ElevatorType: ElevatorPanoramic,
			Deadline: NewDate(2025, time.February, 14), Cost: 58000, Responsible: "Ana López",
			Progress: 30, StartDate: NewDate(2024, time.October, 21),
			Description: "Panoramic elevator facing the sea, exterior shaft.",
		},
		{
			ID: "INST-010", Client: "Residencial Los Andes", Country: "Chile", City: "Valparaíso",
			Status: StatusPending, ElevatorType: ElevatorPersonal,
			Deadline: NewDate(2025, time.April, 30), Cost: 39000, Responsible: "Carlos Ruiz",
			Progress: 0, StartDate: NewDate(2025, time.February, 3),
			Description: "Passenger elevator for a new residential block.",
		},
	}
}

// DefaultInteractions is the bundled interactions dataset.
func DefaultInteractions() []Interaction {
	return []Interaction{
		{
			ID: 1, ClientName: "João Silva", Description: "Initial meeting to discuss requirements",
			Date: NewDate(2024, time.January, 15), Status: InteractionCompleted, Type: InteractionMeeting,
		},
		{
			ID: 2, ClientName: "Maria Santos", Description: "Product presentation",
			Date: NewDate(2024, time.January, 20), Status: InteractionPending, Type: InteractionPresentation,
		},
	}
}

// DefaultFeedback is the bundled feedback dataset.
func DefaultFeedback() []Feedback {
	answered := "Thank you, the maintenance team has been notified."
	return []Feedback{
		{
			ID: 1730000000001, ClientName: "Edifício Central Plaza", ClientID: "CLIENT-1730000000001",
			Country: "Brasil", ProjectName: "INST-001", Rating: 5,
			Comment: "Team was punctual and the site was kept clean.", Status: FeedbackPending,
			Date: NewDate(2024, time.October, 28), Responsible: "João Silva",
		},
		{
			ID: 1730000000002, ClientName: "Hospital São Lucas", ClientID: "CLIENT-1730000000002",
			Country: "Argentina", ProjectName: "INST-002", Rating: 4,
			Comment: "Good installation, small delay on the final inspection.", Status: FeedbackAnswered,
			Date: NewDate(2024, time.November, 27), Responsible: "Maria García", Response: &answered,
		},
		{
			ID: 1730000000003, ClientName: "Shopping Premium", ClientID: "CLIENT-1730000000003",
			Country: "Chile", ProjectName: "INST-003", Rating: 2,
			Comment: "The project is late and communication was poor.", Status: FeedbackPending,
			Date: NewDate(2024, time.November, 22), Responsible: "Carlos Ruiz",
		},
		{
			ID: 1730000000004, ClientName: "Condomínio Vista Mar", ClientID: "CLIENT-1730000000004",
			Country: "Brasil", Rating: 4,
			Comment: "Quiet elevator, residents are happy.", Status: FeedbackPending,
			Date: NewDate(2024, time.December, 2), Responsible: "Pedro Santos",
		},
	}
}
