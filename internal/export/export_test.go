package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/otis/internal/store"
)

func sampleData() []store.Installation {
	done := store.NewDate(2024, time.November, 25)
	return []store.Installation{
		{
			ID: "INST-001", Client: "Edifício Central Plaza", Country: "Brasil", City: "São Paulo",
			Status: store.StatusInProgress, ElevatorType: store.ElevatorPersonal,
			StartDate: store.NewDate(2024, time.August, 1), Deadline: store.NewDate(2024, time.December, 15),
			Cost: 45000, Progress: 65, Responsible: "João Silva",
		},
		{
			ID: "INST-002", Client: "Hospital São Lucas", Country: "Argentina", City: "Buenos Aires",
			Status: store.StatusCompleted, ElevatorType: store.ElevatorHospital,
			StartDate: store.NewDate(2024, time.June, 10), Deadline: store.NewDate(2024, time.November, 30),
			CompletionDate: &done, Cost: 38000.5, Progress: 100, Responsible: "Maria García",
		},
		{
			ID: "INST-003", Client: "Shopping Premium", Country: "Chile",
			Status: store.StatusLate, ElevatorType: store.ElevatorPanoramic,
			StartDate: store.NewDate(2024, time.July, 15), Deadline: store.NewDate(2024, time.November, 20),
			Cost: 1250000, Progress: 40,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{
		"ID", "Client", "Country", "City", "Status", "Elevator Type",
		"Start", "Deadline", "Completed", "Cost", "Cost (formatted)", "Progress (%)", "Responsible",
	}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "INST-001" {
		t.Fatalf("ID = %q, want INST-001", row[0])
	}
	if row[1] != "Edifício Central Plaza" {
		t.Fatalf("Client = %q", row[1])
	}
	if row[4] != "In progress" {
		t.Fatalf("Status = %q, want In progress", row[4])
	}
	if row[7] != "2024-12-15" {
		t.Fatalf("Deadline = %q, want 2024-12-15", row[7])
	}
	if row[8] != "" {
		t.Fatalf("unfinished installation should have empty completion, got %q", row[8])
	}
	if row[9] != "45000" {
		t.Fatalf("Cost = %q, want 45000", row[9])
	}
	if row[10] != "$45,000" {
		t.Fatalf("Cost (formatted) = %q, want $45,000", row[10])
	}
	if row[11] != "65" {
		t.Fatalf("Progress = %q, want 65", row[11])
	}

	completed := records[2]
	if completed[8] != "2024-11-25" {
		t.Fatalf("Completed = %q, want 2024-11-25", completed[8])
	}
	if completed[9] != "38000.5" {
		t.Fatalf("Cost = %q, want 38000.5", completed[9])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	data := sampleData()[:1]
	data[0].Client = `Torre "Norte", Bloco A`
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(data, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != `Torre "Norte", Bloco A` {
		t.Fatalf("client mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if len(result.Installations) != 3 {
		t.Fatalf("installations = %d, want 3", len(result.Installations))
	}
	if result.TotalCost != 1333000.5 {
		t.Fatalf("total_cost = %v, want 1333000.5", result.TotalCost)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	first := result.Installations[0]
	if first.ID != "INST-001" || first.Status != "in_progress" || first.ElevatorType != "personal" {
		t.Fatalf("unexpected first installation: %+v", first)
	}
	if first.CompletionDate != "" {
		t.Fatalf("completion_date should be empty, got %q", first.CompletionDate)
	}
	if result.Installations[1].CompletionDate != "2024-11-25" {
		t.Fatalf("completion_date = %q", result.Installations[1].CompletionDate)
	}
	if result.Installations[2].City != "" {
		t.Fatalf("city = %q, want empty", result.Installations[2].City)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Installations != nil {
		t.Fatal("installations should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed with indentation")
	}
}

// ============================================================
// FormatCost
// ============================================================

func TestFormatCost(t *testing.T) {
	tests := []struct {
		cost float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{45000, "$45,000"},
		{38000.5, "$38,001"},
		{1250000, "$1,250,000"},
	}

	for _, tt := range tests {
		if got := FormatCost(tt.cost); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.cost, got, tt.want)
		}
	}
}
