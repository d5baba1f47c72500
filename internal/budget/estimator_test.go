package budget

import (
	"testing"

	"github.com/sadopc/otis/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func single(t store.ElevatorType, country string, cost float64) []store.Installation {
	return []store.Installation{{ElevatorType: t, Country: country, Cost: cost}}
}

func TestEstimateStandardBaseline(t *testing.T) {
	e := NewEstimator(single(store.ElevatorPersonal, "Brasil", 41000))
	est, err := e.Estimate(Request{
		ElevatorType: store.ElevatorPersonal, Country: "Brasil",
		Quantity: 2, Floors: 5, Complexity: ComplexityStandard,
	})
	require.NoError(t, err)

	assert.Equal(t, 41000.0, est.BaseElevatorCost)
	assert.Equal(t, 0.0, est.FloorAdjustment)
	assert.Equal(t, 0.0, est.ComplexityAdjustment)
	assert.Equal(t, 41000.0, est.PerUnitTotal)
	assert.Equal(t, int64(82000), est.Total)
	assert.Equal(t, int64(69700), est.Subtotal)
	assert.Equal(t, int64(12300), est.AdditionalCosts)

	require.Len(t, est.Items, 3)
	assert.Equal(t, LineItem{Description: "Personal elevator base", Quantity: 2, UnitCost: 41000, Total: 82000}, est.Items[0])
	assert.Equal(t, int64(0), est.Items[1].Total)
	assert.Equal(t, int64(0), est.Items[2].Total)
}

func TestEstimateFloorAdjustment(t *testing.T) {
	e := NewEstimator(single(store.ElevatorPersonal, "Brasil", 40000))
	est, err := e.Estimate(Request{
		ElevatorType: store.ElevatorPersonal, Country: "Brasil",
		Quantity: 1, Floors: 8, Complexity: ComplexityStandard,
	})
	require.NoError(t, err)
	assert.InDelta(t, 12000, est.FloorAdjustment, 1e-6)
	assert.Equal(t, int64(52000), est.Total)
	assert.Equal(t, "Adjustment for 8 floors", est.Items[1].Description)

	short, err := e.Estimate(Request{
		ElevatorType: store.ElevatorPersonal, Country: "Brasil",
		Quantity: 1, Floors: 3, Complexity: ComplexityStandard,
	})
	require.NoError(t, err)
	assert.InDelta(t, -8000, short.FloorAdjustment, 1e-6)
	assert.Equal(t, int64(-8000), short.Items[1].UnitCost)
}

func TestEstimateComplexity(t *testing.T) {
	e := NewEstimator(single(store.ElevatorFreight, "Peru", 50000))
	tests := []struct {
		c    Complexity
		want float64
	}{
		{ComplexityLow, -10000},
		{ComplexityStandard, 0},
		{ComplexityHigh, 15000},
	}
	for _, tt := range tests {
		t.Run(string(tt.c), func(t *testing.T) {
			est, err := e.Estimate(Request{
				ElevatorType: store.ElevatorFreight, Country: "Peru",
				Quantity: 1, Floors: 5, Complexity: tt.c,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, est.ComplexityAdjustment, 1e-6)
			assert.Equal(t, Round(50000+tt.want), est.Total)
		})
	}
}

func TestEstimateFallbacks(t *testing.T) {
	e := NewEstimator(nil)
	est, err := e.Estimate(Request{
		ElevatorType: store.ElevatorHospital, Country: "Uruguai",
		Quantity: 1, Floors: 5, Complexity: ComplexityStandard,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseCost, est.BaseElevatorCost)
	assert.Equal(t, int64(35000), est.Total)
}

func TestEstimateCountryFactor(t *testing.T) {
	e := NewEstimator(store.DefaultInstallations())

	assert.InDelta(t, 40000, e.BaseCost(store.ElevatorPersonal), 1e-9)
	assert.InDelta(t, 45000.0/47000.0, e.CountryFactor("Brasil"), 1e-12)
	assert.Equal(t, 1.0, e.CountryFactor("Uruguai"))

	est, err := e.Estimate(Request{
		ElevatorType: store.ElevatorPersonal, Country: "Brasil",
		Quantity: 1, Floors: 5, Complexity: ComplexityStandard,
	})
	require.NoError(t, err)
	assert.InDelta(t, 40000*45000.0/47000.0, est.BaseElevatorCost, 1e-6)
	assert.Equal(t, int64(38298), est.Total)
}

func TestEstimateIncomplete(t *testing.T) {
	e := NewEstimator(store.DefaultInstallations())
	_, err := e.Estimate(Request{Country: "Brasil", Quantity: 1, Floors: 5})
	assert.ErrorIs(t, err, ErrIncomplete)
	_, err = e.Estimate(Request{ElevatorType: store.ElevatorPersonal, Country: " ", Quantity: 1, Floors: 5})
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestOptions(t *testing.T) {
	types, countries := NewEstimator(store.DefaultInstallations()).Options()
	assert.Equal(t, []store.ElevatorType{
		store.ElevatorFreight, store.ElevatorHospital, store.ElevatorPanoramic, store.ElevatorPersonal,
	}, types)
	assert.Equal(t, []string{"Argentina", "Brasil", "Chile", "Colômbia", "México", "Peru"}, countries)

	types, countries = NewEstimator(nil).Options()
	assert.Empty(t, types)
	assert.Empty(t, countries)
}

func TestRound(t *testing.T) {
	assert.Equal(t, int64(3), Round(2.5))
	assert.Equal(t, int64(-2), Round(-2.5))
	assert.Equal(t, int64(0), Round(0.49))
	assert.Equal(t, int64(-1), Round(-0.51))
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name                 string
		quantity, floors, cx string
		want                 Request
	}{
		{"defaults", "", "", "", Request{Quantity: 1, Floors: 5, Complexity: ComplexityStandard}},
		{"non numeric", "abc", "x", "HIGH", Request{Quantity: 1, Floors: 5, Complexity: ComplexityHigh}},
		{"zero quantity", "0", "10", "low", Request{Quantity: 1, Floors: 10, Complexity: ComplexityLow}},
		{"trailing garbage", "3x", "12 floors", "standard", Request{Quantity: 3, Floors: 12, Complexity: ComplexityStandard}},
		{"clamped high", "50", "500", "extreme", Request{Quantity: 20, Floors: 100, Complexity: ComplexityStandard}},
		{"clamped low", "-4", "1", "", Request{Quantity: 1, Floors: 2, Complexity: ComplexityStandard}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequest("", "", tt.quantity, tt.floors, tt.cx)
			assert.Equal(t, tt.want, got)
		})
	}

	req := ParseRequest(" personal ", " Brasil ", "2", "5", "standard")
	assert.Equal(t, store.ElevatorPersonal, req.ElevatorType)
	assert.Equal(t, "Brasil", req.Country)
}
