// Package budget prices new installations from the costs of past ones.
package budget

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sadopc/otis/internal/store"
)

const (
	// DefaultBaseCost prices an elevator type with no history.
	DefaultBaseCost = 35000.0
	// BaselineFloors is the building height that needs no floor adjustment.
	BaselineFloors = 5

	floorRate      = 0.1
	subtotalShare  = 0.85
	additionalRate = 0.15

	MinQuantity = 1
	MaxQuantity = 20
	MinFloors   = 2
	MaxFloors   = 100
)

// ErrIncomplete means the request lacks an elevator type or country.
var ErrIncomplete = errors.New("elevator type and country are required")

type Complexity string

const (
	ComplexityLow      Complexity = "low"
	ComplexityStandard Complexity = "standard"
	ComplexityHigh     Complexity = "high"
)

var Complexities = []Complexity{ComplexityLow, ComplexityStandard, ComplexityHigh}

// Factor is the multiplier applied to the base cost.
func (c Complexity) Factor() float64 {
	switch c {
	case ComplexityHigh:
		return 1.3
	case ComplexityLow:
		return 0.8
	}
	return 1
}

func (c Complexity) Label() string {
	switch c {
	case ComplexityHigh:
		return "High"
	case ComplexityLow:
		return "Low"
	}
	return "Standard"
}

type Request struct {
	ElevatorType store.ElevatorType
	Country      string
	Quantity     int
	Floors       int
	Complexity   Complexity
}

// LineItem is one row of the itemised estimate. Money is rounded to whole
// units for display.
type LineItem struct {
	Description string
	Quantity    int
	UnitCost    int64
	Total       int64
}

// Estimate carries the unrounded per-unit figures alongside the rounded
// values shown to the user. Subtotal and AdditionalCosts are rounded
// separately from Total, so their sum may differ from Total by one.
type Estimate struct {
	BaseElevatorCost     float64
	FloorAdjustment      float64
	ComplexityAdjustment float64
	PerUnitTotal         float64
	GrandTotal           float64

	Items           []LineItem
	Subtotal        int64
	AdditionalCosts int64
	Total           int64
}

// Estimator holds cost factors precomputed from an installations dataset.
type Estimator struct {
	baseCostByType map[store.ElevatorType]float64
	countryFactor  map[string]float64
	globalAvg      float64
	types          []store.ElevatorType
	countries      []string
}

func NewEstimator(installations []store.Installation) *Estimator {
	e := &Estimator{
		baseCostByType: make(map[store.ElevatorType]float64),
		countryFactor:  make(map[string]float64),
	}
	if len(installations) == 0 {
		return e
	}

	type acc struct {
		sum float64
		n   int
	}
	byType := make(map[store.ElevatorType]*acc)
	byCountry := make(map[string]*acc)
	var total float64
	for _, inst := range installations {
		total += inst.Cost
		if byType[inst.ElevatorType] == nil {
			byType[inst.ElevatorType] = &acc{}
		}
		byType[inst.ElevatorType].sum += inst.Cost
		byType[inst.ElevatorType].n++
		if byCountry[inst.Country] == nil {
			byCountry[inst.Country] = &acc{}
		}
		byCountry[inst.Country].sum += inst.Cost
		byCountry[inst.Country].n++
	}

	for t, a := range byType {
		e.baseCostByType[t] = a.sum / float64(a.n)
		e.types = append(e.types, t)
	}
	for c := range byCountry {
		e.countries = append(e.countries, c)
	}
	sort.Slice(e.types, func(i, j int) bool { return e.types[i] < e.types[j] })
	sort.Strings(e.countries)

	e.globalAvg = total / float64(len(installations))
	if e.globalAvg > 0 {
		for c, a := range byCountry {
			e.countryFactor[c] = a.sum / float64(a.n) / e.globalAvg
		}
	}
	return e
}

// Options lists the elevator types and countries present in the dataset,
// sorted, for populating the request form.
func (e *Estimator) Options() ([]store.ElevatorType, []string) {
	types := append([]store.ElevatorType(nil), e.types...)
	countries := append([]string(nil), e.countries...)
	return types, countries
}

// BaseCost is the mean cost of type, or DefaultBaseCost when unknown.
func (e *Estimator) BaseCost(t store.ElevatorType) float64 {
	if v := e.baseCostByType[t]; v > 0 {
		return v
	}
	return DefaultBaseCost
}

// CountryFactor is the country's mean cost relative to the global mean, or
// 1 when unknown.
func (e *Estimator) CountryFactor(country string) float64 {
	if v := e.countryFactor[country]; v > 0 {
		return v
	}
	return 1
}

func (e *Estimator) Estimate(req Request) (*Estimate, error) {
	if req.ElevatorType == "" || strings.TrimSpace(req.Country) == "" {
		return nil, ErrIncomplete
	}
	qty := float64(req.Quantity)

	base := e.BaseCost(req.ElevatorType) * e.CountryFactor(req.Country)
	floorAdj := base * floorRate * float64(req.Floors-BaselineFloors)
	complexityAdj := base * (req.Complexity.Factor() - 1)
	perUnit := base + floorAdj + complexityAdj
	grand := perUnit * qty

	est := &Estimate{
		BaseElevatorCost:     base,
		FloorAdjustment:      floorAdj,
		ComplexityAdjustment: complexityAdj,
		PerUnitTotal:         perUnit,
		GrandTotal:           grand,
		Items: []LineItem{
			lineItem(fmt.Sprintf("%s elevator base", req.ElevatorType.Label()), req.Quantity, base),
			lineItem(fmt.Sprintf("Adjustment for %d floors", req.Floors), req.Quantity, floorAdj),
			lineItem(fmt.Sprintf("%s complexity adjustment", req.Complexity.Label()), req.Quantity, complexityAdj),
		},
		Subtotal:        Round(grand * subtotalShare),
		AdditionalCosts: Round(grand * additionalRate),
		Total:           Round(grand),
	}
	return est, nil
}

func lineItem(desc string, qty int, unit float64) LineItem {
	return LineItem{
		Description: desc,
		Quantity:    qty,
		UnitCost:    Round(unit),
		Total:       Round(unit * float64(qty)),
	}
}

// Round rounds half up to the nearest whole unit, so -2.5 becomes -2.
func Round(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// ParseRequest builds a request from raw form values. Non-numeric input is
// coerced to the form defaults and numbers are clamped to the accepted
// ranges.
func ParseRequest(elevatorType, country, quantity, floors, complexity string) Request {
	return Request{
		ElevatorType: store.ElevatorType(strings.TrimSpace(elevatorType)),
		Country:      strings.TrimSpace(country),
		Quantity:     clamp(parseInt(quantity, MinQuantity), MinQuantity, MaxQuantity),
		Floors:       clamp(parseInt(floors, BaselineFloors), MinFloors, MaxFloors),
		Complexity:   ParseComplexity(complexity),
	}
}

func ParseComplexity(s string) Complexity {
	switch c := Complexity(strings.ToLower(strings.TrimSpace(s))); c {
	case ComplexityLow, ComplexityHigh:
		return c
	}
	return ComplexityStandard
}

// parseInt reads a leading integer, ignoring trailing garbage such as
// "12abc". Missing digits or zero yield def.
func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return def
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
