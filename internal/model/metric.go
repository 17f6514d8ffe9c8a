package model

import (
	"fmt"
	"slices"
)

// Department is the government area a metric or alert belongs to
type Department string

const (
	DepartmentSaude          Department = "Saúde"
	DepartmentEducacao       Department = "Educação"
	DepartmentInfraestrutura Department = "Infraestrutura"
	DepartmentFinancas       Department = "Finanças"
	DepartmentAdministracao  Department = "Administração"
	DepartmentSeguranca      Department = "Segurança"
	DepartmentLimpeza        Department = "Limpeza Urbana"
	DepartmentTransito       Department = "Trânsito"
	DepartmentPolitico       Department = "Político"
)

// Departments lists every department in display order
var Departments = []Department{
	DepartmentSaude,
	DepartmentEducacao,
	DepartmentInfraestrutura,
	DepartmentFinancas,
	DepartmentAdministracao,
	DepartmentSeguranca,
	DepartmentLimpeza,
	DepartmentTransito,
	DepartmentPolitico,
}

// Valid reports whether d is one of the known departments
func (d Department) Valid() bool {
	return slices.Contains(Departments, d)
}

// Tier is the traffic-light status of a metric or alert
type Tier string

const (
	TierGreen  Tier = "GREEN"
	TierYellow Tier = "YELLOW"
	TierRed    Tier = "RED"
)

// ParseTier accepts both the English tiers and the VERDE/AMARELO/VERMELHO labels
func ParseTier(s string) (Tier, error) {
	switch s {
	case "GREEN", "VERDE":
		return TierGreen, nil
	case "YELLOW", "AMARELO":
		return TierYellow, nil
	case "RED", "VERMELHO":
		return TierRed, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Thresholds bound the tiers of a metric
type Thresholds struct {
	Warning        float64 `json:"warning" bson:"warning"`
	Critical       float64 `json:"critical" bson:"critical"`
	HigherIsBetter bool    `json:"higherIsBetter" bson:"higherIsBetter"`
}

// EvaluateTier maps a value to its tier. It is pure: the result depends only on its arguments.
func EvaluateTier(value float64, t Thresholds) Tier {
	if t.HigherIsBetter {
		switch {
		case value < t.Critical:
			return TierRed
		case value < t.Warning:
			return TierYellow
		default:
			return TierGreen
		}
	}
	switch {
	case value > t.Critical:
		return TierRed
	case value > t.Warning:
		return TierYellow
	default:
		return TierGreen
	}
}

// HospitalUnit is the per-unit breakdown of the hospital occupancy metric
type HospitalUnit struct {
	Name      string `json:"name" bson:"name"`
	Occupancy int    `json:"occupancy" bson:"occupancy"` // percent
	TotalBeds int    `json:"totalBeds" bson:"totalBeds"`
}

// HealthNetworkNode is the per-neighborhood breakdown of the health network metric
type HealthNetworkNode struct {
	Neighborhood string `json:"neighborhood" bson:"neighborhood"`
	UBS          int    `json:"ubs" bson:"ubs"`
	UPA          int    `json:"upa" bson:"upa"`
}

// Metric is one indicator of a municipality
type Metric struct {
	ID             string     `json:"id" bson:"_id"`
	MunicipalityID string     `json:"municipalityId" bson:"municipalityId"`
	Name           string     `json:"name" bson:"name"`
	Value          float64    `json:"value" bson:"value"`
	Unit           string     `json:"unit" bson:"unit"`
	PreviousValue  float64    `json:"previousValue" bson:"previousValue"`
	Thresholds     Thresholds `json:"thresholds" bson:"thresholds"`
	Department     Department `json:"department" bson:"department"`

	HospitalUnits []HospitalUnit      `json:"hospitalUnits,omitempty" bson:"hospitalUnits,omitempty"`
	HealthNetwork []HealthNetworkNode `json:"healthNetwork,omitempty" bson:"healthNetwork,omitempty"`
}

// Status evaluates the metric's current tier
func (m Metric) Status() Tier {
	return EvaluateTier(m.Value, m.Thresholds)
}

// Trend is the percent change from PreviousValue, 0 when there is no previous value
func (m Metric) Trend() float64 {
	if m.PreviousValue == 0 {
		return 0
	}
	return (m.Value - m.PreviousValue) / m.PreviousValue * 100
}

// MetricView is a metric with its derived status, as rendered on the dashboard
type MetricView struct {
	Metric
	Status Tier    `json:"status"`
	Trend  float64 `json:"trend"`
}

// View derives the dashboard representation of m
func (m Metric) View() MetricView {
	return MetricView{Metric: m, Status: m.Status(), Trend: m.Trend()}
}
