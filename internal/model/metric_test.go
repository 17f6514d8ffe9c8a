package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateTier(t *testing.T) {
	lower := Thresholds{Warning: 48.6, Critical: 51.3}
	higher := Thresholds{Warning: 50, Critical: 40, HigherIsBetter: true}
	informational := Thresholds{HigherIsBetter: true}

	tests := []struct {
		name  string
		value float64
		t     Thresholds
		want  Tier
	}{
		{"lower below warning", 47, lower, TierGreen},
		{"lower at warning", 48.6, lower, TierGreen},
		{"lower between", 50, lower, TierYellow},
		{"lower at critical", 51.3, lower, TierYellow},
		{"lower above critical", 52, lower, TierRed},
		{"higher above warning", 60, higher, TierGreen},
		{"higher at warning", 50, higher, TierGreen},
		{"higher between", 45, higher, TierYellow},
		{"higher at critical", 40, higher, TierYellow},
		{"higher below critical", 39.9, higher, TierRed},
		{"zero thresholds", 0, informational, TierGreen},
		{"zero thresholds large value", 4.2e9, informational, TierGreen},
		{"zero thresholds small value", 0.01, informational, TierGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateTier(tt.value, tt.t)
			assert.Equal(t, tt.want, got)
			for i := 0; i < 3; i++ {
				assert.Equal(t, got, EvaluateTier(tt.value, tt.t), "repeated evaluation")
			}
		})
	}
}

func TestMetricTrendAndView(t *testing.T) {
	m := Metric{ID: "e1", Value: 110, PreviousValue: 100, Thresholds: Thresholds{Warning: 90, Critical: 80, HigherIsBetter: true}}
	assert.InDelta(t, 10.0, m.Trend(), 1e-9)

	v := m.View()
	assert.Equal(t, TierGreen, v.Status)
	assert.InDelta(t, 10.0, v.Trend, 1e-9)

	m.PreviousValue = 0
	assert.Zero(t, m.Trend())
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{"VERDE": TierGreen, "AMARELO": TierYellow, "VERMELHO": TierRed, "RED": TierRed} {
		got, err := ParseTier(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTier("blue")
	assert.Error(t, err)
}

func TestRoleTabs(t *testing.T) {
	assert.Equal(t, []Tab{TabDashboard, TabFeed, TabReports, TabAlerts}, RolePrefeito.VisibleTabs())
	assert.Equal(t, Tabs, RoleAdmin.VisibleTabs())
	assert.Equal(t, []Tab{TabFeed, TabDataEntry}, RoleSecretario.VisibleTabs())
	assert.Equal(t, []Tab{TabDataEntry}, RoleServidor.VisibleTabs())
	assert.Empty(t, RoleCidadao.VisibleTabs())
}
