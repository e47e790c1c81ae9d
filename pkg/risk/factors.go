package risk

import (
	"fmt"

	"github.com/noshow-ai/platform/pkg/common/models"
	"github.com/noshow-ai/platform/pkg/features"
)

const (
	ImpactHigh   = "Alto"
	ImpactMedium = "Medio"

	// MaxFactors bounds the explanation. Rules run in priority order and
	// the list is truncated, never re-sorted, so the strongest known
	// signals always survive the cut.
	MaxFactors = 4
)

type rule struct {
	applies func(f features.Set) bool
	build   func(f features.Set) models.RiskFactor
}

var rules = []rule{
	{
		applies: func(f features.Set) bool { return f.Values["pct_no_show_historico"] > 0.4 },
		build: func(f features.Set) models.RiskFactor {
			return models.RiskFactor{
				Factor: "Historial alto de inasistencias",
				Impact: ImpactHigh,
				Value:  fmt.Sprintf("%.0f%%", f.Values["pct_no_show_historico"]*100),
			}
		},
	},
	{
		applies: func(f features.Set) bool {
			return f.Values["pct_no_show_historico"] > 0.2 && f.Values["pct_no_show_historico"] <= 0.4
		},
		build: func(f features.Set) models.RiskFactor {
			return models.RiskFactor{
				Factor: "Historial moderado de inasistencias",
				Impact: ImpactMedium,
				Value:  fmt.Sprintf("%.0f%%", f.Values["pct_no_show_historico"]*100),
			}
		},
	},
	{
		applies: func(f features.Set) bool { return f.Values["total_no_shows"] > 2 },
		build: func(f features.Set) models.RiskFactor {
			return models.RiskFactor{
				Factor: "Múltiples inasistencias previas",
				Impact: ImpactHigh,
				Value:  fmt.Sprintf("%.0f faltas", f.Values["total_no_shows"]),
			}
		},
	},
	{
		applies: func(f features.Set) bool { return f.Values["edad"] < 25 },
		build: func(f features.Set) models.RiskFactor {
			return models.RiskFactor{
				Factor: "Paciente joven",
				Impact: ImpactMedium,
				Value:  fmt.Sprintf("%.0f años", f.Values["edad"]),
			}
		},
	},
	{
		applies: func(f features.Set) bool { return f.Values["edad"] > 65 },
		build: func(f features.Set) models.RiskFactor {
			return models.RiskFactor{
				Factor: "Paciente adulto mayor",
				Impact: ImpactMedium,
				Value:  fmt.Sprintf("%.0f años", f.Values["edad"]),
			}
		},
	},
	{
		applies: func(f features.Set) bool { return f.Values["hour"] < 9 },
		build: func(f features.Set) models.RiskFactor {
			return models.RiskFactor{
				Factor: "Cita muy temprano",
				Impact: ImpactMedium,
				Value:  fmt.Sprintf("%.0f:00", f.Values["hour"]),
			}
		},
	},
	{
		applies: func(f features.Set) bool { return f.Values["hour"] > 17 },
		build: func(f features.Set) models.RiskFactor {
			return models.RiskFactor{
				Factor: "Cita muy tarde",
				Impact: ImpactMedium,
				Value:  fmt.Sprintf("%.0f:00", f.Values["hour"]),
			}
		},
	},
}

// Factors derives the ranked contributing-factor list for a prediction.
func Factors(f features.Set) []models.RiskFactor {
	factors := make([]models.RiskFactor, 0, MaxFactors)
	for _, r := range rules {
		if len(factors) == MaxFactors {
			break
		}
		if r.applies(f) {
			factors = append(factors, r.build(f))
		}
	}
	return factors
}
