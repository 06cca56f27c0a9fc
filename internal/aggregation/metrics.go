package aggregation

import (
	"strings"

	"github.com/vfg2006/casos-es-api/internal/domain"
	"golang.org/x/text/unicode/norm"
)

const (
	confirmedMarker = "Confirmado"
	deathMarker     = "Óbito"
)

// Summarize calcula total, confirmados e óbitos de um subconjunto
func Summarize(subset []domain.CaseRecord) domain.Metrics {
	confirmed := fold(confirmedMarker)
	death := fold(deathMarker)

	metrics := domain.Metrics{Total: len(subset)}
	for _, record := range subset {
		if containsFold(record.FinalClassification, confirmed) {
			metrics.Confirmed++
		}
		if containsFold(record.CaseOutcome, death) {
			metrics.Deaths++
		}
	}
	return metrics
}

// fold normaliza para NFC antes de converter para minúsculas, assim "Ó" composto
// e "O" + acento combinante são equivalentes.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// containsFold é falso para valores ausentes
func containsFold(value *string, foldedSubstr string) bool {
	if value == nil {
		return false
	}
	return strings.Contains(fold(*value), foldedSubstr)
}
