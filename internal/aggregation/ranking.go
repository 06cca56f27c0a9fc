package aggregation

import (
	"sort"

	"github.com/vfg2006/casos-es-api/internal/domain"
)

// TopMunicipalities conta os casos da doença por município, ignorando o filtro de
// município do painel. Ordena por casos (decrescente), desempata pelo nome em
// ordem alfabética e trunca em n. n <= 0 usa domain.DefaultTopN.
func TopMunicipalities(dataset []domain.CaseRecord, disease string, n int) []domain.MunicipalityCount {
	if n <= 0 {
		n = domain.DefaultTopN
	}

	counts := make(map[string]int)
	for _, record := range FilterByDisease(dataset, disease) {
		if record.Municipality == nil {
			continue
		}
		counts[*record.Municipality]++
	}

	ranking := make([]domain.MunicipalityCount, 0, len(counts))
	for municipality, cases := range counts {
		ranking = append(ranking, domain.MunicipalityCount{Municipality: municipality, Cases: cases})
	}

	less := newNameOrder()
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Cases != ranking[j].Cases {
			return ranking[i].Cases > ranking[j].Cases
		}
		return less(ranking[i].Municipality, ranking[j].Municipality)
	})

	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}
