package aggregation

import (
	"sort"
	"strings"

	"github.com/vfg2006/casos-es-api/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newNameOrder devolve uma comparação alfabética em pt-BR ("Água Doce" antes de
// "Alegre" é decidido pelo collator, não pelos bytes). Nomes que o collator
// considera iguais caem na comparação de bytes para manter a ordem total.
// O collator não é seguro para uso concorrente, por isso um novo a cada chamada.
func newNameOrder() func(a, b string) bool {
	collator := collate.New(language.BrazilianPortuguese)
	return func(a, b string) bool {
		if c := collator.CompareString(a, b); c != 0 {
			return c < 0
		}
		return a < b
	}
}

// Options lista doenças e municípios distintos presentes na tabela, ordenados e
// sem valores ausentes ou em branco. A lista de municípios começa com
// domain.AllMunicipalities; um município gravado com o mesmo nome do sentinela
// não é listado de novo, já que selecioná-lo desativaria o filtro.
func Options(dataset []domain.CaseRecord) domain.Options {
	diseases := distinct(dataset, func(r domain.CaseRecord) *string { return r.Description })
	municipalities := distinct(dataset, func(r domain.CaseRecord) *string { return r.Municipality }, domain.AllMunicipalities)

	return domain.Options{
		Diseases:       diseases,
		Municipalities: append([]string{domain.AllMunicipalities}, municipalities...),
	}
}

func distinct(dataset []domain.CaseRecord, field func(domain.CaseRecord) *string, reserved ...string) []string {
	seen := make(map[string]struct{})
	for _, value := range reserved {
		seen[value] = struct{}{}
	}

	values := make([]string, 0)
	for _, record := range dataset {
		value := field(record)
		if value == nil || strings.TrimSpace(*value) == "" {
			continue
		}
		if _, ok := seen[*value]; ok {
			continue
		}
		seen[*value] = struct{}{}
		values = append(values, *value)
	}

	less := newNameOrder()
	sort.Slice(values, func(i, j int) bool {
		return less(values[i], values[j])
	})
	return values
}
