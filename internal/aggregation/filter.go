// Package aggregation implementa os filtros e agregações do painel de casos.
//
// Todas as funções são puras: recebem a tabela completa (ou um subconjunto já
// filtrado) e nunca alteram a fatia recebida. Um ciclo de renderização pode
// chamá-las em qualquer ordem sobre o mesmo conjunto de dados.
package aggregation

import "github.com/vfg2006/casos-es-api/internal/domain"

// FilterByDisease mantém as linhas cuja descrição é igual à doença selecionada, preservando a ordem
func FilterByDisease(dataset []domain.CaseRecord, disease string) []domain.CaseRecord {
	subset := make([]domain.CaseRecord, 0)
	for _, record := range dataset {
		if equals(record.Description, disease) {
			subset = append(subset, record)
		}
	}
	return subset
}

// Filter aplica os filtros de doença e município. municipality igual a
// domain.AllMunicipalities mantém todos os municípios; qualquer outro valor,
// inclusive vazio, é comparado literalmente.
func Filter(dataset []domain.CaseRecord, disease, municipality string) []domain.CaseRecord {
	selection := domain.Selection{Disease: disease, Municipality: municipality}

	subset := make([]domain.CaseRecord, 0)
	for _, record := range dataset {
		if !equals(record.Description, disease) {
			continue
		}
		if !selection.IsAllMunicipalities() && !equals(record.Municipality, municipality) {
			continue
		}
		subset = append(subset, record)
	}
	return subset
}

func equals(value *string, expected string) bool {
	return value != nil && *value == expected
}
