package domain

import "time"

// DatasetAudit resume a qualidade da tabela de notificações
type DatasetAudit struct {
	Rows                       int       `json:"linhas"`
	MissingDescription         int       `json:"descricao_ausente"`
	MissingMunicipality        int       `json:"municipio_ausente"`
	UnparseableDate            int       `json:"data_invalida"`
	MissingFinalClassification int       `json:"classificacao_ausente"`
	MissingCaseOutcome         int       `json:"evolucao_ausente"`
	Diseases                   int       `json:"doencas"`
	Municipalities             int       `json:"municipios"`
	AuditedAt                  time.Time `json:"auditado_em"`
}

// MissingByColumn indexa as contagens de ausentes pelo nome da coluna na fonte
func (a DatasetAudit) MissingByColumn() map[string]int {
	return map[string]int{
		"descricao":          a.MissingDescription,
		"municipio_paciente": a.MissingMunicipality,
		"data_notificacao":   a.UnparseableDate,
		"classif_final":      a.MissingFinalClassification,
		"evoluc_caso":        a.MissingCaseOutcome,
	}
}
