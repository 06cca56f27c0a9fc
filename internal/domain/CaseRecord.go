// Package domain contém as estruturas de dados do painel de casos
package domain

// CaseRecord é uma notificação de agravo. Todos os campos podem estar ausentes na fonte.
type CaseRecord struct {
	Description         *string `json:"descricao" yaml:"descricao"`
	Municipality        *string `json:"municipio_paciente" yaml:"municipio_paciente"`
	NotificationDate    *string `json:"data_notificacao" yaml:"data_notificacao"` // Texto bruto, interpretado pela série semanal
	FinalClassification *string `json:"classif_final" yaml:"classif_final"`
	CaseOutcome         *string `json:"evoluc_caso" yaml:"evoluc_caso"`
}

// StringPtr facilita a montagem de registros em fixtures e testes
func StringPtr(s string) *string {
	return &s
}
