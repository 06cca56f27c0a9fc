package domain

import "time"

// Metrics são os três indicadores exibidos no topo do painel
type Metrics struct {
	Total     int `json:"casos_totais"`
	Confirmed int `json:"casos_confirmados"`
	Deaths    int `json:"obitos"`
}

// WeeklyPoint é a contagem de casos de uma semana ISO (início na segunda-feira, UTC)
type WeeklyPoint struct {
	WeekStart time.Time `json:"semana"`
	Cases     int       `json:"casos"`
}

type WeeklySeries struct {
	Points  []WeeklyPoint `json:"pontos"`
	Dropped int           `json:"datas_descartadas"`
	// ZeroFillSkipped indica que o preenchimento foi pedido, mas o intervalo excedeu o limite
	ZeroFillSkipped bool `json:"preenchimento_ignorado,omitempty"`
}

type MunicipalityCount struct {
	Municipality string `json:"municipio"`
	Cases        int    `json:"casos"`
}

type ChartTitles struct {
	Weekly            string `json:"evolucao_semanal"`
	TopMunicipalities string `json:"top_municipios"`
}

// Dashboard é a saída completa de um ciclo de renderização
type Dashboard struct {
	RenderID          string              `json:"render_id"`
	GeneratedAt       time.Time           `json:"gerado_em"`
	Selection         Selection           `json:"filtros"`
	Metrics           Metrics             `json:"metricas"`
	Weekly            WeeklySeries        `json:"evolucao_semanal"`
	TopMunicipalities []MunicipalityCount `json:"top_municipios"`
	Titles            ChartTitles         `json:"titulos"`
}
