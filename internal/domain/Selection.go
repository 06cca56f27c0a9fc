package domain

// AllMunicipalities é o valor sentinela que desativa o filtro por município
const AllMunicipalities = "Todos"

// DefaultTopN é o tamanho padrão do ranking de municípios
const DefaultTopN = 15

// Selection contém os filtros ativos de um ciclo de renderização
type Selection struct {
	Disease      string `json:"doenca"`
	Municipality string `json:"municipio"`
}

// IsAllMunicipalities indica se o filtro por município está desativado. Apenas
// o sentinela desativa o filtro; a seleção vazia é resolvida antes, no caso de uso.
func (s Selection) IsAllMunicipalities() bool {
	return s.Municipality == AllMunicipalities
}

// Options são os valores selecionáveis derivados da própria tabela
type Options struct {
	Diseases       []string `json:"doencas"`
	Municipalities []string `json:"municipios"` // Sempre inicia com AllMunicipalities
}

// DashboardRequest é a seleção recebida do cliente antes da validação
type DashboardRequest struct {
	Disease      string
	Municipality string
	ZeroFill     *bool // nil usa o padrão configurado
}
