package dashboard

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// Erros de validação da seleção
	ErrDiseaseRequired     = errors.New("disease must not be blank")
	ErrUnknownDisease      = errors.New("disease not found in dataset")
	ErrUnknownMunicipality = errors.New("municipality not found in dataset")

	// Erros da fonte de dados
	ErrFetchCases   = errors.New("error fetching case notifications")
	ErrEmptyDataset = errors.New("dataset has no diseases to select")

	ErrGenerateID = errors.New("error generating render ID")
)

// DashboardError carrega o código de API junto do erro de origem
type DashboardError struct {
	Err     error
	Code    string
	Details string
}

func (e *DashboardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *DashboardError) Unwrap() error {
	return e.Err
}

func NewDashboardError(err error, code string, details string) *DashboardError {
	return &DashboardError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
