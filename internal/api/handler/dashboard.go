package handler

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/casos-es-api/internal/domain"
	"github.com/vfg2006/casos-es-api/internal/usecases/dashboard"
	"github.com/vfg2006/casos-es-api/pkg/apiErrors"
	"github.com/vfg2006/casos-es-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Parâmetros de consulta do painel
const (
	queryDisease      = "doenca"
	queryMunicipality = "municipio"
	queryZeroFill     = "preencher_semanas"
)

// GetDashboard executa um ciclo de renderização para a seleção da query string
func GetDashboard(service dashboard.DashboardService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		query := r.URL.Query()

		request := domain.DashboardRequest{
			Disease:      query.Get(queryDisease),
			Municipality: query.Get(queryMunicipality),
		}

		if raw := query.Get(queryZeroFill); raw != "" {
			zeroFill, err := strconv.ParseBool(raw)
			if err != nil {
				logger.WithField(queryZeroFill, raw).Warn("dashboard: parâmetro preencher_semanas inválido")
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro preencher_semanas deve ser booleano", raw)
				return
			}
			request.ZeroFill = &zeroFill
		}

		result, err := service.Render(r.Context(), request)
		if err != nil {
			writeDashboardError(w, err)
			return
		}

		writeJSON(w, logger, result)
	})
}

// GetOptions lista as doenças e os municípios disponíveis para seleção
func GetOptions(service dashboard.DashboardService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		options, err := service.GetOptions(r.Context())
		if err != nil {
			writeDashboardError(w, err)
			return
		}

		writeJSON(w, logger, options)
	})
}

func writeDashboardError(w http.ResponseWriter, err error) {
	var dashboardErr *dashboard.DashboardError
	if errors.As(err, &dashboardErr) {
		apiErrors.WriteError(w, dashboardErr.Code, dashboardErr.Err.Error(), dashboardErr.Details)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao renderizar o painel", nil)
}

func writeJSON(w http.ResponseWriter, logger log.Logger, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("dashboard: erro ao enviar resposta")
	}
}
