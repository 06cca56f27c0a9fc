package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vfg2006/casos-es-api/infrastructure/repository"
	"github.com/vfg2006/casos-es-api/internal/aggregation"
	"github.com/vfg2006/casos-es-api/internal/config"
	"github.com/vfg2006/casos-es-api/internal/domain"
	"github.com/vfg2006/casos-es-api/pkg/apiErrors"
	"github.com/vfg2006/casos-es-api/pkg/log"
	"github.com/vfg2006/casos-es-api/pkg/metrics"
	"github.com/vfg2006/casos-es-api/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// DashboardService executa um ciclo de renderização completo por chamada
type DashboardService interface {
	GetOptions(ctx context.Context) (*domain.Options, error)
	Render(ctx context.Context, request domain.DashboardRequest) (*domain.Dashboard, error)
}

type Service struct {
	caseRepository repository.CaseNotificationRepository
	recorder       *metrics.Recorder
	topN           int
	weeklyZeroFill bool
	now            func() time.Time
	generateID     func() (string, error)
}

func NewService(
	caseRepository repository.CaseNotificationRepository,
	recorder *metrics.Recorder,
	cfg config.Dashboard,
) DashboardService {
	topN := cfg.TopN
	if topN <= 0 {
		topN = domain.DefaultTopN
	}

	return &Service{
		caseRepository: caseRepository,
		recorder:       recorder,
		topN:           topN,
		weeklyZeroFill: cfg.WeeklyZeroFill,
		now:            time.Now,
		generateID:     utils.GenerateID,
	}
}

func (s *Service) GetOptions(ctx context.Context) (*domain.Options, error) {
	dataset, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	options := aggregation.Options(dataset)
	return &options, nil
}

func (s *Service) Render(ctx context.Context, request domain.DashboardRequest) (*domain.Dashboard, error) {
	logger := log.ForContext(ctx)

	dataset, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	selection, err := resolveSelection(aggregation.Options(dataset), request)
	if err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"doenca":    request.Disease,
			"municipio": request.Municipality,
		}).Warn("dashboard: seleção inválida")
		return nil, err
	}

	zeroFill := s.weeklyZeroFill
	if request.ZeroFill != nil {
		zeroFill = *request.ZeroFill
	}

	subset := aggregation.Filter(dataset, selection.Disease, selection.Municipality)
	weekly := aggregation.WeeklyCounts(subset, aggregation.WeeklyOptions{ZeroFill: zeroFill})

	renderID, err := s.generateID()
	if err != nil {
		return nil, NewDashboardError(ErrGenerateID, apiErrors.ErrInternalServer, err.Error())
	}

	dashboard := &domain.Dashboard{
		RenderID:          renderID,
		GeneratedAt:       s.now(),
		Selection:         selection,
		Metrics:           aggregation.Summarize(subset),
		Weekly:            weekly,
		TopMunicipalities: aggregation.TopMunicipalities(dataset, selection.Disease, s.topN),
		Titles: domain.ChartTitles{
			Weekly:            fmt.Sprintf("Evolução semanal dos casos de %s", selection.Disease),
			TopMunicipalities: fmt.Sprintf("Top %d municípios com mais casos de %s", s.topN, selection.Disease),
		},
	}

	if weekly.Dropped > 0 {
		logger.WithFields(log.Fields{
			"render_id":       renderID,
			"doenca":          selection.Disease,
			"dataset_dropped": weekly.Dropped,
		}).Debug("dashboard: linhas sem data de notificação válida descartadas da série semanal")
	}

	if weekly.ZeroFillSkipped {
		logger.WithFields(log.Fields{
			"render_id": renderID,
			"doenca":    selection.Disease,
			"semanas":   len(weekly.Points),
		}).Warn("dashboard: intervalo de datas excede o limite de preenchimento, série sem semanas vazias")
	}

	s.recorder.ObserveRender(selection.Disease, weekly.Dropped)

	logger.WithFields(log.Fields{
		"render_id": renderID,
		"doenca":    selection.Disease,
		"municipio": selection.Municipality,
		"total":     dashboard.Metrics.Total,
	}).Info("dashboard: painel renderizado")

	return dashboard, nil
}

func (s *Service) fetch(ctx context.Context) ([]domain.CaseRecord, error) {
	startedAt := time.Now()
	dataset, err := s.caseRepository.ListCases(ctx)
	s.recorder.ObserveFetch(time.Since(startedAt), err)

	if err != nil {
		log.ForContext(ctx).WithError(err).Error("dashboard: erro ao buscar notificações")
		return nil, NewDashboardError(ErrFetchCases, apiErrors.ErrDatabaseOperation, err.Error())
	}

	log.ForContext(ctx).WithField("dataset_rows", len(dataset)).Debug("dashboard: notificações carregadas")
	return dataset, nil
}

// resolveSelection aplica os padrões da tela (primeira doença, todos os
// municípios) e garante que a seleção pertence às opções da tabela.
func resolveSelection(options domain.Options, request domain.DashboardRequest) (domain.Selection, error) {
	selection := domain.Selection{
		Disease:      request.Disease,
		Municipality: request.Municipality,
	}

	if selection.Disease != "" && strings.TrimSpace(selection.Disease) == "" {
		return domain.Selection{}, NewDashboardError(ErrDiseaseRequired, apiErrors.ErrMissingRequiredData, "doenca")
	}

	if selection.Disease == "" {
		if len(options.Diseases) == 0 {
			return domain.Selection{}, NewDashboardError(ErrEmptyDataset, apiErrors.ErrEmptyDataset, "nenhuma doença disponível na fonte")
		}
		selection.Disease = options.Diseases[0]
	}

	if !slices.Contains(options.Diseases, selection.Disease) {
		return domain.Selection{}, NewDashboardError(ErrUnknownDisease, apiErrors.ErrUnknownSelection, selection.Disease)
	}

	if selection.Municipality == "" {
		selection.Municipality = domain.AllMunicipalities
	}

	if !slices.Contains(options.Municipalities, selection.Municipality) {
		return domain.Selection{}, NewDashboardError(ErrUnknownMunicipality, apiErrors.ErrUnknownSelection, selection.Municipality)
	}

	return selection, nil
}
