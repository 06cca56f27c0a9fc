package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/casos-es-api/infrastructure/repository/mocks"
	"github.com/vfg2006/casos-es-api/internal/config"
	"github.com/vfg2006/casos-es-api/internal/domain"
	"github.com/vfg2006/casos-es-api/pkg/apiErrors"
	"github.com/vfg2006/casos-es-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

func caseRecord(desc, mun, date, class, outcome string) domain.CaseRecord {
	opt := func(v string) *string {
		if v == "" {
			return nil
		}
		return domain.StringPtr(v)
	}
	return domain.CaseRecord{
		Description:         opt(desc),
		Municipality:        opt(mun),
		NotificationDate:    opt(date),
		FinalClassification: opt(class),
		CaseOutcome:         opt(outcome),
	}
}

func dataset() []domain.CaseRecord {
	return []domain.CaseRecord{
		caseRecord("Zika", "Vitória", "2024-01-03", "Confirmado Laboratorial", "Cura"),
		caseRecord("Zika", "Serra", "2024-01-10", "Descartado", "Óbito pelo agravo notificado"),
		caseRecord("Zika", "Vitória", "2024-01-24", "Confirmado Clínico-Epidemiológico", "Cura"),
		caseRecord("Chikungunya", "Serra", "2024-01-04", "Confirmado Laboratorial", "Cura"),
		caseRecord("Chikungunya", "Cariacica", "sem data", "Inconclusivo", ""),
	}
}

func newTestService(repo *mocks.MockCaseNotificationRepository, cfg config.Dashboard) *Service {
	service := NewService(repo, metrics.NewRecorder(prometheus.NewRegistry()), cfg).(*Service)
	service.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }
	service.generateID = func() (string, error) { return "Ab12Cd34", nil }
	return service
}

func TestService_Render(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCaseNotificationRepository(ctrl)
	service := newTestService(mockRepo, config.Dashboard{TopN: 15})

	tests := []struct {
		name     string
		request  domain.DashboardRequest
		validate func(t *testing.T, result *domain.Dashboard)
	}{
		{
			name:    "Doença e município informados",
			request: domain.DashboardRequest{Disease: "Zika", Municipality: "Vitória"},
			validate: func(t *testing.T, result *domain.Dashboard) {
				assert.Equal(t, domain.Selection{Disease: "Zika", Municipality: "Vitória"}, result.Selection)
				assert.Equal(t, domain.Metrics{Total: 2, Confirmed: 2, Deaths: 0}, result.Metrics)
				assert.Equal(t, []domain.WeeklyPoint{
					{WeekStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Cases: 1},
					{WeekStart: time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), Cases: 1},
				}, result.Weekly.Points)
				// O ranking ignora o município selecionado
				assert.Equal(t, []domain.MunicipalityCount{
					{Municipality: "Vitória", Cases: 2},
					{Municipality: "Serra", Cases: 1},
				}, result.TopMunicipalities)
			},
		},
		{
			name:    "Sem doença usa a primeira opção e todos os municípios",
			request: domain.DashboardRequest{},
			validate: func(t *testing.T, result *domain.Dashboard) {
				assert.Equal(t, "Chikungunya", result.Selection.Disease)
				assert.Equal(t, domain.AllMunicipalities, result.Selection.Municipality)
				assert.Equal(t, domain.Metrics{Total: 2, Confirmed: 1, Deaths: 0}, result.Metrics)
				assert.Equal(t, 1, result.Weekly.Dropped)
				assert.Equal(t, "Evolução semanal dos casos de Chikungunya", result.Titles.Weekly)
				assert.Equal(t, "Top 15 municípios com mais casos de Chikungunya", result.Titles.TopMunicipalities)
			},
		},
		{
			name:    "Preenchimento de semanas pela requisição",
			request: domain.DashboardRequest{Disease: "Zika", ZeroFill: boolPtr(true)},
			validate: func(t *testing.T, result *domain.Dashboard) {
				require.Len(t, result.Weekly.Points, 4)
				assert.Equal(t, 0, result.Weekly.Points[2].Cases)
				assert.Equal(t, domain.Metrics{Total: 3, Confirmed: 2, Deaths: 1}, result.Metrics)
			},
		},
		{
			name:    "Identificação do ciclo",
			request: domain.DashboardRequest{Disease: "Zika", Municipality: domain.AllMunicipalities},
			validate: func(t *testing.T, result *domain.Dashboard) {
				assert.Equal(t, "Ab12Cd34", result.RenderID)
				assert.Equal(t, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), result.GeneratedAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().ListCases(gomock.Any()).Return(dataset(), nil)

			result, err := service.Render(context.Background(), tt.request)
			require.NoError(t, err)
			require.NotNil(t, result)
			tt.validate(t, result)
		})
	}
}

func TestService_RenderZeroFillFromConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCaseNotificationRepository(ctrl)
	service := newTestService(mockRepo, config.Dashboard{TopN: 1, WeeklyZeroFill: true})

	mockRepo.EXPECT().ListCases(gomock.Any()).Return(dataset(), nil).Times(2)

	result, err := service.Render(context.Background(), domain.DashboardRequest{Disease: "Zika"})
	require.NoError(t, err)
	assert.Len(t, result.Weekly.Points, 4)
	assert.Len(t, result.TopMunicipalities, 1)
	assert.Equal(t, "Top 1 municípios com mais casos de Zika", result.Titles.TopMunicipalities)

	result, err = service.Render(context.Background(), domain.DashboardRequest{Disease: "Zika", ZeroFill: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, result.Weekly.Points, 3)
}

func TestService_RenderErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCaseNotificationRepository(ctrl)
	service := newTestService(mockRepo, config.Dashboard{})

	tests := []struct {
		name     string
		request  domain.DashboardRequest
		rows     []domain.CaseRecord
		fetchErr error
		wantErr  error
		wantCode string
	}{
		{
			name:     "Fonte indisponível",
			fetchErr: errors.New("connection refused"),
			wantErr:  ErrFetchCases,
			wantCode: apiErrors.ErrDatabaseOperation,
		},
		{
			name:     "Doença desconhecida",
			request:  domain.DashboardRequest{Disease: "Dengue"},
			rows:     dataset(),
			wantErr:  ErrUnknownDisease,
			wantCode: apiErrors.ErrUnknownSelection,
		},
		{
			name:     "Município desconhecido",
			request:  domain.DashboardRequest{Disease: "Zika", Municipality: "Atlântida"},
			rows:     dataset(),
			wantErr:  ErrUnknownMunicipality,
			wantCode: apiErrors.ErrUnknownSelection,
		},
		{
			name:     "Doença em branco",
			request:  domain.DashboardRequest{Disease: "   "},
			rows:     dataset(),
			wantErr:  ErrDiseaseRequired,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Tabela vazia",
			rows:     []domain.CaseRecord{},
			wantErr:  ErrEmptyDataset,
			wantCode: apiErrors.ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().ListCases(gomock.Any()).Return(tt.rows, tt.fetchErr)

			result, err := service.Render(context.Background(), tt.request)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)

			var dashboardErr *DashboardError
			require.True(t, pkgerrors.As(err, &dashboardErr))
			assert.Equal(t, tt.wantCode, dashboardErr.Code)
		})
	}
}

func TestService_GetOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCaseNotificationRepository(ctrl)
	service := newTestService(mockRepo, config.Dashboard{})

	mockRepo.EXPECT().ListCases(gomock.Any()).Return(dataset(), nil)

	options, err := service.GetOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chikungunya", "Zika"}, options.Diseases)
	assert.Equal(t, []string{domain.AllMunicipalities, "Cariacica", "Serra", "Vitória"}, options.Municipalities)

	mockRepo.EXPECT().ListCases(gomock.Any()).Return(nil, errors.New("timeout"))

	options, err = service.GetOptions(context.Background())
	assert.Nil(t, options)
	assert.ErrorIs(t, err, ErrFetchCases)
}

func TestResolveSelection_EmptyMunicipalityMeansAll(t *testing.T) {
	options := domain.Options{
		Diseases:       []string{"Zika"},
		Municipalities: []string{domain.AllMunicipalities, "Serra"},
	}

	selection, err := resolveSelection(options, domain.DashboardRequest{Disease: "Zika"})
	require.NoError(t, err)
	assert.True(t, selection.IsAllMunicipalities())
	assert.Equal(t, domain.AllMunicipalities, selection.Municipality)
}

func boolPtr(b bool) *bool {
	return &b
}
