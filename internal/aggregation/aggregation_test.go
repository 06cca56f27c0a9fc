package aggregation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/casos-es-api/internal/domain"
)

func record(desc, mun, date, class, outcome string) domain.CaseRecord {
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

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func sampleDataset() []domain.CaseRecord {
	return []domain.CaseRecord{
		record("Zika", "Vitória", "2024-01-03", "Confirmado Laboratorial", "Cura"),
		record("Chikungunya", "Serra", "2024-01-04", "Confirmado Clínico-Epidemiológico", "Óbito pelo agravo notificado"),
		record("Zika", "Serra", "2024-01-10", "Descartado", "Cura"),
		record("Zika", "Vitória", "2024-01-10", "Descartado", "Cura"),
		record("Zika", "", "data inválida", "", ""),
		record("", "Vila Velha", "2024-01-11", "Confirmado Laboratorial", "Cura"),
	}
}

func TestFilter(t *testing.T) {
	dataset := sampleDataset()

	tests := []struct {
		name         string
		disease      string
		municipality string
		wantRows     []int
	}{
		{name: "todos os municípios", disease: "Zika", municipality: domain.AllMunicipalities, wantRows: []int{0, 2, 3, 4}},
		{name: "município vazio não desativa o filtro", disease: "Zika", municipality: "", wantRows: []int{}},
		{name: "doença e município", disease: "Zika", municipality: "Vitória", wantRows: []int{0, 3}},
		{name: "sem correspondência", disease: "Dengue", municipality: domain.AllMunicipalities, wantRows: []int{}},
		{name: "município sem a doença", disease: "Chikungunya", municipality: "Vitória", wantRows: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(dataset, tt.disease, tt.municipality)

			require.NotNil(t, got)
			require.Len(t, got, len(tt.wantRows))
			for i, row := range tt.wantRows {
				assert.Equal(t, dataset[row], got[i])
			}
		})
	}
}

func TestFilter_AllIsSupersetOfMunicipality(t *testing.T) {
	dataset := sampleDataset()
	all := Filter(dataset, "Zika", domain.AllMunicipalities)

	for _, municipality := range []string{"Vitória", "Serra", "Vila Velha", "Cariacica"} {
		subset := Filter(dataset, "Zika", municipality)
		for _, row := range subset {
			assert.Contains(t, all, row)
			assert.Equal(t, municipality, *row.Municipality)
			assert.Equal(t, "Zika", *row.Description)
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	dataset := sampleDataset()
	before := sampleDataset()

	_ = Filter(dataset, "Zika", "Vitória")
	_ = FilterByDisease(dataset, "Zika")

	assert.Equal(t, before, dataset)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		subset []domain.CaseRecord
		want   domain.Metrics
	}{
		{
			name:   "subconjunto vazio",
			subset: []domain.CaseRecord{},
			want:   domain.Metrics{},
		},
		{
			name: "exemplo de referência",
			subset: []domain.CaseRecord{
				record("Zika", "Vitória", "2024-01-03", "Confirmado Laboratorial", "Cura"),
				record("Zika", "Vitória", "2024-01-10", "Descartado", "Cura"),
			},
			want: domain.Metrics{Total: 2, Confirmed: 1, Deaths: 0},
		},
		{
			name: "maiúsculas, minúsculas e acento decomposto",
			subset: []domain.CaseRecord{
				record("Zika", "Serra", "2024-01-03", "CONFIRMADO CLÍNICO", "ÓBITO pelo agravo"),
				record("Zika", "Serra", "2024-01-03", "caso confirmado", "óbito por outras causas"),
				record("Zika", "Serra", "2024-01-03", "Inconclusivo", "O\u0301BITO"),
				record("Zika", "Serra", "2024-01-03", "Inconclusivo", "Obito sem acento"),
			},
			want: domain.Metrics{Total: 4, Confirmed: 2, Deaths: 3},
		},
		{
			name: "valores ausentes não contam",
			subset: []domain.CaseRecord{
				record("Zika", "Serra", "2024-01-03", "", ""),
				record("Zika", "Serra", "2024-01-03", "", "Óbito"),
			},
			want: domain.Metrics{Total: 2, Confirmed: 0, Deaths: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.subset)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.subset), got.Total)
			assert.LessOrEqual(t, got.Confirmed, got.Total)
			assert.LessOrEqual(t, got.Deaths, got.Total)
		})
	}
}

func TestParseNotificationDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Time
		wantOK bool
	}{
		{raw: "2024-01-03", want: day(2024, 1, 3), wantOK: true},
		{raw: " 2024-01-03 ", want: day(2024, 1, 3), wantOK: true},
		{raw: "2024-01-03T00:00:00Z", want: day(2024, 1, 3), wantOK: true},
		{raw: "2024-01-07T23:30:00-03:00", want: day(2024, 1, 7), wantOK: true},
		{raw: "2024-01-03 14:20:00", want: day(2024, 1, 3), wantOK: true},
		{raw: "03/01/2024", want: day(2024, 1, 3), wantOK: true},
		{raw: "2024-13-40", wantOK: false},
		{raw: "não informado", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseNotificationDate(&tt.raw)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	_, ok := ParseNotificationDate(nil)
	assert.False(t, ok)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date time.Time
		want time.Time
	}{
		{date: day(2024, 1, 1), want: day(2024, 1, 1)},                               // segunda-feira
		{date: day(2024, 1, 3), want: day(2024, 1, 1)},                               // quarta-feira
		{date: day(2024, 1, 7), want: day(2024, 1, 1)},                               // domingo fecha a semana
		{date: day(2024, 1, 8), want: day(2024, 1, 8)},                               // nova semana
		{date: day(2023, 1, 1), want: day(2022, 12, 26)},                             // virada de ano
		{date: time.Date(2024, 1, 3, 18, 45, 0, 0, time.UTC), want: day(2024, 1, 1)}, // hora descartada
	}

	for _, tt := range tests {
		t.Run(tt.date.Format(time.RFC3339), func(t *testing.T) {
			got := WeekStart(tt.date)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestWeeklyCounts(t *testing.T) {
	tests := []struct {
		name        string
		subset      []domain.CaseRecord
		opts        WeeklyOptions
		wantPoints  []domain.WeeklyPoint
		wantDropped int
	}{
		{
			name:       "subconjunto vazio",
			subset:     []domain.CaseRecord{},
			wantPoints: []domain.WeeklyPoint{},
		},
		{
			name: "exemplo de referência",
			subset: []domain.CaseRecord{
				record("Zika", "Vitória", "2024-01-03", "Confirmado Laboratorial", "Cura"),
				record("Zika", "Vitória", "2024-01-10", "Descartado", "Cura"),
			},
			wantPoints: []domain.WeeklyPoint{
				{WeekStart: day(2024, 1, 1), Cases: 1},
				{WeekStart: day(2024, 1, 8), Cases: 1},
			},
		},
		{
			name: "ordem de entrada não importa e datas inválidas são descartadas",
			subset: []domain.CaseRecord{
				record("Zika", "Serra", "2024-01-10", "", ""),
				record("Zika", "Serra", "2024-01-07", "", ""),
				record("Zika", "Serra", "2024-01-01", "", ""),
				record("Zika", "Serra", "sem data", "", ""),
				record("Zika", "Serra", "", "", ""),
			},
			wantPoints: []domain.WeeklyPoint{
				{WeekStart: day(2024, 1, 1), Cases: 2},
				{WeekStart: day(2024, 1, 8), Cases: 1},
			},
			wantDropped: 2,
		},
		{
			name: "sem preenchimento as semanas vazias são omitidas",
			subset: []domain.CaseRecord{
				record("Zika", "Serra", "2024-01-03", "", ""),
				record("Zika", "Serra", "2024-01-24", "", ""),
			},
			wantPoints: []domain.WeeklyPoint{
				{WeekStart: day(2024, 1, 1), Cases: 1},
				{WeekStart: day(2024, 1, 22), Cases: 1},
			},
		},
		{
			name: "com preenchimento as semanas vazias recebem zero",
			subset: []domain.CaseRecord{
				record("Zika", "Serra", "2024-01-24", "", ""),
				record("Zika", "Serra", "2024-01-03", "", ""),
			},
			opts: WeeklyOptions{ZeroFill: true},
			wantPoints: []domain.WeeklyPoint{
				{WeekStart: day(2024, 1, 1), Cases: 1},
				{WeekStart: day(2024, 1, 8), Cases: 0},
				{WeekStart: day(2024, 1, 15), Cases: 0},
				{WeekStart: day(2024, 1, 22), Cases: 1},
			},
		},
		{
			name: "preenchimento sem datas válidas",
			subset: []domain.CaseRecord{
				record("Zika", "Serra", "???", "", ""),
			},
			opts:        WeeklyOptions{ZeroFill: true},
			wantPoints:  []domain.WeeklyPoint{},
			wantDropped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeeklyCounts(tt.subset, tt.opts)

			assert.Equal(t, tt.wantPoints, got.Points)
			assert.Equal(t, tt.wantDropped, got.Dropped)

			for i := 1; i < len(got.Points); i++ {
				assert.True(t, got.Points[i-1].WeekStart.Before(got.Points[i].WeekStart), "semanas devem ser estritamente crescentes")
			}
		})
	}
}

func TestWeeklyCounts_ZeroFillLimit(t *testing.T) {
	t.Run("datas extremas não preenchem milhares de semanas", func(t *testing.T) {
		subset := []domain.CaseRecord{
			record("Zika", "Serra", "0001-01-01", "", ""),
			record("Zika", "Serra", "9999-12-31", "", ""),
		}

		got := WeeklyCounts(subset, WeeklyOptions{ZeroFill: true})

		assert.True(t, got.ZeroFillSkipped)
		require.Len(t, got.Points, 2)
		assert.Equal(t, 1, got.Points[0].Cases)
		assert.Equal(t, 1, got.Points[1].Cases)
	})

	t.Run("ano digitado errado", func(t *testing.T) {
		subset := []domain.CaseRecord{
			record("Zika", "Serra", "2024-01-03", "", ""),
			record("Zika", "Serra", "2204-01-03", "", ""),
		}

		got := WeeklyCounts(subset, WeeklyOptions{ZeroFill: true})

		assert.True(t, got.ZeroFillSkipped)
		assert.Len(t, got.Points, 2)
	})

	t.Run("intervalo no limite é preenchido", func(t *testing.T) {
		first := day(2024, 1, 1)
		last := first.AddDate(0, 0, 7*(MaxZeroFillWeeks-1))
		subset := []domain.CaseRecord{
			record("Zika", "Serra", first.Format("2006-01-02"), "", ""),
			record("Zika", "Serra", last.Format("2006-01-02"), "", ""),
		}

		got := WeeklyCounts(subset, WeeklyOptions{ZeroFill: true})

		assert.False(t, got.ZeroFillSkipped)
		require.Len(t, got.Points, MaxZeroFillWeeks)
		assert.Equal(t, last, got.Points[MaxZeroFillWeeks-1].WeekStart)
	})

	t.Run("sem preenchimento o limite não se aplica", func(t *testing.T) {
		subset := []domain.CaseRecord{
			record("Zika", "Serra", "2024-01-03", "", ""),
			record("Zika", "Serra", "2204-01-03", "", ""),
		}

		got := WeeklyCounts(subset, WeeklyOptions{})

		assert.False(t, got.ZeroFillSkipped)
		assert.Len(t, got.Points, 2)
	})
}

func TestTopMunicipalities(t *testing.T) {
	t.Run("exemplo de referência", func(t *testing.T) {
		dataset := []domain.CaseRecord{
			record("Zika", "Vitória", "2024-01-03", "Confirmado Laboratorial", "Cura"),
			record("Zika", "Vitória", "2024-01-10", "Descartado", "Cura"),
		}

		got := TopMunicipalities(dataset, "Zika", 15)
		assert.Equal(t, []domain.MunicipalityCount{{Municipality: "Vitória", Cases: 2}}, got)
	})

	t.Run("ignora outras doenças e municípios ausentes", func(t *testing.T) {
		got := TopMunicipalities(sampleDataset(), "Zika", 15)

		assert.Equal(t, []domain.MunicipalityCount{
			{Municipality: "Vitória", Cases: 2},
			{Municipality: "Serra", Cases: 1},
		}, got)
	})

	t.Run("empates em ordem alfabética", func(t *testing.T) {
		dataset := []domain.CaseRecord{
			record("Zika", "Vitória", "", "", ""),
			record("Zika", "Alegre", "", "", ""),
			record("Zika", "Água Doce do Norte", "", "", ""),
			record("Zika", "Serra", "", "", ""),
			record("Zika", "Serra", "", "", ""),
		}

		got := TopMunicipalities(dataset, "Zika", 15)
		assert.Equal(t, []domain.MunicipalityCount{
			{Municipality: "Serra", Cases: 2},
			{Municipality: "Água Doce do Norte", Cases: 1},
			{Municipality: "Alegre", Cases: 1},
			{Municipality: "Vitória", Cases: 1},
		}, got)
	})

	t.Run("trunca no padrão de 15", func(t *testing.T) {
		dataset := make([]domain.CaseRecord, 0)
		for i := 1; i <= 20; i++ {
			for j := 0; j < i; j++ {
				dataset = append(dataset, record("Zika", fmt.Sprintf("Município %02d", i), "", "", ""))
			}
		}

		got := TopMunicipalities(dataset, "Zika", 0)
		require.Len(t, got, domain.DefaultTopN)
		assert.Equal(t, domain.MunicipalityCount{Municipality: "Município 20", Cases: 20}, got[0])
		assert.Equal(t, domain.MunicipalityCount{Municipality: "Município 06", Cases: 6}, got[14])

		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Cases, got[i].Cases)
		}

		assert.Len(t, TopMunicipalities(dataset, "Zika", 3), 3)
	})

	t.Run("doença sem casos", func(t *testing.T) {
		got := TopMunicipalities(sampleDataset(), "Dengue", 15)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestOptions(t *testing.T) {
	dataset := []domain.CaseRecord{
		record("Zika", "Vitória", "", "", ""),
		record("Chikungunya", "Alegre", "", "", ""),
		record("Zika", "Água Doce do Norte", "", "", ""),
		record("", "Vitória", "", "", ""),
		record("Zika", "", "", "", ""),
	}

	got := Options(dataset)

	assert.Equal(t, []string{"Chikungunya", "Zika"}, got.Diseases)
	assert.Equal(t, []string{domain.AllMunicipalities, "Água Doce do Norte", "Alegre", "Vitória"}, got.Municipalities)

	empty := Options(nil)
	assert.Empty(t, empty.Diseases)
	assert.Equal(t, []string{domain.AllMunicipalities}, empty.Municipalities)
}

func TestOptions_BlankAndSentinelValues(t *testing.T) {
	blank := record("Zika", "", "", "", "")
	blank.Municipality = domain.StringPtr("")
	spaces := record("  ", "Serra", "", "", "")
	dataset := []domain.CaseRecord{
		blank,
		spaces,
		record("Zika", domain.AllMunicipalities, "", "", ""),
		record("Zika", "Serra", "", "", ""),
	}

	got := Options(dataset)

	assert.Equal(t, []string{"Zika"}, got.Diseases)
	assert.Equal(t, []string{domain.AllMunicipalities, "Serra"}, got.Municipalities)

	t.Run("cada opção listada seleciona linhas", func(t *testing.T) {
		for _, municipality := range got.Municipalities {
			assert.NotEmpty(t, Filter(dataset, "Zika", municipality), municipality)
		}
	})

	t.Run("município vazio não é selecionável", func(t *testing.T) {
		assert.Empty(t, Filter(dataset, "Zika", ""))
	})

	assert.Equal(t, 1, Audit(dataset, time.Time{}).Municipalities)
}

func TestAudit(t *testing.T) {
	now := time.Date(2024, 2, 1, 3, 0, 0, 0, time.UTC)

	got := Audit(sampleDataset(), now)

	assert.Equal(t, domain.DatasetAudit{
		Rows:                       6,
		MissingDescription:         1,
		MissingMunicipality:        1,
		UnparseableDate:            1,
		MissingFinalClassification: 1,
		MissingCaseOutcome:         1,
		Diseases:                   2,
		Municipalities:             3,
		AuditedAt:                  now,
	}, got)
}

func TestAggregators_AreIdempotent(t *testing.T) {
	dataset := sampleDataset()
	subset := Filter(dataset, "Zika", domain.AllMunicipalities)

	assert.Equal(t, Summarize(subset), Summarize(subset))
	assert.Equal(t, WeeklyCounts(subset, WeeklyOptions{}), WeeklyCounts(subset, WeeklyOptions{}))
	assert.Equal(t, TopMunicipalities(dataset, "Zika", 15), TopMunicipalities(dataset, "Zika", 15))
	assert.Equal(t, Options(dataset), Options(dataset))
}
