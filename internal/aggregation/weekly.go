package aggregation

import (
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/casos-es-api/internal/domain"
)

// Formatos aceitos para data_notificacao, na ordem em que são tentados.
// RFC3339Nano cobre colunas DATE/TIMESTAMP lidas como texto pelo database/sql.
var notificationDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02/01/2006 15:04:05",
}

// MaxZeroFillWeeks limita o intervalo preenchido com zeros (dez anos). Acima
// disso, em geral por uma data digitada com o ano errado, a série volta a
// conter apenas as semanas com casos e WeeklySeries.ZeroFillSkipped é marcado.
const MaxZeroFillWeeks = 520

// WeeklyOptions controla o formato da série semanal
type WeeklyOptions struct {
	// ZeroFill emite semanas sem casos entre a primeira e a última semana com casos
	ZeroFill bool
}

// ParseNotificationDate interpreta a data de notificação. Apenas a data do
// calendário, como escrita na fonte, é mantida; o resultado é meia-noite UTC.
func ParseNotificationDate(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}

	value := strings.TrimSpace(*raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range notificationDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// WeekStart retorna a segunda-feira (ISO-8601) da semana que contém date, à meia-noite UTC
func WeekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeeklyCounts agrupa o subconjunto por semana ISO. Linhas com data ausente ou
// inválida são descartadas e contadas em Dropped.
func WeeklyCounts(subset []domain.CaseRecord, opts WeeklyOptions) domain.WeeklySeries {
	buckets := make(map[time.Time]int)
	dropped := 0

	for _, record := range subset {
		date, ok := ParseNotificationDate(record.NotificationDate)
		if !ok {
			dropped++
			continue
		}
		buckets[WeekStart(date)]++
	}

	weeks := make([]time.Time, 0, len(buckets))
	for week := range buckets {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].Before(weeks[j])
	})

	series := domain.WeeklySeries{Dropped: dropped}

	if opts.ZeroFill && len(weeks) > 0 {
		first, last := weeks[0], weeks[len(weeks)-1]
		if spanWeeks(first, last) <= MaxZeroFillWeeks {
			series.Points = make([]domain.WeeklyPoint, 0, spanWeeks(first, last))
			for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
				series.Points = append(series.Points, domain.WeeklyPoint{WeekStart: week, Cases: buckets[week]})
			}
			return series
		}
		series.ZeroFillSkipped = true
	}

	series.Points = make([]domain.WeeklyPoint, 0, len(weeks))
	for _, week := range weeks {
		series.Points = append(series.Points, domain.WeeklyPoint{WeekStart: week, Cases: buckets[week]})
	}
	return series
}

// spanWeeks conta as semanas de first até last, inclusive. As datas estão em
// UTC, então a diferença em horas é sempre múltipla de uma semana.
func spanWeeks(first, last time.Time) int {
	return int(last.Sub(first).Hours()/(24*7)) + 1
}
