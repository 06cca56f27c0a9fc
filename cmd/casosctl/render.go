package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vfg2006/casos-es-api/internal/domain"
)

const weekLayout = "02/01/2006"

func renderDashboard(out io.Writer, d *domain.Dashboard) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Doença:\t%s\n", d.Selection.Disease)
	fmt.Fprintf(tw, "Município:\t%s\n", d.Selection.Municipality)
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Casos totais\tCasos confirmados\tÓbitos\n")
	fmt.Fprintf(tw, "%d\t%d\t%d\n", d.Metrics.Total, d.Metrics.Confirmed, d.Metrics.Deaths)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, d.Titles.Weekly)
	if len(d.Weekly.Points) == 0 {
		fmt.Fprintln(tw, "  sem notificações com data válida")
	}
	peak := 0
	for _, point := range d.Weekly.Points {
		peak = max(peak, point.Cases)
	}
	for _, point := range d.Weekly.Points {
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", point.WeekStart.Format(weekLayout), point.Cases, bar(point.Cases, peak))
	}
	if d.Weekly.ZeroFillSkipped {
		fmt.Fprintln(tw, "  (intervalo longo demais, semanas sem casos omitidas)")
	}
	if d.Weekly.Dropped > 0 {
		fmt.Fprintf(tw, "  (%d notificações sem data válida)\n", d.Weekly.Dropped)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, d.Titles.TopMunicipalities)
	for i, item := range d.TopMunicipalities {
		fmt.Fprintf(tw, "  %2d.\t%s\t%d\n", i+1, item.Municipality, item.Cases)
	}

	return tw.Flush()
}

func renderOptions(out io.Writer, options *domain.Options) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Doenças:")
	for _, disease := range options.Diseases {
		fmt.Fprintf(tw, "  %s\n", disease)
	}
	fmt.Fprintln(tw, "Municípios:")
	for _, municipality := range options.Municipalities {
		fmt.Fprintf(tw, "  %s\n", municipality)
	}

	return tw.Flush()
}

// bar desenha um bloco por caso enquanto o pico da série cabe em 40 colunas.
// Acima disso a barra é proporcional ao pico, com ao menos um bloco para
// semanas com casos.
func bar(cases, peak int) string {
	const maxWidth = 40
	if cases <= 0 {
		return ""
	}
	if peak <= maxWidth {
		return strings.Repeat("█", cases)
	}
	return strings.Repeat("█", max(1, cases*maxWidth/peak))
}
