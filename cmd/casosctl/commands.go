package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/casos-es-api/infrastructure/datasource"
	"github.com/vfg2006/casos-es-api/internal/config"
	"github.com/vfg2006/casos-es-api/internal/domain"
	"github.com/vfg2006/casos-es-api/internal/usecases/dashboard"
	"github.com/vfg2006/casos-es-api/pkg/metrics"
	"github.com/vfg2006/casos-es-api/pkg/utils"
)

// dashboardOpener abre a fonte e devolve o serviço junto da função que a fecha
type dashboardOpener func(ctx context.Context, fixturePath string) (dashboard.DashboardService, func() error, error)

type rootFlags struct {
	fixturePath string
	asJSON      bool
	timeout     time.Duration
	verbose     bool
}

func newRootCmd(open dashboardOpener) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "casosctl",
		Short:        "Painel de casos de Zika e Chikungunya no Espírito Santo",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.fixturePath, "fixture", "", "lê as notificações de um arquivo YAML em vez do banco")
	root.PersistentFlags().BoolVar(&flags.asJSON, "json", false, "imprime a saída em JSON")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "tempo máximo para ler a fonte")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "habilita logs de depuração")

	root.AddCommand(
		newPainelCmd(open, flags),
		newOpcoesCmd(open, flags),
	)

	return root
}

func newPainelCmd(open dashboardOpener, flags *rootFlags) *cobra.Command {
	var (
		disease      string
		municipality string
		zeroFill     bool
	)

	cmd := &cobra.Command{
		Use:   "painel",
		Short: "Renderiza métricas, evolução semanal e ranking de municípios",
		Example: `  casosctl painel --doenca Zika --municipio Vitória
  casosctl painel --fixture data/casos_es.yaml --preencher-semanas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			service, closeSource, err := open(ctx, flags.fixturePath)
			if err != nil {
				return err
			}
			defer closeSource()

			request := domain.DashboardRequest{
				Disease:      disease,
				Municipality: municipality,
			}
			if cmd.Flags().Changed("preencher-semanas") {
				request.ZeroFill = &zeroFill
			}

			result, err := service.Render(ctx, request)
			if err != nil {
				return err
			}

			if flags.asJSON {
				return printJSON(cmd, result)
			}
			return renderDashboard(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&disease, "doenca", "d", "", "doença selecionada (padrão: primeira opção)")
	cmd.Flags().StringVarP(&municipality, "municipio", "m", domain.AllMunicipalities, "município selecionado")
	cmd.Flags().BoolVar(&zeroFill, "preencher-semanas", false, "inclui semanas sem casos na série semanal")

	return cmd
}

func newOpcoesCmd(open dashboardOpener, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "opcoes",
		Short: "Lista as doenças e os municípios disponíveis para seleção",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			service, closeSource, err := open(ctx, flags.fixturePath)
			if err != nil {
				return err
			}
			defer closeSource()

			options, err := service.GetOptions(ctx)
			if err != nil {
				return err
			}

			if flags.asJSON {
				return printJSON(cmd, options)
			}
			return renderOptions(cmd.OutOrStdout(), options)
		},
	}
}

func printJSON(cmd *cobra.Command, value any) error {
	out, err := utils.PrettyJson(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// openDashboard carrega a configuração da API e abre a fonte configurada
func openDashboard(ctx context.Context, fixturePath string) (dashboard.DashboardService, func() error, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}

	if fixturePath != "" {
		cfg.Source.Type = config.SourceFixture
		cfg.Source.FixturePath = fixturePath
	}

	source, err := datasource.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	recorder := metrics.NewRecorder(prometheus.NewRegistry())
	return dashboard.NewService(source.Repository, recorder, cfg.Dashboard), source.Close, nil
}
