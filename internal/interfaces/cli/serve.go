package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/internal/intelligence/symptom_extractor"
	apihttp "github.com/turtacn/DiagBench/internal/interfaces/http"
	"github.com/turtacn/DiagBench/internal/interfaces/http/handlers"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dictionary-baseline reference engine",
		Long: "Serves the diagnose and chat contracts from the symptom dictionary so\n" +
			"generate, validate and ragcheck can be exercised end to end without a\n" +
			"real engine. Also exposes /healthz, /readyz and /metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			log := cliCtx.Logger.Named("serve")
			if addr == "" {
				addr = cfg.Server.Addr
			}

			dict, err := loadDictionary(cfg.Generation.DictionaryPath)
			if err != nil {
				return err
			}
			router := apihttp.NewRouter(apihttp.RouterConfig{
				Mode:         cfg.Server.Mode,
				DiagnosePath: cfg.Service.DiagnosePath,
				ChatPath:     cfg.Service.ChatPath,
				DiagnoseHandler: handlers.NewDiagnoseHandler(symptom_extractor.NewRanker(dict),
					handlers.WithQueryField(cfg.Service.QueryField),
					handlers.WithMaxResults(cfg.Server.MaxResults),
					handlers.WithLogger(log)),
				HealthHandler:  handlers.NewHealthHandler(Version),
				Logger:         log,
				Recorder:       cliCtx.Metrics,
				MetricsHandler: cliCtx.Collector.Handler(),
			})

			log.Info("reference engine starting",
				logging.String("addr", addr),
				logging.Int("dictionary_codes", dict.Len()))
			return apihttp.NewServer(addr, router, cfg.Server.ShutdownTimeout, log).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	return cmd
}

//Personal.AI order the ending
