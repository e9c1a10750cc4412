package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/DiagBench/internal/application/validation"
	"github.com/turtacn/DiagBench/internal/domain/testset"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/internal/infrastructure/storage/minio"
	"github.com/turtacn/DiagBench/pkg/errors"
)

type validateOptions struct {
	save   bool
	upload bool
}

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [test_set_file]",
		Short: "Replay a test set against the diagnosis engine",
		Long: "Sends every query of the test set to the engine, one at a time, and\n" +
			"passes a case when the top code equals the ground truth or shares its\n" +
			"three-character category. Exits non-zero unless every case passed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			path := cliCtx.Config.Validation.TestSetPath
			if len(args) > 0 && args[0] != "" {
				path = args[0]
			}
			return runValidate(cmd.Context(), cmd.OutOrStdout(), cliCtx, opts, path)
		},
	}
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the run in the history database")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "upload the JSON report to object storage")
	return cmd
}

func runValidate(ctx context.Context, out io.Writer, cliCtx *CLIContext, opts *validateOptions, path string) error {
	cfg := cliCtx.Config
	log := cliCtx.Logger.Named("validate")

	cases, err := testset.ReadFile(ctx, path, log)
	if err != nil {
		return err
	}

	engine, err := newEngineClient(cfg.Service, log)
	if err != nil {
		return err
	}
	var diagnoser validation.Diagnoser = engine

	runnerOpts := []validation.Option{
		validation.WithLogger(log),
		validation.WithTopAlternatives(cfg.Validation.TopAlternatives),
		validation.WithEndpoint(cfg.Service.DiagnoseURL()),
		validation.WithObserver(cliCtx.Metrics),
	}

	if cfg.Redis.Enabled {
		cache, closeCache, err := openResponseCache(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn("response cache unavailable, calling the engine directly", logging.Err(err))
		} else {
			defer closeCache()
			diagnoser = validation.NewCachedDiagnoser(diagnoser, cache, log).OnLookup(cliCtx.Metrics.RecordCacheLookup)
		}
	}
	if cfg.Kafka.Enabled {
		pub, closePub, err := openOutcomePublisher(cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer closePub()
		runnerOpts = append(runnerOpts, validation.WithObserver(pub))
	}
	if opts.save || cfg.Database.Enabled {
		store, closeStore, err := openRunStore(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer closeStore()
		runnerOpts = append(runnerOpts, validation.WithObserver(store))
	}
	if !cliCtx.JSON() {
		banner(out, "Diagnosis Engine - Test Set Validation")
		fmt.Fprintln(out)
		runnerOpts = append(runnerOpts, validation.WithObserver(&consoleTrace{
			w:            out,
			total:        len(cases),
			previewRunes: cfg.Validation.PreviewRunes,
		}))
	}

	rep, err := validation.NewRunner(diagnoser, runnerOpts...).RunSource(ctx, path, validation.NewSliceSource(cases))
	if err != nil {
		return errors.Wrapf(err, errors.CodeUnknown, "validation interrupted after %d of %d cases", len(rep.Outcomes), len(cases))
	}

	if cliCtx.JSON() {
		if err := printJSON(out, rep); err != nil {
			return err
		}
	} else {
		printValidationSummary(out, rep.Stats)
	}

	if opts.upload {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "encode report")
		}
		store, err := openArtifactStore(ctx, cfg.MinIO, log)
		if err != nil {
			return err
		}
		res, err := store.UploadBytes(ctx, minio.KindReport, rep.RunID+".json", data, map[string]string{
			"run-id": rep.RunID,
			"rate":   formatRate(rep.Stats),
		})
		if err != nil {
			return err
		}
		if !cliCtx.JSON() {
			printUploaded(out, res)
		}
	}

	pushMetrics(ctx, cliCtx)
	return rep.Verdict(cfg.Validation.FailOnEmpty)
}

//Personal.AI order the ending
