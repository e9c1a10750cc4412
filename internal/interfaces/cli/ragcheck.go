package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/DiagBench/internal/application/ragcheck"
	"github.com/turtacn/DiagBench/internal/infrastructure/storage/minio"
	"github.com/turtacn/DiagBench/pkg/errors"
)

type ragcheckOptions struct {
	threshold float64
	upload    bool
}

// NewRAGCheckCmd creates the ragcheck command.
func NewRAGCheckCmd() *cobra.Command {
	opts := &ragcheckOptions{}
	cmd := &cobra.Command{
		Use:   "ragcheck [cases_file]",
		Short: "Score the engine's chat replies by weighted keyword coverage",
		Long: "Asks every question of the case file (or the built-in set) through the\n" +
			"chat endpoint and passes a case when the weighted share of expected\n" +
			"keywords found in the reply reaches the threshold.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			path := cliCtx.Config.RAGCheck.CasesPath
			if len(args) > 0 && args[0] != "" {
				path = args[0]
			}
			return runRAGCheck(cmd, cliCtx, opts, path)
		},
	}
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "pass threshold in percent (default: ragcheck.threshold)")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "upload the JSON report to object storage")
	return cmd
}

func runRAGCheck(cmd *cobra.Command, cliCtx *CLIContext, opts *ragcheckOptions, path string) error {
	ctx := cmd.Context()
	cfg := cliCtx.Config
	log := cliCtx.Logger.Named("ragcheck")
	out := cmd.OutOrStdout()

	cases := ragcheck.DefaultCases()
	if path != "" {
		loaded, err := ragcheck.LoadCases(path)
		if err != nil {
			return err
		}
		cases = loaded
	}

	threshold := cfg.RAGCheck.Threshold
	if cmd.Flags().Changed("threshold") {
		if opts.threshold <= 0 || opts.threshold > 100 {
			return errors.InvalidConfig("--threshold %.1f is out of range (0, 100]", opts.threshold)
		}
		threshold = opts.threshold
	}

	engine, err := newEngineClient(cfg.Service, log)
	if err != nil {
		return err
	}
	svc := ragcheck.NewService(engine, ragcheck.WithLogger(log), ragcheck.WithThreshold(threshold))

	if !cliCtx.JSON() {
		banner(out, "Chat Endpoint - Keyword Coverage Check")
		fmt.Fprintln(out)
	}
	rep, err := svc.Run(ctx, cases)
	if err != nil {
		return errors.Wrapf(err, errors.CodeUnknown, "ragcheck interrupted after %d of %d cases", len(rep.Results), len(cases))
	}
	for _, r := range rep.Results {
		cliCtx.Metrics.RecordRAGResult(r)
	}

	if cliCtx.JSON() {
		if err := printJSON(out, rep); err != nil {
			return err
		}
	} else {
		for _, r := range rep.Results {
			printRAGResult(out, r)
		}
		printRAGSummary(out, rep)
	}

	if opts.upload {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "encode ragcheck report")
		}
		store, err := openArtifactStore(ctx, cfg.MinIO, log)
		if err != nil {
			return err
		}
		res, err := store.UploadBytes(ctx, minio.KindRAGCheck, "ragcheck.json", data, nil)
		if err != nil {
			return err
		}
		if !cliCtx.JSON() {
			printUploaded(out, res)
		}
	}

	pushMetrics(ctx, cliCtx)
	return rep.Verdict()
}

//Personal.AI order the ending
