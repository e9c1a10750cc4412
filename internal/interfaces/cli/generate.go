package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/DiagBench/internal/application/generation"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/internal/infrastructure/storage/minio"
	"github.com/turtacn/DiagBench/internal/intelligence/symptom_extractor"
	"github.com/turtacn/DiagBench/pkg/errors"
)

type generateOptions struct {
	corpus string
	watch  bool
	upload bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [output_file] [max_cases_per_document]",
		Short: "Generate a labeled test set from the protocol corpus",
		Long: "Reads the JSONL protocol corpus and writes one {query, gt} record per\n" +
			"listed ICD-10 code, up to max_cases_per_document per protocol. Use \"-\" as\n" +
			"output_file to write the test set to stdout.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, cliCtx, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.corpus, "corpus", "", "corpus JSONL path (default: corpus.path)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "regenerate whenever the corpus file changes")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "upload the test set to object storage")
	return cmd
}

func runGenerate(cmd *cobra.Command, cliCtx *CLIContext, opts *generateOptions, args []string) error {
	cfg := cliCtx.Config
	log := cliCtx.Logger.Named("generate")

	corpusPath := cfg.Corpus.Path
	if opts.corpus != "" {
		corpusPath = opts.corpus
	}
	output := cfg.Generation.OutputPath
	if len(args) > 0 && args[0] != "" {
		output = args[0]
	}
	maxCases := cfg.Generation.MaxCasesPerDocument
	if len(args) > 1 {
		n, ok := generation.ParseMaxCases(args[1])
		if !ok {
			log.Warn("invalid max_cases_per_document, using default",
				logging.String("value", args[1]), logging.Int("default", maxCases))
		} else {
			maxCases = n
		}
	}
	if opts.upload && output == "-" {
		return errors.InvalidConfig("--upload needs an output file, not stdout")
	}

	locale, err := symptom_extractor.LocaleByName(cfg.Corpus.Locale)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "corpus locale")
	}
	dict, err := loadDictionary(cfg.Generation.DictionaryPath)
	if err != nil {
		return err
	}
	svc := generation.NewService(
		symptom_extractor.NewExtractor(
			symptom_extractor.WithDictionary(dict),
			symptom_extractor.WithLocale(locale),
			symptom_extractor.WithLogger(log)),
		generation.WithLogger(log),
		generation.WithMetrics(cliCtx.Metrics))

	// keep stdout clean when the test set itself goes there
	out := cmd.OutOrStdout()
	if output == "-" {
		out = cmd.ErrOrStderr()
	}

	once := func(ctx context.Context) error {
		cases, summary, err := svc.GenerateFile(ctx, corpusPath, output, maxCases)
		if err != nil {
			return err
		}
		if cliCtx.JSON() {
			if err := printJSON(out, summary); err != nil {
				return err
			}
		} else {
			printGenerationSummary(out, summary, maxCases, cases)
		}
		if opts.upload {
			if err := uploadTestSet(ctx, cliCtx, out, output, summary); err != nil {
				return err
			}
		}
		pushMetrics(ctx, cliCtx)
		return nil
	}

	ctx := cmd.Context()
	if err := once(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	log.Info("watching corpus for changes", logging.String("corpus", corpusPath))
	return generation.Watch(ctx, corpusPath, generation.DefaultDebounce, log, once)
}

func uploadTestSet(ctx context.Context, cliCtx *CLIContext, out io.Writer, path string, summary generation.Summary) error {
	store, err := openArtifactStore(ctx, cliCtx.Config.MinIO, cliCtx.Logger)
	if err != nil {
		return err
	}
	res, err := store.UploadFile(ctx, minio.KindTestSet, path, map[string]string{
		"cases":     strconv.Itoa(summary.Cases),
		"documents": strconv.Itoa(summary.Documents),
	})
	if err != nil {
		return err
	}
	if !cliCtx.JSON() {
		printUploaded(out, res)
	}
	return nil
}

//Personal.AI order the ending
