package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/internal/infrastructure/storage/minio"
)

// pushMetrics sends the run's metrics to the Pushgateway when one is
// configured. Failures are logged only.
func pushMetrics(ctx context.Context, cliCtx *CLIContext) {
	m := cliCtx.Config.Metrics
	if !m.Enabled || m.PushgatewayURL == "" {
		return
	}
	if err := cliCtx.Collector.Push(ctx, m.PushgatewayURL, m.Job); err != nil {
		cliCtx.Logger.Warn("metrics push failed", logging.String("url", m.PushgatewayURL), logging.Err(err))
		return
	}
	cliCtx.Logger.Debug("metrics pushed", logging.String("url", m.PushgatewayURL))
}

func printUploaded(w io.Writer, res *minio.UploadResult) {
	fmt.Fprintf(w, "Uploaded to s3://%s/%s (%d bytes)\n", res.Bucket, res.ObjectKey, res.Size)
}

//Personal.AI order the ending
