package cli

import (
	"fmt"

	"github.com/turtacn/DiagBench/internal/config"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/client"
)

// clientLogger adapts logging.Logger to the printf-style client.Logger.
type clientLogger struct {
	l logging.Logger
}

func (c clientLogger) Debugf(format string, args ...interface{}) {
	c.l.Debug(fmt.Sprintf(format, args...))
}

func (c clientLogger) Infof(format string, args ...interface{}) {
	c.l.Info(fmt.Sprintf(format, args...))
}

func (c clientLogger) Errorf(format string, args ...interface{}) {
	c.l.Error(fmt.Sprintf(format, args...))
}

// newEngineClient builds the diagnosis engine client from the service
// section.
func newEngineClient(svc config.ServiceConfig, logger logging.Logger) (*client.Client, error) {
	opts := []client.Option{
		client.WithLogger(clientLogger{l: logger.Named("client")}),
		client.WithDiagnosePath(svc.DiagnosePath),
		client.WithChatPath(svc.ChatPath),
		client.WithQueryField(svc.QueryField),
		client.WithRetryMax(svc.RetryMax),
		client.WithRetryWait(svc.RetryWait, svc.RetryWait*10),
	}
	if svc.Timeout > 0 {
		opts = append(opts, client.WithTimeout(svc.Timeout))
	}
	if svc.APIKey != "" {
		opts = append(opts, client.WithAPIKey(svc.APIKey))
	}
	if svc.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(svc.UserAgent))
	}
	return client.NewClient(svc.BaseURL, opts...)
}

//Personal.AI order the ending
