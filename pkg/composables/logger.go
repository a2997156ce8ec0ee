package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cmdvault/cmdvault/pkg/configuration"
	"github.com/cmdvault/cmdvault/pkg/constants"
)

// UseLogger returns the request-scoped logger, falling back to the global one.
func UseLogger(ctx context.Context) logrus.FieldLogger {
	if logger, ok := ctx.Value(constants.LoggerKey).(logrus.FieldLogger); ok {
		return logger
	}
	return configuration.Use().Logger()
}

func WithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}
