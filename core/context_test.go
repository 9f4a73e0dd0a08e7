package core

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, logrus.StandardLogger(), loggerFromContext(context.Background()))

	logger, _ := logtest.NewNullLogger()
	assert.Same(t, logger, loggerFromContext(WithLogger(context.Background(), logger)))

	var nilLogger *logrus.Logger
	assert.Same(t, logrus.StandardLogger(), loggerFromContext(WithLogger(context.Background(), nilLogger)))
}

func TestAnalysisIDFromContext(t *testing.T) {
	assert.Equal(t, int64(0), analysisIDFromContext(context.Background()))
	assert.Equal(t, int64(42), analysisIDFromContext(withAnalysisID(context.Background(), 42)))
}
