package builder

import (
	"github.com/starlenz/patent-assistant/internal/pkg/logger"
	"go.uber.org/zap"
)

func setupLogger(level, environment string) (*zap.Logger, error) {
	l, err := logger.New(level, environment)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
