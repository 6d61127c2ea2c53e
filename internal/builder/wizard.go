package builder

import (
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/entity"
	"github.com/starlenz/patent-assistant/internal/pkg/formatter"
	"github.com/starlenz/patent-assistant/internal/wizard"
	"go.uber.org/zap"
)

// wizardConfig applies link and export settings to the default questionnaire.
// Formats the formatter cannot produce are not offered.
func wizardConfig(cfg *config.Config, formatters *formatter.Factory, logger *zap.Logger) wizard.Config {
	wc := wizard.DefaultConfig()

	links := wizard.Links{
		Site:  cfg.LinksCfg.Site,
		Share: cfg.LinksCfg.Share,
		Admin: cfg.LinksCfg.Admin,
	}
	wc.Links = links
	wc.Help = wizard.DefaultHelpMenu(links)
	wc.WelcomeImageURL = cfg.LinksCfg.WelcomeImageURL
	wc.SessionTTL = cfg.SessionTTL

	exports := make([]entity.ResultFormat, 0, len(cfg.ExportCfg.Formats))
	for _, f := range cfg.ExportCfg.Formats {
		format := entity.ResultFormat(f)
		if !formatters.Supports(format) {
			logger.Warn("export format disabled", zap.String("format", f))
			continue
		}
		exports = append(exports, format)
	}
	wc.Exports = exports

	return wc
}
