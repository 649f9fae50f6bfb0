package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved listen address
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("LoveDocu", GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("environment", config.Environment).
		Str("url", config.BaseURL()).
		Msg("LoveDocu - PDF Services")
}
