package meter

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dormpower/powermon/pkg/config"
)

const (
	// DefaultBaseURL is the payment page of the metering vendor.
	DefaultBaseURL = "https://www.wap.ekm365.com/nat/pay.aspx"
	// DefaultMID is queried when no meter id is configured anywhere.
	DefaultMID = "20710001759"

	// EnvURL overrides the resolved URL entirely.
	EnvURL = "POWER_MONITOR_URL"
	// EnvMID supplies the meter id for URL composition.
	EnvMID = "POWER_MONITOR_MID"
	// EnvBaseURL supplies the base URL for URL composition.
	EnvBaseURL = "POWER_MONITOR_BASE_URL"
)

// DefaultURL is the page queried when nothing else resolved.
var DefaultURL = URLFromMid(DefaultMID, "")

// URLFromMid composes a meter page URL from a meter id and an optional base.
// A base already carrying a query string gets the mid appended with "&".
func URLFromMid(mid, base string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "?")
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + "mid=" + mid
}

// ResolveURL picks the page to fetch. Highest tier wins and short-circuits:
// the CLI flag, then POWER_MONITOR_URL, then the config url keys, then a URL
// composed from a resolved meter id, then the built-in default.
func ResolveURL(cliURL string, cfg *config.Config) string {
	if cliURL != "" {
		logrus.WithField("url", cliURL).Debug("using URL from command line")
		return cliURL
	}

	if envURL := config.EnvString(EnvURL); envURL != "" {
		logrus.WithField("url", envURL).Debug("using URL from " + EnvURL)
		return envURL
	}

	configURL := config.FirstNonEmpty(
		config.ResolveString(cfg.URL),
		config.ResolveString(cfg.Meter.URL),
	)
	if configURL != "" {
		logrus.WithField("url", configURL).Debug("using URL from config file")
		return configURL
	}

	mid := config.FirstNonEmpty(
		config.EnvString(EnvMID),
		config.ResolveString(cfg.MID),
		config.ResolveString(cfg.Meter.MID),
	)
	base := config.FirstNonEmpty(
		config.EnvString(EnvBaseURL),
		config.ResolveString(cfg.BaseURL),
		config.ResolveString(cfg.Meter.BaseURL),
	)
	if mid != "" {
		url := URLFromMid(mid, base)
		logrus.WithFields(logrus.Fields{
			"mid": mid,
			"url": url,
		}).Debug("composed URL from meter id")
		return url
	}

	logrus.WithField("url", DefaultURL).Debug("falling back to default URL")
	return DefaultURL
}
