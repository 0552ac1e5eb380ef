package meter

import (
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	fetchTimeout = 30 * time.Second

	// The vendor page serves a stripped-down error page to unknown clients,
	// so fetch with a desktop browser user-agent.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/122.0.0.0 Safari/537.36"
)

var httpClient = &http.Client{Timeout: fetchTimeout}

// Fetch retrieves the meter page. Single attempt, no retries; any transport
// failure or non-2xx status is an error.
func Fetch(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to build request for %s", url)
	}
	req.Header.Set("User-Agent", userAgent)

	logrus.WithField("url", url).Debug("fetching meter page")
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to fetch %s", url)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Warnf("failed to close response body for %s", url)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", pkgerrors.Errorf("HTTP status %s for %s", resp.Status, url)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to read response from %s", url)
	}
	return string(b), nil
}
