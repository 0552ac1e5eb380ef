package report

import (
	"time"

	"github.com/dormpower/powermon/pkg/meter"
	"github.com/dormpower/powermon/pkg/powerinfo"
	"github.com/dormpower/powermon/pkg/utils/ptr"
)

// MissingRemainingKWh is the report error when the page loads but carries no
// remaining-kWh reading.
const MissingRemainingKWh = "页面中缺少“剩余电量”字段"

// Meter local time. Failure reports are stamped in UTC instead, see Failure.
var cstZone = time.FixedZone("UTC+08:00", 8*60*60)

// PowerReport is the outcome of one run. It is built once and handed to the
// renderer unchanged. Success means the remaining-kWh reading was found;
// Error is set exactly when Success is false.
type PowerReport struct {
	URL       string
	FetchedAt time.Time
	Info      powerinfo.PowerInfo
	Snippet   string
	Success   bool
	Error     *string
}

// Collect fetches the meter page and builds the report. Fetch and parse
// failures are returned to the caller, which downgrades them with Failure;
// a page without the remaining-kWh field is a well-formed unsuccessful
// report, not an error.
func Collect(url string) (*PowerReport, error) {
	htmlText, err := meter.Fetch(url)
	if err != nil {
		return nil, err
	}

	info, snippet, err := meter.Extract(htmlText)
	if err != nil {
		return nil, err
	}

	success := info.RemainingKWh != nil
	var errMsg *string
	if !success {
		errMsg = ptr.To(MissingRemainingKWh)
	}

	return &PowerReport{
		URL:       url,
		FetchedAt: time.Now().In(cstZone),
		Info:      info,
		Snippet:   snippet,
		Success:   success,
		Error:     errMsg,
	}, nil
}

// Failure wraps a fetch or parse error into a report so the run still emits
// something renderable. These are stamped in UTC, unlike successful fetches
// which use the meter's local UTC+8.
func Failure(url string, err error) *PowerReport {
	return &PowerReport{
		URL:       url,
		FetchedAt: time.Now().UTC(),
		Info:      powerinfo.PowerInfo{},
		Snippet:   "",
		Success:   false,
		Error:     ptr.To(err.Error()),
	}
}
