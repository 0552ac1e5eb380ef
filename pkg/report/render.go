package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/dormpower/powermon/pkg/powerinfo"
)

// Output formats accepted by --format.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// formatValue renders an optional reading with two decimals, or the unknown
// placeholder. Never a blank.
func formatValue(value *float64) string {
	if value == nil {
		return "未知"
	}
	return fmt.Sprintf("%.2f", *value)
}

// RenderMarkdown renders the human-readable report. The returned string ends
// with a blank line.
func RenderMarkdown(r *PowerReport) string {
	lines := []string{
		"# 宿舍电费情况",
		"- 时间: " + r.FetchedAt.Format("2006-01-02 15:04:05 MST"),
		"- 剩余电量(kWh): " + formatValue(r.Info.RemainingKWh),
		"- 剩余金额(元): " + formatValue(r.Info.RemainingAmountCNY),
	}
	if r.Error != nil {
		lines = append(lines, "- 错误: "+*r.Error)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

type reportJSON struct {
	URL       string              `json:"url"`
	FetchedAt string              `json:"fetched_at"`
	Success   bool                `json:"success"`
	Error     *string             `json:"error"`
	Info      powerinfo.PowerInfo `json:"info"`
	Snippet   string              `json:"snippet"`
}

// RenderJSON renders the machine-readable report: 2-space indent, non-ASCII
// emitted literally, no trailing newline.
func RenderJSON(r *PowerReport) (string, error) {
	payload := reportJSON{
		URL:       r.URL,
		FetchedAt: r.FetchedAt.Format(time.RFC3339),
		Success:   r.Success,
		Error:     r.Error,
		Info:      r.Info,
		Snippet:   r.Snippet,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", pkgerrors.Wrap(err, "failed to encode report")
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// WriteOutput sends the rendered report to stdout, or to a file when a
// destination is given, creating parent directories as needed.
func WriteOutput(text, destination string) error {
	if destination == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create output directory for %s", destination)
	}
	if err := os.WriteFile(destination, []byte(text), 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write report to %s", destination)
	}
	return nil
}
