package meter

import (
	"testing"

	"github.com/dormpower/powermon/pkg/config"
)

func TestURLFromMid(t *testing.T) {
	tests := []struct {
		name string
		mid  string
		base string
		want string
	}{
		{
			name: "default base",
			mid:  "20710001759",
			base: "",
			want: "https://www.wap.ekm365.com/nat/pay.aspx?mid=20710001759",
		},
		{
			name: "base with query string joins with ampersand",
			mid:  "X",
			base: "https://h/p?a=1",
			want: "https://h/p?a=1&mid=X",
		},
		{
			name: "trailing question mark is stripped",
			mid:  "X",
			base: "https://h/p?",
			want: "https://h/p?mid=X",
		},
		{
			name: "plain base",
			mid:  "777",
			base: "https://h/p",
			want: "https://h/p?mid=777",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URLFromMid(tt.mid, tt.base); got != tt.want {
				t.Errorf("URLFromMid(%q, %q) = %q, want %q", tt.mid, tt.base, got, tt.want)
			}
		})
	}
}

// clearMeterEnv keeps ambient environment out of precedence tests.
func clearMeterEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvURL, "")
	t.Setenv(EnvMID, "")
	t.Setenv(EnvBaseURL, "")
}

func TestResolveURLPrecedence(t *testing.T) {
	clearMeterEnv(t)

	cfg := &config.Config{
		URL: "https://config.example/page",
		MID: "111",
	}

	if got := ResolveURL("https://cli.example/page", cfg); got != "https://cli.example/page" {
		t.Errorf("CLI URL should win, got %q", got)
	}

	t.Setenv(EnvURL, "https://env.example/page")
	if got := ResolveURL("", cfg); got != "https://env.example/page" {
		t.Errorf("env URL should beat config, got %q", got)
	}

	t.Setenv(EnvURL, "")
	if got := ResolveURL("", cfg); got != "https://config.example/page" {
		t.Errorf("config url should beat mid composition, got %q", got)
	}
}

func TestResolveURLNestedMeterKeys(t *testing.T) {
	clearMeterEnv(t)

	cfg := &config.Config{}
	cfg.Meter.URL = "https://nested.example/page"
	if got := ResolveURL("", cfg); got != "https://nested.example/page" {
		t.Errorf("meter.url should be used, got %q", got)
	}

	cfg = &config.Config{}
	cfg.Meter.MID = "222"
	cfg.Meter.BaseURL = "https://nested.example/pay"
	if got := ResolveURL("", cfg); got != "https://nested.example/pay?mid=222" {
		t.Errorf("meter.mid composition wrong, got %q", got)
	}
}

func TestResolveURLMidPlaceholder(t *testing.T) {
	clearMeterEnv(t)
	t.Setenv("METER_ID", "999")

	cfg := &config.Config{MID: "${METER_ID}"}
	want := "https://www.wap.ekm365.com/nat/pay.aspx?mid=999"
	if got := ResolveURL("", cfg); got != want {
		t.Errorf("ResolveURL() = %q, want %q", got, want)
	}
}

func TestResolveURLEnvMidBeatsConfig(t *testing.T) {
	clearMeterEnv(t)
	t.Setenv(EnvMID, "333")
	t.Setenv(EnvBaseURL, "https://envbase.example/pay")

	cfg := &config.Config{MID: "111", BaseURL: "https://cfgbase.example/pay"}
	if got := ResolveURL("", cfg); got != "https://envbase.example/pay?mid=333" {
		t.Errorf("env mid/base should win, got %q", got)
	}
}

func TestResolveURLDefault(t *testing.T) {
	clearMeterEnv(t)

	if got := ResolveURL("", &config.Config{}); got != DefaultURL {
		t.Errorf("ResolveURL() = %q, want default %q", got, DefaultURL)
	}
	if DefaultURL != "https://www.wap.ekm365.com/nat/pay.aspx?mid=20710001759" {
		t.Errorf("unexpected DefaultURL %q", DefaultURL)
	}
}
