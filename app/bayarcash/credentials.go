package bayarcash

import (
	"fmt"
	"strings"
	"time"
)

const (
	ModeTest = "test"
	ModeLive = "live"
)

// DefaultChannel is online banking (FPX).
const DefaultChannel = 1

type Settings struct {
	Mode           string
	TestAPIToken   string
	TestAPISecret  string
	LiveAPIToken   string
	LiveAPISecret  string
	PortalKey      string
	Channels       []int
	SandboxBaseURL string
	LiveBaseURL    string
	ReceiptPageURL string
	CallbackURL    string
	HTTPTimeout    time.Duration
}

type Credentials struct {
	APIToken  string
	APISecret string
	PortalKey string
	Mode      string
}

type ClientConfig struct {
	BaseURL  string
	APIToken string
	Mode     string
}

func (s Settings) ActiveMode() string {
	return normalizeMode(s.Mode)
}

// IsConfigured reports whether the active mode has a token, a secret and a portal key.
func (s Settings) IsConfigured() bool {
	creds := ResolveCredentials(s, "")
	return creds.APIToken != "" && creds.APISecret != "" && creds.PortalKey != ""
}

func ResolveCredentials(s Settings, mode string) Credentials {
	if strings.TrimSpace(mode) == "" {
		mode = s.ActiveMode()
	}
	mode = normalizeMode(mode)

	creds := Credentials{
		PortalKey: strings.TrimSpace(s.PortalKey),
		Mode:      mode,
	}
	if mode == ModeLive {
		creds.APIToken = strings.TrimSpace(s.LiveAPIToken)
		creds.APISecret = strings.TrimSpace(s.LiveAPISecret)
	} else {
		creds.APIToken = strings.TrimSpace(s.TestAPIToken)
		creds.APISecret = strings.TrimSpace(s.TestAPISecret)
	}
	return creds
}

func ResolveClient(s Settings, mode string) ClientConfig {
	creds := ResolveCredentials(s, mode)
	baseURL := s.SandboxBaseURL
	if creds.Mode == ModeLive {
		baseURL = s.LiveBaseURL
	}
	return ClientConfig{
		BaseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIToken: creds.APIToken,
		Mode:     creds.Mode,
	}
}

// SelectChannel honours the payer's choice only when the merchant enabled it.
func SelectChannel(enabled []int, selected int) int {
	if selected > 0 {
		for _, channel := range enabled {
			if channel == selected {
				return selected
			}
		}
	}
	if len(enabled) > 0 {
		return enabled[0]
	}
	return DefaultChannel
}

// FormatAmount renders minor units as a decimal string with exactly two places.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// NormalizePhone keeps digits only and drops leading zeros so the value
// can be sent as a JSON number.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0")
}

func normalizeMode(mode string) string {
	if strings.ToLower(strings.TrimSpace(mode)) == ModeLive {
		return ModeLive
	}
	return ModeTest
}
