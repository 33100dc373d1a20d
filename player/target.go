package player

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/reeler-cli/reeler/key"
	"github.com/spf13/viper"
)

// mpvBinary resolves the configured external player executable.
func mpvBinary() string {
	if bin := viper.GetString(key.Player); bin != "" {
		return bin
	}
	return "mpv"
}

// sanitizeMediaTarget validates that a URL is safe to pass to the player.
// Prevents flag injection through crafted locators.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	// If it contains "://", validate as URL
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}
