package util

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultScheme = "http"

// ServerBaseURL turns a metadata address into a base URL for the Ollama
// client. Addresses are usually bare host:port pairs ("1.2.3.4:11434");
// anything that already carries a scheme is parsed as-is.
//
// Examples:
//   - ServerBaseURL("1.2.3.4:11434") -> "http://1.2.3.4:11434"
//   - ServerBaseURL("https://ollama.example.com") -> "https://ollama.example.com"
//   - ServerBaseURL("[::1]:11434") -> "http://[::1]:11434"
func ServerBaseURL(address string) (*url.URL, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("empty server address")
	}

	if !strings.Contains(address, "://") {
		address = DefaultScheme + "://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", address, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server address %q: missing host", address)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server address %q: unsupported scheme %s", address, u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}
