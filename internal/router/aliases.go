package router

import (
	"fmt"
	"net/url"
)

func isLoopback(host string) bool {
	switch host {
	case "::1", "127.0.0.1", "localhost":
		return true
	default:
		return false
	}
}

// addressAliases returns every route key an address can match, most specific first:
// host:port before bare host, with the loopback spellings treated as one.
func addressAliases(address string) ([]string, error) {
	parsed, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("error normalizing address %q: %w", address, err)
	}

	var results []string

	if port := parsed.Port(); port != "" {
		if isLoopback(parsed.Hostname()) {
			results = append(results,
				fmt.Sprintf("[::1]:%s", port),
				fmt.Sprintf("127.0.0.1:%s", port),
				fmt.Sprintf("localhost:%s", port))
		} else {
			results = append(results, parsed.Host)
		}
	}

	if isLoopback(parsed.Hostname()) {
		results = append(results, "[::1]", "127.0.0.1", "localhost")
	} else {
		results = append(results, parsed.Hostname())
	}

	return results, nil
}
