package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"

	"github.com/Mnehmos/provecalc-engine/internal/platform/config"
)

// Values that look like credentials even when the field name is innocent.
var (
	// Bearer token pattern
	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)

	// Basic auth pattern
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)
)

// DefaultRedactOptions returns the masq options for secret redaction.
// The only credential this service carries is the API key that gates
// the compute endpoints, plus whatever auth headers a fronting proxy
// forwards, so the list is scoped to those.
//
// To add further redaction, combine with additional options:
//
//	opts := append(logging.DefaultRedactOptions(),
//	    masq.WithFieldName("MySecretField"),
//	)
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		// The configured API key, under every spelling it appears in
		// (koanf key, struct field, request header).
		masq.WithFieldName("api_key"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("APIKey"),
		masq.WithFieldName("X-API-Key"),

		// Never log the auth block even if the whole config is dumped.
		masq.WithType[config.AuthConfig](),

		// Forwarded auth material.
		masq.WithFieldName("authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldPrefix("secret"),

		// Regex patterns for sensitive values
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
	}
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions
// that redacts sensitive data. Uses DefaultRedactOptions which can be
// extended for project-specific needs.
//
// Usage:
//
//	opts := &slog.HandlerOptions{
//	    ReplaceAttr: logging.NewReplaceAttr(),
//	}
//	handler := slog.NewJSONHandler(os.Stdout, opts)
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
