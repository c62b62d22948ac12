// Package i18n provides the t(key) lookup used for chart captions.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

const DefaultLocale = "en"

// Namespace of the network overview captions.
const NetworkOverview = "network/overview"

var ErrUnknownLocale = errors.New("unknown locale")

// Catalog holds the messages of one locale, keyed by namespace then key.
type Catalog struct {
	Locale   string
	messages map[string]map[string]string
}

// Load reads the embedded catalog for locale. An empty locale loads the
// default one.
func Load(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	data, err := fs.ReadFile(locales, "locales/"+locale+".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}

	var messages map[string]map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse %s catalog: %w", locale, err)
	}
	return &Catalog{Locale: locale, messages: messages}, nil
}

// Available lists the embedded locales.
func Available() []string {
	entries, _ := fs.ReadDir(locales, "locales")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return out
}

// T returns a lookup bound to namespace. Missing keys resolve to themselves.
func (c *Catalog) T(namespace string) func(key string) string {
	ns := c.messages[namespace]
	return func(key string) string {
		if v, ok := ns[key]; ok {
			return v
		}
		return key
	}
}
