// Package i18n holds per-language overrides for catalog text and picks the
// language a request should be answered in.
package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
)

// Text maps a language code ("ru", "en") to a translated value. It is stored
// as a JSONB column next to the base value.
type Text map[string]string

func (t Text) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(t))
}

func (t *Text) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("i18n: cannot scan %T into Text", src)
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("i18n: decode text: %w", err)
	}
	*t = m
	return nil
}

// Pick returns the override for lang, or base when there is none.
func (t Text) Pick(base, lang string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	return base
}

type Negotiator struct {
	names   []string
	matcher language.Matcher
}

// NewNegotiator accepts the supported language codes; the first one is the
// default.
func NewNegotiator(languages []string) (*Negotiator, error) {
	if len(languages) == 0 {
		return nil, fmt.Errorf("i18n: at least one language is required")
	}
	tags := make([]language.Tag, 0, len(languages))
	for _, l := range languages {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("i18n: parse language %q: %w", l, err)
		}
		tags = append(tags, tag)
	}
	return &Negotiator{
		names:   append([]string(nil), languages...),
		matcher: language.NewMatcher(tags),
	}, nil
}

func (n *Negotiator) Default() string {
	return n.names[0]
}

// Match prefers an explicit code (the ?lang= query value) over the
// Accept-Language header and falls back to the default language.
func (n *Negotiator) Match(explicit, acceptLanguage string) string {
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			if _, idx, conf := n.matcher.Match(tag); conf != language.No {
				return n.names[idx]
			}
		}
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			if _, idx, conf := n.matcher.Match(tags...); conf != language.No {
				return n.names[idx]
			}
		}
	}
	return n.Default()
}
