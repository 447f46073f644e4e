// Package i18n resolves UI strings for the dashboard's locales.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when nothing better is known.
const DefaultLocale = "en"

//go:embed messages/*.yaml
var embedded embed.FS

var errNoLocales = errors.New("i18n: no message tables found")

// Catalog is a static table of locale -> key -> string.
type Catalog struct {
	fallback string
	messages map[string]map[string]string
	locales  []string
	matcher  language.Matcher
}

// Default loads the message tables compiled into the binary.
func Default(fallback string) (*Catalog, error) {
	return Load(embedded, "messages", fallback)
}

// Load reads every <locale>.yaml file in dir. The fallback locale must be among them.
func Load(fsys fs.FS, dir, fallback string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}

	messages := make(map[string]map[string]string)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		locale := strings.TrimSuffix(e.Name(), ".yaml")
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
		messages[locale] = table
	}
	return New(messages, fallback)
}

// New builds a catalog from in-memory tables.
func New(messages map[string]map[string]string, fallback string) (*Catalog, error) {
	if len(messages) == 0 {
		return nil, errNoLocales
	}
	if fallback == "" {
		fallback = DefaultLocale
	}
	if _, ok := messages[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %q has no message table", fallback)
	}

	// The fallback goes first so the matcher prefers it when nothing matches.
	locales := []string{fallback}
	var rest []string
	for l := range messages {
		if l != fallback {
			rest = append(rest, l)
		}
	}
	sort.Strings(rest)
	locales = append(locales, rest...)

	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("i18n: bad locale %q: %w", l, err)
		}
		tags = append(tags, tag)
	}

	return &Catalog{
		fallback: fallback,
		messages: messages,
		locales:  locales,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// Fallback returns the designated default locale.
func (c *Catalog) Fallback() string { return c.fallback }

// Locales returns the locales with a message table, fallback first.
func (c *Catalog) Locales() []string { return append([]string(nil), c.locales...) }

// Resolve picks the active locale: the first entry of the preference list, else the
// single preference, else the fallback. The pick is mapped onto a supported locale
// when one matches ("cs-CZ" -> "cs"); otherwise it is returned in canonical form.
func (c *Catalog) Resolve(preferences []string, single string) string {
	pick := ""
	for _, p := range preferences {
		if p = strings.TrimSpace(p); p != "" {
			pick = p
			break
		}
	}
	if pick == "" {
		pick = strings.TrimSpace(single)
	}
	if pick == "" {
		return c.fallback
	}

	tag, err := language.Parse(pick)
	if err != nil {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return tag.String()
	}
	return c.locales[idx]
}

// T returns the string for key in locale, falling back to the default locale and then
// to the key itself. Named placeholders such as {wm_name} are filled from args.
func (c *Catalog) T(locale, key string, args map[string]any) string {
	msg, ok := c.lookup(locale, key)
	if !ok {
		msg, ok = c.lookup(c.fallback, key)
	}
	if !ok {
		msg = key
	}
	return interpolate(msg, args)
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	table, ok := c.messages[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}

func interpolate(msg string, args map[string]any) string {
	if len(args) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// ParseAcceptLanguage turns an Accept-Language header into a preference list,
// highest quality first. Malformed headers yield an empty list.
func ParseAcceptLanguage(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}
