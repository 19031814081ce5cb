// Package i18n handles localized user-facing strings.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	goLocale "github.com/jeandeaual/go-locale"
	i18nLib "github.com/kaptinlin/go-i18n"
	"golang.org/x/text/language"

	"github.com/meza/lcov-summary/internal/environment"
)

type LocaleProvider interface {
	GetLocales() ([]string, error)
}

type DefaultLocaleProvider struct{}

func (provider DefaultLocaleProvider) GetLocales() ([]string, error) {
	return goLocale.GetLocales()
}

//go:embed lang/*.json
var langFS embed.FS

const defaultLocale = "en-GB"

type TData map[string]interface{}

type Tvars struct {
	Count int
	Data  *TData
}

// Catalog owns a loaded message bundle and the localizer picked for the user.
type Catalog struct {
	bundle    *i18nLib.I18n
	localizer *i18nLib.Localizer

	// go-i18n caches formatters internally without locking.
	mu sync.Mutex
}

// NewCatalog loads every <locale>.json under dir in fsys and selects the
// best match for userLocales, falling back to en-GB.
func NewCatalog(fsys fs.FS, dir string, userLocales []string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	locales := []string{defaultLocale}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		if strings.EqualFold(locale, defaultLocale) {
			continue
		}
		locales = append(locales, locale)
	}

	bundle := i18nLib.NewBundle(
		i18nLib.WithDefaultLocale(defaultLocale),
		i18nLib.WithLocales(locales...),
	)
	if err := bundle.LoadFS(fsys, fmt.Sprintf("%s/*.json", dir)); err != nil {
		return nil, err
	}

	return &Catalog{
		bundle:    bundle,
		localizer: bundle.NewLocalizer(buildLocalizerLocales(userLocales)...),
	}, nil
}

func (c *Catalog) Translate(key string, args ...Tvars) string {
	if len(args) > 1 {
		panic("Too many arguments")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(args) == 0 {
		return c.localizer.Get(key)
	}

	vars := i18nLib.Vars{"count": args[0].Count}
	if args[0].Data != nil {
		for name, value := range *args[0].Data {
			vars[name] = value
		}
	}
	return c.localizer.Get(key, vars)
}

var (
	defaultCatalog *Catalog
	setupOnce      sync.Once
	localeProvider LocaleProvider = DefaultLocaleProvider{}
)

// ResetForTesting drops the loaded catalog so the next T call reloads it.
func ResetForTesting() {
	defaultCatalog = nil
	setupOnce = sync.Once{}
}

func catalog() *Catalog {
	setupOnce.Do(func() {
		loaded, err := NewCatalog(langFS, "lang", getUserLocales())
		if err != nil {
			panic(err)
		}
		defaultCatalog = loaded
	})
	return defaultCatalog
}

// T translates key for the current user. Under the test harness it returns
// the key and its arguments verbatim so assertions do not depend on copy.
func T(key string, args ...Tvars) string {
	if environment.IsTest() {
		return formatKeyAndArgs(key, args...)
	}
	return catalog().Translate(key, args...)
}

func getUserLocales() []string {
	if envLocale, present := os.LookupEnv("LANG"); present {
		return []string{envLocale}
	}

	detected, err := localeProvider.GetLocales()
	if err != nil {
		return []string{language.English.String()}
	}

	locales := make([]string, 0, len(detected))
	for _, localeName := range detected {
		if localeName != "" {
			locales = append(locales, localeName)
		}
	}
	return locales
}

func formatKeyAndArgs(key string, args ...Tvars) string {
	var sb strings.Builder
	sb.WriteString(key)

	for i, arg := range args {
		sb.WriteString(fmt.Sprintf(", Arg %d: {Count: %d, Data: %v}", i+1, arg.Count, arg.Data))
	}

	return sb.String()
}

// buildLocalizerLocales canonicalizes raw locale names (fr_FR) into BCP 47
// tags and adds each base language right after its regional form.
func buildLocalizerLocales(rawLocales []string) []string {
	locales := make([]string, 0, len(rawLocales)*2)
	seen := make(map[string]struct{}, len(rawLocales)*2)

	add := func(tag string) {
		if _, ok := seen[tag]; ok || tag == "" {
			return
		}
		seen[tag] = struct{}{}
		locales = append(locales, tag)
	}

	for _, localeName := range rawLocales {
		// drop encoding and modifier suffixes such as en_GB.UTF-8@euro
		if cut := strings.IndexAny(localeName, ".@"); cut >= 0 {
			localeName = localeName[:cut]
		}
		if localeName == "" {
			continue
		}
		tag, err := language.Parse(localeName)
		if err != nil {
			continue
		}
		add(tag.String())
		if base, _ := tag.Base(); base.String() != "" {
			add(base.String())
		}
	}

	return locales
}
