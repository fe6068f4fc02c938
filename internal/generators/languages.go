package generators

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/core/templates"
)

// ErrUnknownLanguage is returned for a language without translations.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is a supported translation.
type Language struct {
	Code string
	Name string
	RTL  bool
}

var supportedLanguages = []Language{
	{Code: "ar-ly", Name: "العربية", RTL: true},
	{Code: "ca", Name: "Català"},
	{Code: "de", Name: "Deutsch"},
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Español"},
	{Code: "fa", Name: "فارسی", RTL: true},
	{Code: "fr", Name: "Français"},
	{Code: "it", Name: "Italiano"},
	{Code: "ja", Name: "日本語"},
	{Code: "ko", Name: "한국어"},
	{Code: "nl", Name: "Nederlands"},
	{Code: "pl", Name: "Polski"},
	{Code: "pt-br", Name: "Português (Brasil)"},
	{Code: "pt-pt", Name: "Português"},
	{Code: "ru", Name: "Русский"},
	{Code: "tr", Name: "Türkçe"},
	{Code: "uk", Name: "Українська"},
	{Code: "zh-cn", Name: "中文（简体）"},
	{Code: "zh-tw", Name: "繁體中文"},
}

// SupportedLanguages returns the languages that have translations.
func SupportedLanguages() []Language {
	return append([]Language(nil), supportedLanguages...)
}

// LookupLanguage returns the supported language with code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range supportedLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// JavaCode returns the locale suffix of server message bundles: pt-br becomes pt_BR.
func (l Language) JavaCode() string {
	lang, region, ok := strings.Cut(l.Code, "-")
	if !ok {
		return lang
	}
	return lang + "_" + strings.ToUpper(region)
}

var languageFiles = []templates.Section{
	{
		Name: "client",
		Blocks: []templates.Block{
			{
				Condition: templates.When("clientFrameworkAny"),
				From:      "languages",
				To:        "{{.clientSrcDir}}i18n/{{.lang}}/",
				Templates: templates.Files("global.json.tmpl"),
			},
		},
	},
	{
		Name: "server",
		Blocks: []templates.Block{
			{
				Condition: templates.Unless("skipServer"),
				From:      "languages",
				To:        "{{.srcMainResources}}i18n/",
				Templates: []templates.File{{Source: "messages.properties.tmpl", RenameTo: "messages_{{.langJavaCode}}.properties"}},
			},
		},
	},
}

// languages writes the translation files of the configured languages. Languages passed as
// arguments are added to the configuration first.
type languages struct {
	base
	add     []string
	changed bool
	data    derive.Data
}

func newLanguages(env *environment.Environment, args []string) *languages {
	return &languages{base: newBase(env, Languages), add: args}
}

func (g *languages) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Configuring: lifecycle.Group(
			task("addLanguages", g.addLanguages),
		),
		lifecycle.Preparing: lifecycle.Group(
			task("prepareApplication", func(ctx context.Context) error {
				data, err := prepareApplication(ctx, g.env)
				g.data = data
				return err
			}),
		),
		lifecycle.Writing: lifecycle.Group(
			task("writeConfig", func(ctx context.Context) error {
				if !g.changed {
					return nil
				}
				return saveConfig(ctx, g.env)
			}),
			task("writeFiles", g.write),
		),
	}
}

func (g *languages) addLanguages(ctx context.Context) error {
	if len(g.add) == 0 {
		return nil
	}
	cfg, err := loadConfig(ctx, g.env)
	if err != nil {
		return err
	}
	current := cfg.Strings(options.Languages)
	if !cfg.Has(options.Languages) {
		defaulted := cfg.Clone()
		project.ApplyDefaults(defaulted)
		current = defaulted.Strings(options.Languages)
	}
	for _, code := range g.add {
		if _, ok := LookupLanguage(code); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLanguage, code)
		}
		if !contains(current, code) {
			current = append(current, code)
			g.changed = true
		}
	}
	if !cfg.Bool(options.EnableTranslation) {
		cfg.Set(options.EnableTranslation, true)
		g.changed = true
	}
	sort.Strings(current)
	cfg.Set(options.Languages, current)
	return nil
}

func (g *languages) write(ctx context.Context) error {
	if !g.data.Bool(options.EnableTranslation) {
		return nil
	}
	for _, code := range g.data.Strings(options.Languages) {
		lang, ok := LookupLanguage(code)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLanguage, code)
		}
		if err := g.writeFiles(ctx, languageFiles, languageData(g.data, lang)); err != nil {
			return err
		}
	}
	return nil
}

func languageData(data derive.Data, lang Language) derive.Data {
	out := data.Clone()
	out["lang"] = lang.Code
	out["langName"] = lang.Name
	out["langJavaCode"] = lang.JavaCode()
	out["langRtl"] = lang.RTL
	return out
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
