package project

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jhipster/jhipster-go/internal/core/options"
)

var (
	// ErrInvalidChoice is returned for values outside an option's choices.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrMissingOption is returned when a required option is unset.
	ErrMissingOption = errors.New("missing required option")
	// ErrInvalidValue is returned for malformed values.
	ErrInvalidValue = errors.New("invalid value")
	// ErrIncompatibleOptions is returned when two options cannot be combined.
	ErrIncompatibleOptions = errors.New("incompatible options")
)

var (
	baseNamePattern    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	packageNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)*$`)
	sqlDatabases       = []string{"postgresql", "mysql", "mariadb", "oracle", "mssql"}
)

// ApplyDefaults fills every unset option of the registry, in registration order.
func ApplyDefaults(cfg *Config) {
	ApplyDefaultsFrom(options.Default, cfg)
}

// ApplyDefaultsFrom fills unset options from r.
func ApplyDefaultsFrom(r *options.Registry, cfg *Config) {
	for _, def := range r.All() {
		if cfg.Has(def.Name) {
			continue
		}
		if value := def.DefaultValue(cfg.data()); value != nil {
			cfg.Set(def.Name, value)
		}
	}
}

// Validate checks the configuration against the option registry and the cross-option rules.
// All problems are reported at once.
func Validate(cfg *Config) error {
	var errs []error
	add := func(base error, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...)))
	}

	switch {
	case !cfg.Has(options.BaseName):
		add(ErrMissingOption, "%s", options.BaseName)
	case !baseNamePattern.MatchString(cfg.String(options.BaseName)):
		add(ErrInvalidValue, "baseName %q must start with a letter and contain only letters, digits, '-' and '_'", cfg.String(options.BaseName))
	}
	if cfg.Has(options.PackageName) && !packageNamePattern.MatchString(cfg.String(options.PackageName)) {
		add(ErrInvalidValue, "packageName %q is not a valid Java package", cfg.String(options.PackageName))
	}

	for _, def := range options.Default.All() {
		value, ok := cfg.Get(def.Name)
		if !ok || value == nil {
			continue
		}
		switch def.Type {
		case options.TypeBoolean:
			if _, ok := value.(bool); !ok {
				add(ErrInvalidValue, "%s must be a boolean, got %v", def.Name, value)
			}
		case options.TypeInteger:
			switch value.(type) {
			case int, int64, float64:
			default:
				add(ErrInvalidValue, "%s must be an integer, got %v", def.Name, value)
			}
		case options.TypeList:
			if !def.HasChoices() {
				continue
			}
			for _, item := range cfg.Strings(def.Name) {
				if !options.Default.IsKnownChoice(def.Name, item) {
					add(ErrInvalidChoice, "%s does not accept %q (choices: %v)", def.Name, item, def.ChoiceValues())
				}
			}
		default:
			if def.HasChoices() && !options.Default.IsKnownChoice(def.Name, cfg.String(def.Name)) {
				add(ErrInvalidChoice, "%s does not accept %q (choices: %v)", def.Name, cfg.String(def.Name), def.ChoiceValues())
			}
		}
	}

	errs = append(errs, crossChecks(cfg)...)
	return errors.Join(errs...)
}

func crossChecks(cfg *Config) []error {
	var errs []error
	incompatible := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrIncompatibleOptions, fmt.Sprintf(format, args...)))
	}

	if cfg.Bool(options.Reactive) {
		if provider := cfg.String(options.CacheProvider); provider != "" && provider != "no" {
			incompatible("reactive applications do not support cacheProvider %q", provider)
		}
		if cfg.Bool(options.EnableHibernateCache) {
			incompatible("reactive applications do not support the Hibernate cache")
		}
	}
	if cfg.String(options.ApplicationType) == options.Microservice && cfg.Has(options.SkipClient) && !cfg.Bool(options.SkipClient) {
		incompatible("microservices do not have a client, set skipClient")
	}
	if cfg.String(options.AuthenticationType) == options.OAuth2 && cfg.Has(options.SkipUserManagement) && !cfg.Bool(options.SkipUserManagement) {
		incompatible("oauth2 authentication delegates user management to the identity provider")
	}
	if cfg.String(options.DatabaseType) == options.SQL {
		if prod := cfg.String(options.ProdDatabaseType); prod != "" && !contains(sqlDatabases, prod) {
			incompatible("prodDatabaseType %q is not a SQL database", prod)
		}
		if dev := cfg.String(options.DevDatabaseType); dev != "" && dev != "h2Disk" && dev != "h2Memory" && !contains(sqlDatabases, dev) {
			incompatible("devDatabaseType %q is not a SQL database", dev)
		}
	} else if cfg.Bool(options.EnableHibernateCache) {
		incompatible("the Hibernate cache requires a SQL database")
	}
	if cfg.String(options.SearchEngine) == "couchbase" && cfg.String(options.DatabaseType) != "couchbase" {
		incompatible("searchEngine couchbase requires databaseType couchbase")
	}
	if cfg.Bool(options.EnableTranslation) && cfg.Has(options.Languages) && cfg.Has(options.NativeLanguage) {
		if !contains(cfg.Strings(options.Languages), cfg.String(options.NativeLanguage)) {
			incompatible("nativeLanguage %q must be part of languages %v", cfg.String(options.NativeLanguage), cfg.Strings(options.Languages))
		}
	}
	return errs
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
