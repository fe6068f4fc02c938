package project

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhipster/jhipster-go/internal/core/options"
)

func TestConfig_KeepsInsertionOrder(t *testing.T) {
	cfg := New()
	cfg.Set("zeta", 1)
	cfg.Set("alpha", "a")
	cfg.Set("zeta", 2)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":2,"alpha":"a"}`, string(out))
	assert.Equal(t, `{"zeta":2,"alpha":"a"}`, string(out))

	var back Config
	require.NoError(t, json.Unmarshal([]byte(`{"b":true,"a":8080,"c":["x"]}`), &back))
	assert.Equal(t, []string{"b", "a", "c"}, back.Keys())
	v, _ := back.Get("a")
	assert.Equal(t, 8080, v)
	assert.Equal(t, []string{"x"}, back.Strings("c"))
}

func TestConfig_Delete(t *testing.T) {
	cfg := FromMap(map[string]any{"a": 1, "b": 2, "c": 3})
	cfg.Delete("b")
	cfg.Delete("missing")
	assert.Equal(t, []string{"a", "c"}, cfg.Keys())
	assert.False(t, cfg.Has("b"))
}

func TestConfig_UnmarshalRejectsArrays(t *testing.T) {
	var cfg Config
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &cfg))
}

func TestApplyDefaults(t *testing.T) {
	t.Run("monolith", func(t *testing.T) {
		cfg := FromMap(map[string]any{options.BaseName: "store"})
		ApplyDefaults(cfg)

		assert.Equal(t, "monolith", cfg.String(options.ApplicationType))
		assert.Equal(t, 8080, cfg.Int(options.ServerPort))
		assert.Equal(t, "ehcache", cfg.String(options.CacheProvider))
		assert.Equal(t, "postgresql", cfg.String(options.ProdDatabaseType))
		assert.Equal(t, "h2Disk", cfg.String(options.DevDatabaseType))
		assert.Equal(t, []string{"en"}, cfg.Strings(options.Languages))
		assert.False(t, cfg.Bool(options.SkipClient))
		assert.NotEmpty(t, cfg.String(options.JwtSecretKey))
		assert.NoError(t, Validate(cfg))
	})

	t.Run("microservice", func(t *testing.T) {
		cfg := FromMap(map[string]any{options.BaseName: "orders", options.ApplicationType: "microservice"})
		ApplyDefaults(cfg)

		assert.Equal(t, 8081, cfg.Int(options.ServerPort))
		assert.True(t, cfg.Bool(options.SkipClient))
		assert.Equal(t, "no", cfg.String(options.ClientFramework))
		assert.Equal(t, "hazelcast", cfg.String(options.CacheProvider))
		assert.Equal(t, "consul", cfg.String(options.ServiceDiscoveryType))
		assert.NoError(t, Validate(cfg))
	})

	t.Run("existing values are kept", func(t *testing.T) {
		cfg := FromMap(map[string]any{options.BaseName: "store", options.DatabaseType: "mongodb", options.ServerPort: 9000})
		ApplyDefaults(cfg)

		assert.Equal(t, 9000, cfg.Int(options.ServerPort))
		assert.Equal(t, "no", cfg.String(options.CacheProvider))
		assert.Equal(t, "mongodb", cfg.String(options.ProdDatabaseType))
		assert.False(t, cfg.Bool(options.EnableHibernateCache))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr error
	}{
		{"missing base name", map[string]any{}, ErrMissingOption},
		{"bad base name", map[string]any{options.BaseName: "1store"}, ErrInvalidValue},
		{"bad package", map[string]any{options.BaseName: "store", options.PackageName: "Com.Foo"}, ErrInvalidValue},
		{"unknown choice", map[string]any{options.BaseName: "store", options.ClientFramework: "svelte"}, ErrInvalidChoice},
		{"unknown list choice", map[string]any{options.BaseName: "store", options.TestFrameworks: []any{"cypress", "karma"}}, ErrInvalidChoice},
		{"boolean type", map[string]any{options.BaseName: "store", options.Reactive: "yes"}, ErrInvalidValue},
		{"reactive with ehcache", map[string]any{options.BaseName: "store", options.Reactive: true, options.CacheProvider: "ehcache"}, ErrIncompatibleOptions},
		{"microservice with client", map[string]any{options.BaseName: "store", options.ApplicationType: "microservice", options.SkipClient: false}, ErrIncompatibleOptions},
		{"sql with mongodb prod", map[string]any{options.BaseName: "store", options.DatabaseType: "sql", options.ProdDatabaseType: "mongodb"}, ErrIncompatibleOptions},
		{"native language missing", map[string]any{options.BaseName: "store", options.EnableTranslation: true, options.NativeLanguage: "fr", options.Languages: []any{"en"}}, ErrIncompatibleOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(FromMap(tt.values))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	err := Validate(FromMap(map[string]any{options.ClientFramework: "svelte", options.BuildTool: "ant"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingOption)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Contains(t, err.Error(), "svelte")
	assert.Contains(t, err.Error(), "ant")
}

func TestPrepareApplication(t *testing.T) {
	cfg := FromMap(map[string]any{
		options.BaseName:    "myStore",
		options.PackageName: "com.acme.store",
	})
	ApplyDefaults(cfg)
	data := PrepareApplication(cfg)

	assert.True(t, data.Bool("applicationTypeMonolith"))
	assert.False(t, data.Bool("applicationTypeMicroservice"))
	assert.True(t, data.Bool("databaseTypeSql"))
	assert.True(t, data.Bool("authenticationTypeJwt"))
	assert.True(t, data.Bool("clientFrameworkAngular"))
	assert.True(t, data.Bool("clientFrameworkAny"))
	assert.True(t, data.Bool("devDatabaseTypeH2Any"))
	assert.True(t, data.Bool("cacheManagerIsAvailable"))
	assert.False(t, data.Bool("testFrameworksAny"))

	assert.Equal(t, "my-store", data.String("dasherizedBaseName"))
	assert.Equal(t, "MyStoreApp", data.String("mainClass"))
	assert.Equal(t, "myStoreApp", data.String("frontendAppName"))
	assert.Equal(t, "My Store", data.String("humanizedBaseName"))
	assert.Equal(t, "com/acme/store", data.String("packageFolder"))
	assert.Equal(t, "src/main/java/com/acme/store/", data.String("javaPackageSrcDir"))
	assert.Equal(t, "Jhi", data.String("jhiPrefixCapitalized"))
	assert.Equal(t, "", data.String("endpointPrefix"))

	// the configuration itself is untouched
	assert.False(t, cfg.Has("mainClass"))
}

func TestPrepareApplication_SkippedClient(t *testing.T) {
	cfg := FromMap(map[string]any{options.BaseName: "jhipster", options.ClientFramework: "react", options.SkipClient: true})
	ApplyDefaults(cfg)
	data := PrepareApplication(cfg)

	assert.True(t, data.Bool("clientFrameworkReact"))
	assert.False(t, data.Bool("clientFrameworkAny"))
	assert.Equal(t, "JHipster", data.String("humanizedBaseName"))
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion("", "1.2.0"))
	assert.NoError(t, CheckVersion("1.0.0", "1.2.0"))
	assert.NoError(t, CheckVersion("1.9.0", "1.2.0"))
	assert.ErrorIs(t, CheckVersion("2.0.0", "1.2.0"), ErrNewerProject)
	assert.NoError(t, CheckVersion("2.0.0", "dev"))
	assert.Error(t, CheckVersion("not-a-version", "1.0.0"))
}
