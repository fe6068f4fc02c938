package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhipster/jhipster-go/internal/core/environment"
)

func noopFactory(*environment.Environment, environment.Generator, []string) (environment.Generator, error) {
	return nil, nil
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(Blueprint{
		Name:     "generator-jhipster-docker",
		Version:  "1.2.0",
		Requires: ">= 1.0",
		Generators: map[string]Spec{
			"server": {Sidecar: true, Factory: noopFactory},
		},
	}))
	require.NoError(t, r.Register(Blueprint{
		Name:     "kotlin",
		Version:  "0.1.0",
		Requires: ">= 2.0",
		Generators: map[string]Spec{
			"server": {Factory: noopFactory},
			"entity": {Factory: noopFactory},
		},
	}))
	return r
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "docker", Normalize("generator-jhipster-docker"))
	assert.Equal(t, "docker", Normalize(" docker "))
}

func TestRegistry_Lookup(t *testing.T) {
	r := testRegistry(t)

	b, ok := r.Lookup("docker")
	require.True(t, ok)
	assert.Equal(t, "docker", b.Name)

	_, ok = r.Lookup("generator-jhipster-kotlin")
	assert.True(t, ok)

	assert.Equal(t, []string{"docker", "kotlin"}, r.Names())
	assert.ErrorIs(t, r.Register(Blueprint{Name: "docker"}), ErrDuplicateBlueprint)
	assert.Error(t, r.Register(Blueprint{}))
}

func TestRegistry_Resolve(t *testing.T) {
	r := testRegistry(t)

	gens, err := r.Resolve([]string{"kotlin", "docker"}, "server")
	require.NoError(t, err)
	require.Len(t, gens, 2)
	assert.Equal(t, "kotlin", gens[0].Blueprint)
	assert.False(t, gens[0].Sidecar)
	assert.Equal(t, "docker", gens[1].Blueprint)
	assert.True(t, gens[1].Sidecar)

	gens, err = r.Resolve([]string{"docker"}, "entity")
	require.NoError(t, err)
	assert.Empty(t, gens)

	_, err = r.Resolve([]string{"missing"}, "server")
	assert.ErrorIs(t, err, ErrUnknownBlueprint)
}

func TestCheckCompatibility(t *testing.T) {
	r := testRegistry(t)
	docker, _ := r.Lookup("docker")
	kotlin, _ := r.Lookup("kotlin")

	tests := []struct {
		name    string
		b       *Blueprint
		version string
		wantErr bool
	}{
		{"satisfied", docker, "1.4.0", false},
		{"too old", kotlin, "1.4.0", true},
		{"development build", kotlin, "dev", false},
		{"no constraint", &Blueprint{Name: "any"}, "0.1.0", false},
		{"bad constraint", &Blueprint{Name: "bad", Requires: "~~1"}, "1.0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCompatibility(tt.b, tt.version)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.ErrorIs(t, CheckCompatibility(kotlin, "1.0.0"), ErrIncompatible)
}

func TestResolver(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Resolver("1.0.0", false).Resolve([]string{"kotlin"}, "server")
	assert.ErrorIs(t, err, ErrIncompatible)

	gens, err := r.Resolver("1.0.0", true).Resolve([]string{"kotlin"}, "server")
	require.NoError(t, err)
	assert.Len(t, gens, 1)
}

func TestRecords(t *testing.T) {
	r := testRegistry(t)
	assert.Equal(t, []Record{{Name: "generator-jhipster-docker", Version: "1.2.0"}}, r.Records([]string{"docker", "missing"}))
}
