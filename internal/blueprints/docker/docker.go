// Package docker is a built-in blueprint that adds Docker Compose files for the application
// and the services it depends on.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jhipster/jhipster-go/internal/core/blueprint"
	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/options"
)

// Name is the blueprint name.
const Name = "docker"

// Version is the blueprint version recorded in .yo-rc.json.
const Version = "1.0.0"

func init() {
	blueprint.Register(Blueprint())
}

// Blueprint returns the blueprint definition.
func Blueprint() blueprint.Blueprint {
	return blueprint.Blueprint{
		Name:        Name,
		Version:     Version,
		Description: "Docker Compose files for the application and its services",
		Requires:    ">= 1.0",
		Generators: map[string]blueprint.Spec{
			"server": {Sidecar: true, Factory: newSidecar},
		},
	}
}

type sidecar struct {
	env *environment.Environment
}

func newSidecar(env *environment.Environment, _ environment.Generator, _ []string) (environment.Generator, error) {
	return &sidecar{env: env}, nil
}

func (s *sidecar) Namespace() string { return "server" }

func (s *sidecar) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Writing: lifecycle.Group(
			lifecycle.NewTask("writeDockerFiles", s.write),
		),
	}
}

func (s *sidecar) write(ctx context.Context) error {
	data := s.env.ApplicationData()
	if !data.Has(options.BaseName) {
		return fmt.Errorf("docker: application data is not prepared")
	}
	files, err := ComposeFiles(data)
	if err != nil {
		return err
	}
	dir := data.String("dockerServicesDir")
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.env.Writer().Write(dir+name, files[name])
	}
	log := s.env.Logger()
	log.Debug().Str("blueprint", Name).Int("files", len(names)).Msg("docker files staged")
	return ctx.Err()
}

// File is a Docker Compose file.
type File struct {
	Name     string             `yaml:"name"`
	Services map[string]Service `yaml:"services"`
}

// Service is one Compose service.
type Service struct {
	Image       string               `yaml:"image,omitempty"`
	Command     string               `yaml:"command,omitempty"`
	Environment []string             `yaml:"environment,omitempty"`
	Ports       []string             `yaml:"ports,omitempty"`
	Healthcheck *Healthcheck         `yaml:"healthcheck,omitempty"`
	DependsOn   map[string]Condition `yaml:"depends_on,omitempty"`
	Extends     *Extends             `yaml:"extends,omitempty"`
}

// Healthcheck is a Compose health check.
type Healthcheck struct {
	Test     []string `yaml:"test"`
	Interval string   `yaml:"interval"`
	Timeout  string   `yaml:"timeout"`
	Retries  int      `yaml:"retries"`
}

// Condition is a depends_on entry.
type Condition struct {
	Condition string `yaml:"condition"`
}

// Extends points a service at its definition in another file.
type Extends struct {
	File    string `yaml:"file"`
	Service string `yaml:"service"`
}

// services maps a service name to its definition for an application.
var services = map[string]func(app derive.Data) Service{
	"postgresql": func(app derive.Data) Service {
		return Service{
			Image: "postgres:17.2",
			Environment: []string{
				"POSTGRES_USER=" + app.String(options.BaseName),
				"POSTGRES_PASSWORD=",
				"POSTGRES_HOST_AUTH_METHOD=trust",
			},
			Ports:       []string{"127.0.0.1:5432:5432"},
			Healthcheck: health("CMD-SHELL", "pg_isready -U $${POSTGRES_USER}"),
		}
	},
	"mysql": func(app derive.Data) Service {
		return Service{
			Image:       "mysql:9.2.0",
			Command:     "mysqld --lower_case_table_names=1 --character_set_server=utf8mb4 --explicit_defaults_for_timestamp",
			Environment: []string{"MYSQL_ALLOW_EMPTY_PASSWORD=yes", "MYSQL_DATABASE=" + app.String("lowercaseBaseName")},
			Ports:       []string{"127.0.0.1:3306:3306"},
			Healthcheck: health("CMD", "mysql", "-e", "SHOW DATABASES;"),
		}
	},
	"mariadb": func(app derive.Data) Service {
		return Service{
			Image:       "mariadb:11.6.2",
			Command:     "mariadbd --lower_case_table_names=1 --character_set_server=utf8mb4 --explicit_defaults_for_timestamp",
			Environment: []string{"MARIADB_ALLOW_EMPTY_ROOT_PASSWORD=yes", "MARIADB_DATABASE=" + app.String("lowercaseBaseName")},
			Ports:       []string{"127.0.0.1:3306:3306"},
			Healthcheck: health("CMD", "healthcheck.sh", "--connect", "--innodb_initialized"),
		}
	},
	"mongodb": func(derive.Data) Service {
		return Service{
			Image:       "mongo:8.0.4",
			Ports:       []string{"127.0.0.1:27017:27017"},
			Healthcheck: health("CMD", "mongosh", "--eval", "db.adminCommand('ping')"),
		}
	},
	"redis": func(derive.Data) Service {
		return Service{
			Image:       "redis:7.4.2",
			Ports:       []string{"127.0.0.1:6379:6379"},
			Healthcheck: health("CMD", "redis-cli", "ping"),
		}
	},
	"memcached": func(derive.Data) Service {
		return Service{
			Image: "memcached:1.6.34-alpine",
			Ports: []string{"127.0.0.1:11211:11211"},
		}
	},
	"keycloak": func(derive.Data) Service {
		return Service{
			Image:       "quay.io/keycloak/keycloak:26.1.0",
			Command:     "start-dev --import-realm",
			Environment: []string{"KC_BOOTSTRAP_ADMIN_USERNAME=admin", "KC_BOOTSTRAP_ADMIN_PASSWORD=admin"},
			Ports:       []string{"127.0.0.1:9080:8080"},
		}
	},
}

func health(test ...string) *Healthcheck {
	return &Healthcheck{Test: test, Interval: "5s", Timeout: "5s", Retries: 10}
}

// Dependencies returns the services the application needs, sorted.
func Dependencies(app derive.Data) []string {
	var out []string
	if db := app.String(options.ProdDatabaseType); services[db] != nil {
		out = append(out, db)
	}
	if cache := app.String(options.CacheProvider); services[cache] != nil {
		out = append(out, cache)
	}
	if app.String(options.AuthenticationType) == "oauth2" {
		out = append(out, "keycloak")
	}
	sort.Strings(out)
	return out
}

// ComposeFiles returns app.yml and one file per dependency, keyed by file name.
func ComposeFiles(app derive.Data) (map[string][]byte, error) {
	project := app.String("lowercaseBaseName")
	port := app.Int(options.ServerPort)
	if port == 0 {
		port = 8080
	}

	backend := Service{
		Image: project,
		Environment: []string{
			"_JAVA_OPTIONS=-Xmx512m -Xms256m",
			"SPRING_PROFILES_ACTIVE=prod,api-docs",
			"MANAGEMENT_PROMETHEUS_METRICS_EXPORT_ENABLED=true",
		},
		Ports: []string{fmt.Sprintf("127.0.0.1:%d:%d", port, port)},
		Healthcheck: &Healthcheck{
			Test:     []string{"CMD", "curl", "-f", fmt.Sprintf("http://localhost:%d/management/health", port)},
			Interval: "5s",
			Timeout:  "5s",
			Retries:  40,
		},
	}
	backend.Environment = append(backend.Environment, datasourceEnv(app)...)

	appFile := File{Name: project, Services: map[string]Service{"app": backend}}
	files := map[string][]byte{}
	deps := Dependencies(app)
	for _, dep := range deps {
		svc := services[dep](app)
		out, err := marshal(File{Name: project, Services: map[string]Service{dep: svc}})
		if err != nil {
			return nil, fmt.Errorf("failed to write %s.yml: %w", dep, err)
		}
		files[dep+".yml"] = out

		appFile.Services[dep] = Service{Extends: &Extends{File: "./" + dep + ".yml", Service: dep}}
		if svc.Healthcheck != nil {
			if backend.DependsOn == nil {
				backend.DependsOn = map[string]Condition{}
			}
			backend.DependsOn[dep] = Condition{Condition: "service_healthy"}
		}
	}
	appFile.Services["app"] = backend

	out, err := marshal(appFile)
	if err != nil {
		return nil, fmt.Errorf("failed to write app.yml: %w", err)
	}
	files["app.yml"] = out
	return files, nil
}

func datasourceEnv(app derive.Data) []string {
	name := app.String("lowercaseBaseName")
	switch app.String(options.ProdDatabaseType) {
	case "postgresql":
		url := "postgresql://postgresql:5432/" + name
		return []string{"SPRING_DATASOURCE_URL=jdbc:" + url, "SPRING_LIQUIBASE_URL=jdbc:" + url}
	case "mysql":
		url := "mysql://mysql:3306/" + name + "?useUnicode=true&characterEncoding=utf8&useSSL=false"
		return []string{"SPRING_DATASOURCE_URL=jdbc:" + url, "SPRING_LIQUIBASE_URL=jdbc:" + url}
	case "mariadb":
		url := "mariadb://mariadb:3306/" + name + "?useLegacyDatetimeCode=false"
		return []string{"SPRING_DATASOURCE_URL=jdbc:" + url, "SPRING_LIQUIBASE_URL=jdbc:" + url}
	case "mongodb":
		return []string{"SPRING_DATA_MONGODB_URI=mongodb://mongodb:27017/" + name}
	}
	return nil
}

func marshal(f File) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# This configuration is intended for development purpose, it's **your** responsibility to harden it for production\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
