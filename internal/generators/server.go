package generators

import (
	"context"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/templates"
)

// Locations of server files the entity generator updates.
const (
	javaConfigDir          = "{{.javaPackageSrcDir}}config/"
	liquibaseMasterFile    = "{{.srcMainResources}}config/liquibase/master.xml"
	cacheConfigurationFile = javaConfigDir + "CacheConfiguration.java"
)

var serverFiles = []templates.Section{
	{
		Name: "build",
		Blocks: []templates.Block{
			{Condition: templates.When("buildToolMaven"), From: "server", Templates: templates.Files("pom.xml.tmpl")},
			{Condition: templates.When("buildToolGradle"), From: "server", Templates: templates.Files("build.gradle.tmpl", "settings.gradle.tmpl")},
		},
	},
	{
		Name: "java",
		Blocks: []templates.Block{
			{
				From:      "server",
				To:        "{{.javaPackageSrcDir}}",
				Templates: []templates.File{{Source: "Application.java.tmpl", RenameTo: "{{.mainClass}}.java"}},
			},
			{From: "server", To: javaConfigDir, Templates: templates.Files("SecurityConfiguration.java.tmpl")},
			{Condition: templates.When("cacheManagerIsAvailable"), From: "server", To: javaConfigDir, Templates: templates.Files("CacheConfiguration.java.tmpl")},
			{Condition: templates.When("communicationSpringWebsocket"), From: "server", To: javaConfigDir, Templates: templates.Files("WebsocketConfiguration.java.tmpl")},
		},
	},
	{
		Name: "resources",
		Blocks: []templates.Block{
			{From: "server", To: "{{.srcMainResources}}config/", Templates: templates.Files("application.yml.tmpl")},
			{Condition: templates.When("databaseTypeSql"), From: "server", To: "{{.srcMainResources}}config/liquibase/", Templates: templates.Files("master.xml.tmpl")},
			{
				Condition: templates.When("databaseTypeSql", "generateUserManagement"),
				From:      "server",
				To:        "{{.srcMainResources}}config/liquibase/changelog/",
				Templates: []templates.File{{Source: "initial_schema.xml.tmpl", RenameTo: "00000000000000_initial_schema.xml"}},
			},
		},
	},
}

// server writes the Spring Boot side of the application.
type server struct {
	base
	data derive.Data
}

func newServer(env *environment.Environment) *server {
	return &server{base: newBase(env, Server)}
}

func (g *server) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Preparing: lifecycle.Group(
			task("prepareApplication", func(ctx context.Context) error {
				data, err := prepareApplication(ctx, g.env)
				g.data = data
				return err
			}),
		),
		lifecycle.Writing: lifecycle.Group(
			task("writeFiles", func(ctx context.Context) error { return g.writeFiles(ctx, serverFiles, g.data) }),
		),
	}
}
