package generators

import (
	"context"
	"fmt"
	"time"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/environment"
	"github.com/jhipster/jhipster-go/internal/core/lifecycle"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/core/templates"
	"github.com/jhipster/jhipster-go/internal/repository"
)

// changelogDateFormat is the layout of entity changelog dates.
const changelogDateFormat = "20060102150405"

const entityClientDir = "{{.clientSrcDir}}app/entities/{{.entityFolderName}}/"

var entityServerFiles = []templates.Section{
	{
		Name: "domain",
		Blocks: []templates.Block{
			{
				From:      "entity/server",
				To:        "{{.javaPackageSrcDir}}domain/",
				Templates: []templates.File{{Source: "Entity.java.tmpl", RenameTo: "{{.persistClass}}.java"}},
			},
			{
				From:      "entity/server",
				To:        "{{.javaPackageSrcDir}}repository/",
				Templates: []templates.File{{Source: "EntityRepository.java.tmpl", RenameTo: "{{.repositoryClass}}.java"}},
			},
		},
	},
	{
		Name: "service",
		Blocks: []templates.Block{
			{
				Condition: templates.When("serviceAny"),
				From:      "entity/server",
				To:        "{{.javaPackageSrcDir}}service/",
				Templates: []templates.File{{Source: "EntityService.java.tmpl", RenameTo: "{{.serviceClassName}}.java"}},
			},
			{
				Condition: templates.When("dtoMapstruct"),
				From:      "entity/server",
				To:        "{{.javaPackageSrcDir}}service/dto/",
				Templates: []templates.File{{Source: "EntityDTO.java.tmpl", RenameTo: "{{.dtoClass}}.java"}},
			},
		},
	},
	{
		Name: "rest",
		Blocks: []templates.Block{
			{
				From:      "entity/server",
				To:        "{{.javaPackageSrcDir}}web/rest/",
				Templates: []templates.File{{Source: "EntityResource.java.tmpl", RenameTo: "{{.restClass}}.java"}},
			},
		},
	},
	{
		Name: "liquibase",
		Blocks: []templates.Block{
			{
				Condition: templates.When("databaseTypeSql"),
				From:      "entity/server",
				To:        "{{.srcMainResources}}config/liquibase/changelog/",
				Templates: []templates.File{{Source: "changelog.xml.tmpl", RenameTo: "{{.changelogDate}}_added_entity_{{.entityClass}}.xml"}},
			},
		},
	},
}

var entityClientFiles = []templates.Section{
	{
		Name: "model",
		Blocks: []templates.Block{
			{
				From:      "entity/client",
				To:        entityClientDir,
				Templates: []templates.File{{Source: "entity.model.ts.tmpl", RenameTo: "{{.entityFileName}}.model.ts"}},
			},
		},
	},
	{
		Name: "views",
		Blocks: []templates.Block{
			{
				Condition: templates.When("clientFrameworkAngular"),
				From:      "entity/client/angular",
				To:        entityClientDir + "list/",
				Templates: []templates.File{{Source: "entity.component.ts.tmpl", RenameTo: "{{.entityFileName}}.component.ts"}},
			},
			{
				Condition: templates.When("clientFrameworkReact"),
				From:      "entity/client/react",
				To:        entityClientDir,
				Templates: []templates.File{{Source: "entity.tsx.tmpl", RenameTo: "{{.entityFileName}}.tsx"}},
			},
			{
				Condition: templates.When("clientFrameworkVue"),
				From:      "entity/client/vue",
				To:        entityClientDir,
				Templates: []templates.File{{Source: "entity.vue.tmpl", RenameTo: "{{.entityFileName}}.vue"}},
			},
		},
	},
}

var entityI18nFiles = []templates.Section{
	{
		Name: "i18n",
		Blocks: []templates.Block{
			{
				From:      "entity/client",
				To:        "{{.clientSrcDir}}i18n/{{.lang}}/",
				Templates: []templates.File{{Source: "entity.json.tmpl", RenameTo: "{{.entityTranslationKey}}.json"}},
			},
		},
	},
}

var enumFiles = []templates.Section{
	{
		Name: "server",
		Blocks: []templates.Block{
			{
				Condition: templates.Unless("skipServer"),
				From:      "entity/server",
				To:        "{{.javaPackageSrcDir}}domain/enumeration/",
				Templates: []templates.File{{Source: "Enum.java.tmpl", RenameTo: "{{.enumName}}.java"}},
			},
		},
	},
	{
		Name: "client",
		Blocks: []templates.Block{
			{
				Condition: templates.Unless("skipClient"),
				From:      "entity/client",
				To:        "{{.clientSrcDir}}app/entities/enumerations/",
				Templates: []templates.File{{Source: "enum.model.ts.tmpl", RenameTo: "{{.enumFileName}}.model.ts"}},
			},
		},
	},
}

// entityGenerator writes the server and client code of one entity and registers it in the
// application files.
type entityGenerator struct {
	base
	name   string
	entity *entity.Entity
	data   derive.Data
}

func newEntity(env *environment.Environment, args []string) (environment.Generator, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, fmt.Errorf("%w: entity name", ErrMissingArgument)
	}
	g := &entityGenerator{base: newBase(env, Entity), name: args[0]}
	g.log = g.log.With().Str("entity", args[0]).Logger()
	return g, nil
}

func (g *entityGenerator) Priorities() lifecycle.Priorities {
	return lifecycle.Priorities{
		lifecycle.Loading: lifecycle.Group(
			task("loadEntity", g.load),
		),
		lifecycle.Preparing: lifecycle.Group(
			task("prepareEntity", g.prepare),
		),
		lifecycle.Writing: lifecycle.Group(
			task("writeServerFiles", g.writeServer),
			task("writeClientFiles", g.writeClient),
			task("writeEnumFiles", g.writeEnums),
		),
		lifecycle.PostWriting: lifecycle.Group(
			task("addToLiquibase", g.addToLiquibase),
			task("addToCache", g.addToCache),
			task("addToClient", g.addToClient),
			task("addTranslations", g.addTranslations),
		),
	}
}

func (g *entityGenerator) load(ctx context.Context) error {
	store, err := loadEntities(ctx, g.env)
	if err != nil {
		return err
	}
	e, ok := store.Get(g.name)
	if !ok {
		return fmt.Errorf("%w: %s", repository.ErrEntityNotFound, g.name)
	}
	if e.ChangelogDate == "" {
		e.ChangelogDate = time.Now().UTC().Format(changelogDateFormat)
		data, err := repository.EncodeEntity(e)
		if err != nil {
			return err
		}
		g.env.Writer().Overwrite(repository.EntityPath(e.Name), data)
	}
	g.entity = e
	return nil
}

func (g *entityGenerator) prepare(ctx context.Context) error {
	app, err := prepareApplication(ctx, g.env)
	if err != nil {
		return err
	}
	g.data = entity.Prepare(app, g.entity)
	return nil
}

func (g *entityGenerator) writeServer(ctx context.Context) error {
	if g.data.Bool("skipServer") {
		return nil
	}
	return g.writeFiles(ctx, entityServerFiles, g.data)
}

func (g *entityGenerator) clientEnabled() bool {
	return !g.data.Bool("skipClient") && g.data.Bool("clientFrameworkAny")
}

func (g *entityGenerator) writeClient(ctx context.Context) error {
	if !g.clientEnabled() {
		return nil
	}
	if err := g.writeFiles(ctx, entityClientFiles, g.data); err != nil {
		return err
	}
	if !g.data.Bool("languagesAny") {
		return nil
	}
	for _, code := range g.data.Strings(options.Languages) {
		lang, ok := LookupLanguage(code)
		if !ok {
			continue
		}
		if err := g.writeFiles(ctx, entityI18nFiles, languageData(g.data, lang)); err != nil {
			return err
		}
	}
	return nil
}

func (g *entityGenerator) writeEnums(ctx context.Context) error {
	data := g.data.Clone()
	data["skipClient"] = !g.clientEnabled()
	seen := map[string]bool{}
	for _, f := range fieldsOf(g.data) {
		if !f.Bool("fieldIsEnum") || seen[f.String("fieldType")] {
			continue
		}
		seen[f.String("fieldType")] = true
		if err := g.writeFiles(ctx, enumFiles, enumData(data, f)); err != nil {
			return err
		}
	}
	return nil
}

func enumData(data, field derive.Data) derive.Data {
	out := data.Clone()
	values, _ := field["enumValues"].([]derive.Data)
	custom := false
	for _, v := range values {
		if v.String("name") != v.String("value") {
			custom = true
		}
	}
	out["enumName"] = field.String("fieldType")
	out["enumFileName"] = field.String("enumFileName")
	out["enumValues"] = values
	out["enumHasCustomValues"] = custom
	return out
}

func fieldsOf(data derive.Data) []derive.Data {
	fields, _ := data["fields"].([]derive.Data)
	return fields
}

// path renders a file location template against the entity data.
func (g *entityGenerator) path(tmpl string) (string, error) {
	return g.env.Engine().RenderString(tmpl, g.data)
}

func (g *entityGenerator) addToLiquibase(ctx context.Context) error {
	if g.data.Bool("skipServer") || !g.data.Bool("databaseTypeSql") {
		return nil
	}
	master, err := g.path(liquibaseMasterFile)
	if err != nil {
		return err
	}
	include := fmt.Sprintf(`<include file="config/liquibase/changelog/%s_added_entity_%s.xml" relativeToChangelogFile="false"/>`,
		g.data.String("changelogDate"), g.data.String("entityClass"))
	return g.needle(ctx, master, "liquibase-add-changelog", include)
}

func (g *entityGenerator) addToCache(ctx context.Context) error {
	if g.data.Bool("skipServer") || !g.data.Bool("cacheManagerIsAvailable") || !g.data.Bool(options.EnableHibernateCache) {
		return nil
	}
	file, err := g.path(cacheConfigurationFile)
	if err != nil {
		return err
	}
	entry := fmt.Sprintf("createCache(cm, %s.domain.%s.class.getName());", g.data.String(options.PackageName), g.data.String("persistClass"))
	return g.needle(ctx, file, "ehcache-add-entry", entry)
}

// clientNeedle is one insertion into a client file.
type clientNeedle struct {
	file    string
	marker  string
	content string
}

func (g *entityGenerator) clientNeedles() []clientNeedle {
	d := g.data
	class, url, humanized := d.String("entityClass"), d.String("entityUrl"), d.String("entityNameHumanized")
	file, key := d.String("entityFileName"), d.String("entityTranslationKey")
	switch {
	case d.Bool("clientFrameworkAngular"):
		return []clientNeedle{
			{angularRoutesFile, "add-entity-route", fmt.Sprintf("{\n  path: '%s',\n  loadComponent: () => import('./entities/%s/list/%s.component'),\n},", url, d.String("entityFolderName"), file)},
			{angularNavbarFile, "add-entity-to-menu", fmt.Sprintf("<li><a class=\"dropdown-item\" routerLink=\"/%s\" data-cy=\"entity-%s\">%s</a></li>", url, key, humanized)},
		}
	case d.Bool("clientFrameworkReact"):
		return []clientNeedle{
			{reactRoutesFile, "add-route-import", fmt.Sprintf("import { %s } from './entities/%s/%s';", class, d.String("entityFolderName"), file)},
			{reactRoutesFile, "add-route-path", fmt.Sprintf("<Route path=\"%s/*\" element={<%s />} />", url, class)},
			{reactMenuFile, "add-entity-to-menu", fmt.Sprintf("<NavLink to=\"/%s\">%s</NavLink>", url, humanized)},
		}
	case d.Bool("clientFrameworkVue"):
		return []clientNeedle{
			{vueRouterFile, "add-entity-to-router", fmt.Sprintf("{ path: '/%s', name: '%s', component: () => import('@/entities/%s/%s.vue') },", url, class, d.String("entityFolderName"), file)},
			{vueMenuFile, "add-entity-to-menu", fmt.Sprintf("<router-link to=\"/%s\" class=\"dropdown-item\">%s</router-link>", url, humanized)},
		}
	}
	return nil
}

func (g *entityGenerator) addToClient(ctx context.Context) error {
	if !g.clientEnabled() {
		return nil
	}
	for _, n := range g.clientNeedles() {
		file, err := g.path(n.file)
		if err != nil {
			return err
		}
		if err := g.needle(ctx, file, n.marker, n.content); err != nil {
			return err
		}
	}
	return nil
}

func (g *entityGenerator) addTranslations(ctx context.Context) error {
	if !g.clientEnabled() || !g.data.Bool("languagesAny") {
		return nil
	}
	entry := fmt.Sprintf("%q: %q,", g.data.String("entityTranslationKey"), g.data.String("entityNameHumanized"))
	for _, code := range g.data.Strings(options.Languages) {
		file, err := g.path("{{.clientSrcDir}}i18n/" + code + "/global.json")
		if err != nil {
			return err
		}
		if err := g.needle(ctx, file, "menu-add-entry", entry); err != nil {
			return err
		}
	}
	return nil
}
