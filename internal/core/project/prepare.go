package project

import (
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/options"
	"github.com/jhipster/jhipster-go/internal/utils/naming"
)

var cacheProviders = []string{"ehcache", "caffeine", "hazelcast", "infinispan", "memcached", "redis"}

// PrepareApplication turns the configuration into the template data of the application:
// every choice option is exploded into boolean flags and naming variants are derived.
func PrepareApplication(cfg *Config) derive.Data {
	data := cfg.Data()

	for _, def := range options.Default.All() {
		if def.HasChoices() {
			derive.PrepareDerivedProperties(data, def.Name, def.ChoiceValues())
		}
	}

	derive.MutateData(data,
		derive.Defaults().
			Func("dasherizedBaseName", func(d derive.Data) any { return naming.Kebab(d.String(options.BaseName)) }).
			Func("camelizedBaseName", func(d derive.Data) any { return naming.Camel(d.String(options.BaseName)) }).
			Func("upperFirstCamelCaseBaseName", func(d derive.Data) any { return naming.Pascal(d.String(options.BaseName)) }).
			Func("lowercaseBaseName", func(d derive.Data) any { return strings.ToLower(d.String(options.BaseName)) }).
			Func("snakeCaseBaseName", func(d derive.Data) any { return naming.Snake(d.String(options.BaseName)) }).
			Func("humanizedBaseName", func(d derive.Data) any {
				if strings.EqualFold(d.String(options.BaseName), "jhipster") {
					return "JHipster"
				}
				return naming.Humanize(d.String(options.BaseName))
			}).
			Func("mainClass", func(d derive.Data) any {
				name := d.String("upperFirstCamelCaseBaseName")
				if strings.HasSuffix(name, "App") {
					return name
				}
				return name + "App"
			}).
			Func("frontendAppName", func(d derive.Data) any {
				name := d.String("camelizedBaseName")
				if strings.HasSuffix(name, "App") {
					return name
				}
				return name + "App"
			}).
			Func("packageFolder", func(d derive.Data) any { return strings.ReplaceAll(d.String(options.PackageName), ".", "/") }).
			Func("javaPackageSrcDir", func(d derive.Data) any { return "src/main/java/" + d.String("packageFolder") + "/" }).
			Func("javaPackageTestDir", func(d derive.Data) any { return "src/test/java/" + d.String("packageFolder") + "/" }).
			Set("srcMainResources", "src/main/resources/").
			Set("clientSrcDir", "src/main/webapp/").
			Set("clientTestDir", "src/test/javascript/").
			Set("dockerServicesDir", "src/main/docker/").
			Func("jhiPrefixDashed", func(d derive.Data) any { return naming.Kebab(d.String(options.JhiPrefix)) }).
			Func("jhiPrefixCapitalized", func(d derive.Data) any { return naming.UpperFirst(d.String(options.JhiPrefix)) }).
			Func("endpointPrefix", func(d derive.Data) any {
				if d.Bool("applicationTypeMicroservice") {
					return "services/" + d.String("lowercaseBaseName")
				}
				return ""
			}).
			Func("devDatabaseTypeH2Any", func(d derive.Data) any {
				dev := d.String(options.DevDatabaseType)
				return dev == "h2Disk" || dev == "h2Memory"
			}).
			Func("cacheManagerIsAvailable", func(d derive.Data) any { return contains(cacheProviders, d.String(options.CacheProvider)) }).
			Func("generateUserManagement", func(d derive.Data) any {
				return !d.Bool(options.SkipUserManagement) && !d.Bool("applicationTypeMicroservice")
			}).
			Func("communicationSpringWebsocket", func(d derive.Data) any { return d.String(options.Websocket) == "spring-websocket" }).
			Func("languagesAny", func(d derive.Data) any { return d.Bool(options.EnableTranslation) && len(d.Strings(options.Languages)) > 0 }),
		derive.Overrides().
			Func("clientFrameworkAny", func(d derive.Data) any { return !d.Bool(options.SkipClient) && d.Bool("clientFrameworkAny") }),
	)

	return data
}
