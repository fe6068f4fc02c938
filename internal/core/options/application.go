package options

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/jhipster/jhipster-go/internal/core/derive"
)

// Application option names.
const (
	ApplicationType      = "applicationType"
	BaseName             = "baseName"
	PackageName          = "packageName"
	AuthenticationType   = "authenticationType"
	DatabaseType         = "databaseType"
	ProdDatabaseType     = "prodDatabaseType"
	DevDatabaseType      = "devDatabaseType"
	CacheProvider        = "cacheProvider"
	BuildTool            = "buildTool"
	ClientFramework      = "clientFramework"
	ClientTheme          = "clientTheme"
	ServerPort           = "serverPort"
	JhiPrefix            = "jhiPrefix"
	EnableTranslation    = "enableTranslation"
	NativeLanguage       = "nativeLanguage"
	Languages            = "languages"
	MessageBroker        = "messageBroker"
	SearchEngine         = "searchEngine"
	ServiceDiscoveryType = "serviceDiscoveryType"
	Websocket            = "websocket"
	Reactive             = "reactive"
	TestFrameworks       = "testFrameworks"
	SkipClient           = "skipClient"
	SkipServer           = "skipServer"
	SkipUserManagement   = "skipUserManagement"
	CiCd                 = "ciCd"
	Blueprints           = "blueprints"
	JwtSecretKey         = "jwtSecretKey"
	EnableHibernateCache = "enableHibernateCache"
	EntitySuffix         = "entitySuffix"
	DtoSuffix            = "dtoSuffix"
	JHipsterVersion      = "jhipsterVersion"
	Entities             = "entities"
)

// Well known choice values.
const (
	Monolith     = "monolith"
	Microservice = "microservice"
	Gateway      = "gateway"
	SQL          = "sql"
	OAuth2       = "oauth2"
	JWT          = "jwt"
)

func choices(values ...string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Value: v}
	}
	return out
}

func named(pairs ...string) []Choice {
	out := make([]Choice, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Choice{Value: pairs[i], Name: pairs[i+1]})
	}
	return out
}

func isMicroservice(cfg derive.Data) bool {
	return cfg.String(ApplicationType) == Microservice
}

func isSQL(cfg derive.Data) bool {
	return cfg.String(DatabaseType) == SQL
}

// applicationDefinitions lists options in resolution order: defaults may read earlier options.
func applicationDefinitions() []Definition {
	return []Definition{
		{
			Name:        ApplicationType,
			Description: "Type of application",
			Type:        TypeString,
			Default:     Monolith,
			Choices:     named(Monolith, "Monolithic application", Gateway, "Gateway application", Microservice, "Microservice application"),
			JDL:         true,
		},
		{Name: BaseName, Description: "Application base name", Type: TypeString, Default: "jhipster", JDL: true},
		{Name: PackageName, Description: "Root Java package", Type: TypeString, Default: "com.mycompany.myapp", JDL: true},
		{
			Name:        AuthenticationType,
			Description: "Authentication mechanism",
			Type:        TypeString,
			Default:     JWT,
			Choices:     named(JWT, "JWT authentication (stateless, with a token)", "session", "HTTP Session Authentication (stateful)", OAuth2, "OAuth 2.0 / OIDC Authentication"),
			JDL:         true,
		},
		{
			Name:        Reactive,
			Description: "Generate a reactive (WebFlux) application",
			Type:        TypeBoolean,
			Default:     false,
			JDL:         true,
		},
		{
			Name:        DatabaseType,
			Description: "Database family",
			Type:        TypeString,
			Default:     SQL,
			Choices:     named(SQL, "SQL (H2, PostgreSQL, MySQL, MariaDB, Oracle, MSSQL)", "mongodb", "MongoDB", "cassandra", "Cassandra", "couchbase", "Couchbase", "neo4j", "Neo4j", "no", "No database"),
			JDL:         true,
		},
		{
			Name:        ProdDatabaseType,
			Description: "Production database",
			Type:        TypeString,
			Default: DefaultFunc(func(cfg derive.Data) any {
				if isSQL(cfg) {
					return "postgresql"
				}
				return cfg.String(DatabaseType)
			}),
			Choices: choices("postgresql", "mysql", "mariadb", "oracle", "mssql", "mongodb", "cassandra", "couchbase", "neo4j", "no"),
			JDL:     true,
		},
		{
			Name:        DevDatabaseType,
			Description: "Development database",
			Type:        TypeString,
			Default: DefaultFunc(func(cfg derive.Data) any {
				if isSQL(cfg) {
					return "h2Disk"
				}
				return cfg.String(DatabaseType)
			}),
			Choices: choices("h2Disk", "h2Memory", "postgresql", "mysql", "mariadb", "oracle", "mssql", "mongodb", "cassandra", "couchbase", "neo4j", "no"),
			JDL:     true,
		},
		{
			Name:        CacheProvider,
			Description: "Spring cache abstraction provider",
			Type:        TypeString,
			Default: DefaultFunc(func(cfg derive.Data) any {
				switch {
				case !isSQL(cfg) || cfg.Bool(Reactive):
					return "no"
				case cfg.String(ApplicationType) == Monolith:
					return "ehcache"
				default:
					return "hazelcast"
				}
			}),
			Choices: named("ehcache", "Ehcache (local cache, for a single node)", "caffeine", "Caffeine (local cache, for a single node)", "hazelcast", "Hazelcast (distributed cache)", "infinispan", "Infinispan (hybrid cache)", "memcached", "Memcached (distributed cache)", "redis", "Redis (distributed cache)", "no", "No cache"),
			JDL:     true,
		},
		{
			Name:        EnableHibernateCache,
			Description: "Use the second level Hibernate cache",
			Type:        TypeBoolean,
			Default: DefaultFunc(func(cfg derive.Data) any {
				return isSQL(cfg) && !cfg.Bool(Reactive) && cfg.String(CacheProvider) != "no"
			}),
			JDL: true,
		},
		{Name: BuildTool, Description: "Build tool", Type: TypeString, Default: "maven", Choices: named("maven", "Maven", "gradle", "Gradle"), JDL: true},
		{
			Name:        ClientFramework,
			Description: "Client framework",
			Type:        TypeString,
			Default: DefaultFunc(func(cfg derive.Data) any {
				if isMicroservice(cfg) {
					return "no"
				}
				return "angular"
			}),
			Choices: named("angular", "Angular", "react", "React", "vue", "Vue", "no", "No client"),
			JDL:     true,
		},
		{Name: ClientTheme, Description: "Bootswatch theme", Type: TypeString, Default: "none", JDL: true},
		{
			Name:        ServerPort,
			Description: "HTTP port of the server",
			Type:        TypeInteger,
			Default: DefaultFunc(func(cfg derive.Data) any {
				if isMicroservice(cfg) {
					return 8081
				}
				return 8080
			}),
			JDL: true,
		},
		{Name: JhiPrefix, Description: "Prefix for services, components and routes", Type: TypeString, Default: "jhi", JDL: true},
		{Name: EnableTranslation, Description: "Enable internationalization", Type: TypeBoolean, Default: true, JDL: true},
		{Name: NativeLanguage, Description: "Native language of the application", Type: TypeString, Default: "en", JDL: true},
		{
			Name:        Languages,
			Description: "Installed languages",
			Type:        TypeList,
			Default: DefaultFunc(func(cfg derive.Data) any {
				if !cfg.Bool(EnableTranslation) {
					return []string{}
				}
				return []string{cfg.String(NativeLanguage)}
			}),
			JDL: true,
		},
		{
			Name:        MessageBroker,
			Description: "Asynchronous messages broker",
			Type:        TypeString,
			Default:     "no",
			Choices:     named("kafka", "Apache Kafka", "pulsar", "Apache Pulsar", "no", "No broker"),
			JDL:         true,
		},
		{
			Name:        SearchEngine,
			Description: "Search engine",
			Type:        TypeString,
			Default:     "no",
			Choices:     named("elasticsearch", "Elasticsearch", "couchbase", "Couchbase FTS", "no", "No search engine"),
			JDL:         true,
		},
		{
			Name:        ServiceDiscoveryType,
			Description: "Service discovery",
			Type:        TypeString,
			Default: DefaultFunc(func(cfg derive.Data) any {
				if cfg.String(ApplicationType) == Monolith {
					return "no"
				}
				return "consul"
			}),
			Choices: named("consul", "Consul", "eureka", "JHipster Registry (Eureka)", "no", "No service discovery"),
			JDL:     true,
		},
		{Name: Websocket, Description: "WebSocket support", Type: TypeString, Default: "no", Choices: named("spring-websocket", "Spring WebSocket", "no", "No WebSocket"), JDL: true},
		{Name: TestFrameworks, Description: "Additional test frameworks", Type: TypeList, Default: []string{}, Choices: named("cypress", "Cypress", "gatling", "Gatling", "cucumber", "Cucumber"), JDL: true},
		{
			Name:        SkipClient,
			Description: "Do not generate the client",
			Type:        TypeBoolean,
			Default: DefaultFunc(func(cfg derive.Data) any {
				return isMicroservice(cfg) || cfg.String(ClientFramework) == "no"
			}),
			JDL: true,
		},
		{Name: SkipServer, Description: "Do not generate the server", Type: TypeBoolean, Default: false, JDL: true},
		{
			Name:        SkipUserManagement,
			Description: "Do not generate user management",
			Type:        TypeBoolean,
			Default: DefaultFunc(func(cfg derive.Data) any {
				return isMicroservice(cfg) || cfg.String(AuthenticationType) == OAuth2
			}),
			JDL: true,
		},
		{Name: CiCd, Description: "Continuous integration pipelines", Type: TypeList, Default: []string{}, Choices: named("github", "GitHub Actions", "gitlab", "GitLab CI", "jenkins", "Jenkins pipeline")},
		{Name: Blueprints, Description: "Blueprints applied to the project", Type: TypeList, JDL: true},
		{
			Name:        JwtSecretKey,
			Description: "Base64 secret used to sign JWT tokens",
			Type:        TypeString,
			Default: DefaultFunc(func(cfg derive.Data) any {
				if cfg.String(AuthenticationType) != JWT {
					return nil
				}
				return newSecret()
			}),
			JDL: true,
		},
		{Name: EntitySuffix, Description: "Suffix added to entity classes", Type: TypeString, Default: "", JDL: true},
		{Name: DtoSuffix, Description: "Suffix added to DTO classes", Type: TypeString, Default: "DTO", JDL: true},
	}
}

func newSecret() string {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf)
}
