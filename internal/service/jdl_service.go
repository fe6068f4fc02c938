package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jhipster/jhipster-go/internal/core/derive"
	"github.com/jhipster/jhipster-go/internal/core/entity"
	"github.com/jhipster/jhipster-go/internal/core/jdl"
	"github.com/jhipster/jhipster-go/internal/core/project"
	"github.com/jhipster/jhipster-go/internal/generators"
	"github.com/jhipster/jhipster-go/internal/repository"
)

// changelogLayout is the layout of entity changelog dates.
const changelogLayout = "20060102150405"

// JDLService imports JDL documents into projects and exports projects back to JDL.
type JDLService struct {
	fs       afero.Fs
	generate *GenerateService
	open     Opener
	clock    func() time.Time
}

// NewJDLService creates a JDL service reading documents from fs.
func NewJDLService(fs afero.Fs, generate *GenerateService) *JDLService {
	return &JDLService{fs: fs, generate: generate, open: generate.deps.Open, clock: time.Now}
}

// ImportInput contains import input parameters. The generation flags apply to every
// application of the document.
type ImportInput struct {
	Files          []string
	Dir            string
	SkipGeneration bool
	Blueprints     []string
	Force          bool
	SkipInstall    bool
	SkipGit        bool
	SkipChecks     bool
	DryRun         bool
}

// ImportedApplication is one application written by an import.
type ImportedApplication struct {
	BaseName string
	Dir      string
	Entities []string
	Result   *GenerateResult
}

// ImportResult describes an import.
type ImportResult struct {
	Source       string
	Diagnostics  jdl.Diagnostics
	Export       *jdl.Export
	Applications []*ImportedApplication
}

// Load reads, parses and converts the files. Diagnostics are returned with the error so
// callers can print them against the source.
func (s *JDLService) Load(files []string) (*ImportResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no JDL file given", jdl.ErrInvalidDocument)
	}
	var sources []string
	for _, file := range files {
		content, err := afero.ReadFile(s.fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		sources = append(sources, string(content))
	}
	result := &ImportResult{Source: strings.Join(sources, "\n")}

	doc, diags := jdl.Load(strings.Join(files, ","), result.Source)
	result.Diagnostics = diags
	if diags.HasErrors() {
		return result, diags.Err()
	}
	export, err := jdl.ToJSON(doc)
	if err != nil {
		return result, err
	}
	result.Export = export
	return result, nil
}

// Import loads the files and writes their applications and entities. A document without
// applications imports its entities into input.Dir. With several applications each one goes to
// <dir>/<baseName>.
func (s *JDLService) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	result, err := s.Load(input.Files)
	if err != nil {
		return result, err
	}
	export := result.Export

	if len(export.Applications) == 0 {
		app, err := s.importApplication(ctx, input, input.Dir, nil, export.Entities)
		if err != nil {
			return result, err
		}
		result.Applications = append(result.Applications, app)
		return result, nil
	}

	for _, exported := range export.Applications {
		dir := input.Dir
		if len(export.Applications) > 1 {
			dir = filepath.Join(input.Dir, exported.BaseName())
		}
		app, err := s.importApplication(ctx, input, dir, exported.Config, exported.Entities)
		if app != nil {
			result.Applications = append(result.Applications, app)
		}
		if err != nil {
			return result, fmt.Errorf("failed to import %s: %w", exported.BaseName(), err)
		}
	}
	return result, nil
}

func (s *JDLService) importApplication(ctx context.Context, input ImportInput, dir string, cfg *project.Config, entities []*entity.Entity) (*ImportedApplication, error) {
	if dir == "" {
		dir = "."
	}
	store, err := s.open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	entityRepo := repository.NewEntityRepository(store)

	entities, err = s.assignChangelogDates(ctx, entityRepo, entities)
	if err != nil {
		return nil, err
	}
	app := &ImportedApplication{Dir: dir}
	if cfg != nil {
		app.BaseName = cfg.String("baseName")
	}
	for _, e := range entities {
		app.Entities = append(app.Entities, e.Name)
	}

	if !input.DryRun {
		if cfg != nil && input.SkipGeneration {
			if err := repository.NewConfigRepository(store).Save(ctx, cfg); err != nil {
				return app, err
			}
		}
		for _, e := range entities {
			if err := entityRepo.Save(ctx, e); err != nil {
				return app, err
			}
		}
	}
	if input.SkipGeneration {
		return app, nil
	}

	namespace := generators.App
	if cfg == nil {
		if len(entities) == 0 {
			return app, nil
		}
		namespace = generators.Entities
	}
	app.Result, err = s.generate.Generate(ctx, GenerateInput{
		Dir:         dir,
		Namespace:   namespace,
		Blueprints:  input.Blueprints,
		Force:       input.Force,
		SkipInstall: input.SkipInstall,
		SkipGit:     input.SkipGit,
		SkipChecks:  input.SkipChecks,
		DryRun:      input.DryRun,
		Config:      cfg,
		Entities:    entities,
		Command:     "jdl " + strings.Join(input.Files, " "),
	})
	return app, err
}

// assignChangelogDates keeps the dates of entities that already exist in the project and gives
// new ones increasing dates, one second apart, in declaration order.
func (s *JDLService) assignChangelogDates(ctx context.Context, repo repository.EntityRepository, entities []*entity.Entity) ([]*entity.Entity, error) {
	next := s.clock().UTC()
	out := make([]*entity.Entity, 0, len(entities))
	for _, e := range entities {
		e = e.Clone()
		existing, err := repo.FindByName(ctx, e.Name)
		switch {
		case err == nil && existing.ChangelogDate != "":
			e.ChangelogDate = existing.ChangelogDate
		case err != nil && !isNotFound(err):
			return nil, err
		case e.ChangelogDate == "":
			e.ChangelogDate = next.Format(changelogLayout)
			next = next.Add(time.Second)
		}
		out = append(out, e)
	}
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrEntityNotFound)
}

// Export renders the project in dir as a JDL document.
func (s *JDLService) Export(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	store, err := s.open(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", dir, err)
	}
	cfg, err := repository.NewConfigRepository(store).Load(ctx)
	if err != nil {
		return "", err
	}
	entities, err := repository.NewEntityRepository(store).FindAll(ctx)
	if err != nil {
		return "", err
	}
	if cfg.Len() == 0 {
		cfg = nil
	}
	return jdl.Format(jdl.FromJSON(cfg, entities)), nil
}

// dump is the serialised form of an export.
type dump struct {
	Applications []dumpApplication `json:"applications,omitempty" yaml:"applications,omitempty"`
	Entities     []*entity.Entity  `json:"entities" yaml:"entities"`
	Deployments  []derive.Data     `json:"deployments,omitempty" yaml:"deployments,omitempty"`
}

type dumpApplication struct {
	Config   derive.Data `json:"config" yaml:"config"`
	Entities []string    `json:"entities" yaml:"entities"`
}

// Dump serialises an export as "json" or "yaml".
func Dump(export *jdl.Export, format string) ([]byte, error) {
	d := dump{Entities: export.Entities}
	for _, app := range export.Applications {
		da := dumpApplication{Config: app.Config.Data(), Entities: []string{}}
		for _, e := range app.Entities {
			da.Entities = append(da.Entities, e.Name)
		}
		d.Applications = append(d.Applications, da)
	}
	for _, dep := range export.Deployments {
		d.Deployments = append(d.Deployments, dep.Data())
	}

	switch strings.ToLower(format) {
	case "json":
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(d)
	default:
		return nil, fmt.Errorf("unsupported dump format %q (use json or yaml)", format)
	}
}
