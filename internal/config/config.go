// Package config loads the tool settings from .jhipster-go.yaml, JHIPSTER_* environment variables
// and .env files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem settings are read from.
var AppFs = afero.NewOsFs()

// FileName is the settings file name, without extension.
const FileName = ".jhipster-go"

// Setting keys.
const (
	KeyBlueprints  = "blueprints"
	KeySkipInstall = "skip_install"
	KeySkipGit     = "skip_git"
	KeyForce       = "force"
	KeySkipChecks  = "skip_checks"
	KeyLogLevel    = "log_level"
	KeyHistoryDB   = "history_db"
	KeyOutputDir   = "output_dir"
)

// Config holds the tool settings. Command line flags override them.
type Config struct {
	Blueprints  []string
	SkipInstall bool
	SkipGit     bool
	Force       bool
	SkipChecks  bool
	LogLevel    string
	HistoryDB   string
	OutputDir   string

	// File is the settings file that was read, empty when none was found.
	File string
}

// LoadConfig loads the settings for the working directory dir.
func LoadConfig(dir string) (*Config, error) {
	return Load(AppFs, dir)
}

// Load reads settings through fs. .env and .env.local in dir are applied to the process
// environment first; .env never overrides variables that are already set.
func Load(fs afero.Fs, dir string) (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to find home directory: %w", err)
	}
	if dir == "" {
		dir = "."
	}

	if err := loadDotenv(fs, filepath.Join(dir, ".env"), false); err != nil {
		return nil, err
	}
	if err := loadDotenv(fs, filepath.Join(dir, ".env.local"), true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "jhipster-go"))

	v.SetEnvPrefix("JHIPSTER")
	v.AutomaticEnv()

	v.SetDefault(KeyBlueprints, []string{})
	v.SetDefault(KeySkipInstall, false)
	v.SetDefault(KeySkipGit, false)
	v.SetDefault(KeyForce, false)
	v.SetDefault(KeySkipChecks, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyHistoryDB, filepath.Join(home, ".config", "jhipster-go", "history.db"))
	v.SetDefault(KeyOutputDir, ".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	return &Config{
		Blueprints:  splitList(v.GetStringSlice(KeyBlueprints)),
		SkipInstall: v.GetBool(KeySkipInstall),
		SkipGit:     v.GetBool(KeySkipGit),
		Force:       v.GetBool(KeyForce),
		SkipChecks:  v.GetBool(KeySkipChecks),
		LogLevel:    v.GetString(KeyLogLevel),
		HistoryDB:   expand(v.GetString(KeyHistoryDB)),
		OutputDir:   v.GetString(KeyOutputDir),
		File:        v.ConfigFileUsed(),
	}, nil
}

func loadDotenv(fs afero.Fs, path string, overload bool) error {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	vars, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for key, value := range vars {
		if _, set := os.LookupEnv(key); set && !overload {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// splitList accepts both YAML lists and comma separated values.
func splitList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func expand(path string) string {
	if expanded, err := homedir.Expand(path); err == nil {
		return expanded
	}
	return path
}
