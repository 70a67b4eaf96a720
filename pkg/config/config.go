// Package config loads the smlcheck.yml workspace configuration.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"sml/analyzer-go/pkg/diag"
)

// FileName is the configuration file looked up by Find.
const FileName = "smlcheck.yml"

// ErrNotFound is returned by Find when no configuration file exists in the
// start directory or any of its parents.
var ErrNotFound = errors.New("config: not found")

//go:embed schema.cue
var schemaSource string

// Config is a validated workspace configuration.
type Config struct {
	// Path is the absolute path of the file the configuration came from.
	Path string
	// Units lists the root unit descriptions, resolved against the
	// directory of Path.
	Units     []string
	Workers   int
	Overrides diag.Overrides
}

type configFile struct {
	Version     int                        `yaml:"version" json:"version"`
	Workspace   *workspaceFile             `yaml:"workspace" json:"workspace,omitempty"`
	Diagnostics map[string]diagnosticEntry `yaml:"diagnostics" json:"diagnostics,omitempty"`
}

type workspaceFile struct {
	Units   []string `yaml:"units" json:"units,omitempty"`
	Workers *int     `yaml:"workers" json:"workers,omitempty"`
}

type diagnosticEntry struct {
	Severity string `yaml:"severity" json:"severity"`
}

// Find walks up from start looking for FileName.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config: no %s found from %s upwards: %w", FileName, origin, ErrNotFound)
		}
		dir = parent
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", abs, err)
	}
	return Parse(abs, data)
}

// Parse decodes and validates configuration text. Relative unit paths are
// resolved against the directory of path.
func Parse(path string, data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: %s is empty", path)
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return raw.toConfig(path)
}

// validate checks the decoded file against the embedded CUE schema.
func validate(raw configFile) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	value := def.Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (raw configFile) toConfig(path string) (*Config, error) {
	cfg := &Config{Path: path}
	base := filepath.Dir(path)
	if raw.Workspace != nil {
		for _, unit := range raw.Workspace.Units {
			unit = filepath.FromSlash(unit)
			if !filepath.IsAbs(unit) {
				unit = filepath.Join(base, unit)
			}
			cfg.Units = append(cfg.Units, unit)
		}
		if raw.Workspace.Workers != nil {
			cfg.Workers = *raw.Workspace.Workers
		}
	}
	keys := make([]string, 0, len(raw.Diagnostics))
	for key := range raw.Diagnostics {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		code, err := diag.ParseCode(key)
		if err != nil {
			return nil, fmt.Errorf("config: %s: diagnostics: %w", path, err)
		}
		if cfg.Overrides == nil {
			cfg.Overrides = diag.Overrides{}
		}
		cfg.Overrides[code] = diag.Severity(raw.Diagnostics[key].Severity)
	}
	return cfg, nil
}
