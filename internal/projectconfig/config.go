// Package projectconfig provides the ProjectConfig struct and loader for
// .bytepair.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/bytepair/internal/utils"
	"github.com/spboyer/bytepair/internal/validation"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by Load.
const FileName = ".bytepair.yaml"

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultMarker    = "_"
	DefaultMerges    = 10
	DefaultWorkers   = 1
	DefaultCacheSize = 8192

	DefaultFormat    = "table"
	DefaultTokenizer = "bpe"
)

// TrainingConfig holds merge trainer settings.
type TrainingConfig struct {
	Marker              string `yaml:"marker,omitempty" mapstructure:"marker"`
	Merges              *int   `yaml:"merges,omitempty" mapstructure:"merges"`
	Workers             int    `yaml:"workers,omitempty" mapstructure:"workers"`
	InclusiveMergeCount *bool  `yaml:"inclusive_merge_count,omitempty" mapstructure:"inclusive_merge_count"`
	CacheSize           *int   `yaml:"cache_size,omitempty" mapstructure:"cache_size"`
}

// CorpusConfig holds the default corpus location and how it is prepared.
type CorpusConfig struct {
	Path    string `yaml:"path,omitempty" mapstructure:"path"`
	Flatten *bool  `yaml:"flatten,omitempty" mapstructure:"flatten"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	Format    string `yaml:"format,omitempty" mapstructure:"format"`
	Tokenizer string `yaml:"tokenizer,omitempty" mapstructure:"tokenizer"`
}

// ProjectConfig is the top-level configuration loaded from .bytepair.yaml.
type ProjectConfig struct {
	Training TrainingConfig `yaml:"training,omitempty" mapstructure:"training"`
	Corpus   CorpusConfig   `yaml:"corpus,omitempty" mapstructure:"corpus"`
	Output   OutputConfig   `yaml:"output,omitempty" mapstructure:"output"`

	// dir is the directory holding the file this configuration came from.
	dir string
}

// MergeCount returns training.merges, or DefaultMerges when it is unset.
// Zero is a valid setting.
func (t TrainingConfig) MergeCount() int {
	if t.Merges == nil {
		return DefaultMerges
	}
	return *t.Merges
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Training: TrainingConfig{
			Marker:              DefaultMarker,
			Merges:              intPtr(DefaultMerges),
			Workers:             DefaultWorkers,
			InclusiveMergeCount: boolPtr(false),
			CacheSize:           intPtr(DefaultCacheSize),
		},
		Corpus: CorpusConfig{
			Flatten: boolPtr(true),
		},
		Output: OutputConfig{
			Format:    DefaultFormat,
			Tokenizer: DefaultTokenizer,
		},
	}
}

// Load finds .bytepair.yaml by walking up from startDir (max 10 levels),
// validates and unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return parse(data, path)
}

// LoadFile reads the configuration at path. Unlike Load, a missing file is
// an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, name string) (*ProjectConfig, error) {
	if errs := validation.ValidateConfigBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s:\n  %s", name, strings.Join(errs, "\n  "))
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	// Merge file values onto defaults.
	cfg := New()
	mergeConfig(cfg, &fileCfg)
	if abs, err := filepath.Abs(name); err == nil {
		cfg.dir = filepath.Dir(abs)
	}
	return cfg, nil
}

// findConfigFile walks up from dir looking for .bytepair.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range 10 {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// CorpusLocation returns corpus.path resolved against the directory of the
// configuration file it was read from.
func (c *ProjectConfig) CorpusLocation() string {
	return utils.ResolveLocation(c.Corpus.Path, c.dir)
}

// ApplyOverrides sets fields from "section.key=value" assignments, e.g.
// "training.merges=50". Values are converted to the field's type.
func (c *ProjectConfig) ApplyOverrides(assignments []string) error {
	if len(assignments) == 0 {
		return nil
	}

	input := map[string]any{}
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("override %q: expected section.key=value", a)
		}
		section, field, ok := strings.Cut(strings.TrimSpace(key), ".")
		if !ok || section == "" || field == "" {
			return fmt.Errorf("override %q: expected section.key=value", a)
		}
		m, _ := input[section].(map[string]any)
		if m == nil {
			m = map[string]any{}
			input[section] = m
		}
		m[field] = value
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("applying overrides: %w", err)
	}
	return c.Validate()
}

// Validate checks values that the schema can't see once overrides have been
// applied.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if len(c.Training.Marker) != 1 || c.Training.Marker == " " {
		errs = append(errs, fmt.Errorf("training.marker must be a single character, got %q", c.Training.Marker))
	}
	if c.Training.Merges != nil && *c.Training.Merges < 0 {
		errs = append(errs, fmt.Errorf("training.merges must not be negative, got %d", *c.Training.Merges))
	}
	if c.Training.Workers < 1 {
		errs = append(errs, fmt.Errorf("training.workers must be at least 1, got %d", c.Training.Workers))
	}
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("output.format must be table, json or yaml, got %q", c.Output.Format))
	}
	return errors.Join(errs...)
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Training
	if src.Training.Marker != "" {
		dst.Training.Marker = src.Training.Marker
	}
	if src.Training.Merges != nil {
		dst.Training.Merges = src.Training.Merges
	}
	if src.Training.Workers != 0 {
		dst.Training.Workers = src.Training.Workers
	}
	if src.Training.InclusiveMergeCount != nil {
		dst.Training.InclusiveMergeCount = src.Training.InclusiveMergeCount
	}
	if src.Training.CacheSize != nil {
		dst.Training.CacheSize = src.Training.CacheSize
	}

	// Corpus
	if src.Corpus.Path != "" {
		dst.Corpus.Path = src.Corpus.Path
	}
	if src.Corpus.Flatten != nil {
		dst.Corpus.Flatten = src.Corpus.Flatten
	}

	// Output
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.Tokenizer != "" {
		dst.Output.Tokenizer = src.Output.Tokenizer
	}
}

// Marshal renders the configuration as YAML.
func (c *ProjectConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}
