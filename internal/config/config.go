package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"netreconciler/internal/models"
	"netreconciler/internal/orchestrator"
	"netreconciler/internal/reconcile"
)

// EnvPrefix prefixes every environment variable read by the config loader.
const EnvPrefix = "NETRECONCILER"

// File is the on-disk configuration. Flags and NETRECONCILER_* environment
// variables take precedence over values read from the file.
type File struct {
	Truth       SourceEntry   `mapstructure:"truth" yaml:"truth"`
	Sources     []SourceEntry `mapstructure:"sources" yaml:"sources"`
	Inventory   string        `mapstructure:"inventory" yaml:"inventory,omitempty"`
	Types       []string      `mapstructure:"types" yaml:"types,omitempty"`
	Output      string        `mapstructure:"output" yaml:"output"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
	Policy      PolicyEntry   `mapstructure:"policy" yaml:"policy,omitempty"`
}

// SourceEntry describes one source. An empty kind is inferred from the path.
type SourceEntry struct {
	Name   string `mapstructure:"name" yaml:"name,omitempty"`
	Kind   string `mapstructure:"kind" yaml:"kind,omitempty"`
	Path   string `mapstructure:"path" yaml:"path,omitempty"`
	Region string `mapstructure:"region" yaml:"region,omitempty"`
	VPCID  string `mapstructure:"vpc_id" yaml:"vpc_id,omitempty"`
}

// PolicyEntry holds per-type policy overrides keyed by record type.
type PolicyEntry struct {
	FieldsToCheck map[string][]string `mapstructure:"fields_to_check" yaml:"fields_to_check,omitempty"`
	AllowMissing  map[string][]string `mapstructure:"allow_missing" yaml:"allow_missing,omitempty"`
	AllowNull     map[string][]string `mapstructure:"allow_null" yaml:"allow_null,omitempty"`
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"truth.path":  "truth",
	"inventory":   "inventory",
	"types":       "types",
	"output":      "output",
	"concurrency": "concurrency",
	"log_level":   "log-level",
}

// Load reads the config file at path (optional), the environment and the
// given flags, in increasing order of precedence.
func Load(path string, flags *pflag.FlagSet) (*File, error) {
	v := viper.New()

	v.SetDefault("output", "table")
	v.SetDefault("concurrency", runtime.NumCPU())
	v.SetDefault("log_level", "info")
	v.SetDefault("truth.path", "")
	v.SetDefault("inventory", "")
	v.SetDefault("types", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("error binding flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	f.Types = splitList(f.Types)

	return &f, nil
}

// ParseSourceFlag parses a --source value of the form name=path.
func ParseSourceFlag(value string) (SourceEntry, error) {
	name, path, ok := strings.Cut(value, "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return SourceEntry{}, fmt.Errorf("invalid source %q: expected name=path", value)
	}
	return SourceEntry{Name: name, Path: path}, nil
}

// ParseAWSSourceFlag parses an --aws-source value of the form name or
// name=vpc-id.
func ParseAWSSourceFlag(value, region string) (SourceEntry, error) {
	name, vpcID, _ := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return SourceEntry{}, fmt.Errorf("invalid AWS source %q: expected name or name=vpc-id", value)
	}
	return SourceEntry{
		Name:   name,
		Kind:   string(orchestrator.SourceKindAWS),
		Region: region,
		VPCID:  strings.TrimSpace(vpcID),
	}, nil
}

// InferKind picks the provider kind from a file extension.
func InferKind(path string) orchestrator.SourceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tf", ".hcl":
		return orchestrator.SourceKindHCL
	default:
		return orchestrator.SourceKindFile
	}
}

// OrchestratorConfig converts the loaded configuration into the settings of
// a reconciliation run.
func (f *File) OrchestratorConfig() (orchestrator.Config, error) {
	if f.Truth.Path == "" && f.Truth.Kind != string(orchestrator.SourceKindAWS) {
		return orchestrator.Config{}, fmt.Errorf("a truth source is required")
	}

	truth := toSpec(f.Truth)
	truth.Name = models.TruthSource

	sources := make([]orchestrator.SourceSpec, 0, len(f.Sources))
	for _, entry := range f.Sources {
		sources = append(sources, toSpec(entry))
	}

	cfg := f.baseConfig()
	cfg.Truth = truth
	cfg.Sources = sources
	return cfg, nil
}

// InventoryConfig converts the loaded configuration into the settings of an
// inventory run. Truth and sources come from the inventory itself.
func (f *File) InventoryConfig() (orchestrator.Config, error) {
	if f.Inventory == "" {
		return orchestrator.Config{}, fmt.Errorf("an inventory file is required")
	}

	cfg := f.baseConfig()
	cfg.Inventory = f.Inventory
	return cfg, nil
}

// baseConfig holds the settings shared by every kind of run.
func (f *File) baseConfig() orchestrator.Config {
	var types []models.RecordType
	if len(f.Types) > 0 {
		types = make([]models.RecordType, 0, len(f.Types))
		for _, t := range f.Types {
			types = append(types, models.RecordType(t))
		}
	}

	policy := f.PolicyOptions()
	return orchestrator.Config{
		Types:            types,
		FieldsToCheck:    policy.FieldsToCheck,
		AllowMissing:     policy.AllowMissing,
		AllowNull:        policy.AllowNull,
		OutputFormat:     f.Output,
		ConcurrencyLimit: f.Concurrency,
	}
}

// PolicyOptions returns the configured policy overrides as reconciler options.
func (f *File) PolicyOptions() reconcile.Options {
	return reconcile.Options{
		FieldsToCheck: toOverride(f.Policy.FieldsToCheck),
		AllowMissing:  toOverride(f.Policy.AllowMissing),
		AllowNull:     toOverride(f.Policy.AllowNull),
	}
}

func toSpec(entry SourceEntry) orchestrator.SourceSpec {
	kind := orchestrator.SourceKind(strings.ToLower(entry.Kind))
	if kind == "" {
		kind = InferKind(entry.Path)
	}
	return orchestrator.SourceSpec{
		Name:   entry.Name,
		Kind:   kind,
		Path:   entry.Path,
		Region: entry.Region,
		VPCID:  entry.VPCID,
	}
}

func toOverride(m map[string][]string) reconcile.PolicyOverride {
	if len(m) == 0 {
		return nil
	}
	override := make(reconcile.PolicyOverride, len(m))
	for t, fields := range m {
		override[models.RecordType(t)] = append([]string{}, fields...)
	}
	return override
}

// splitList flattens comma-separated entries, as passed through an
// environment variable or a single flag value.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
