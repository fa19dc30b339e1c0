package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/readalign/internal/orchestrator"
	"github.com/dusk-indust/readalign/internal/reads"
	"gopkg.in/yaml.v3"
)

// ProjectConfig holds run settings loaded from readalign.yml.
type ProjectConfig struct {
	Reference     string `yaml:"reference,omitempty"`
	OutputDir     string `yaml:"outputDir,omitempty"`
	Output        string `yaml:"output,omitempty"`
	Threads       int    `yaml:"threads,omitempty"`
	ReadGroup     string `yaml:"readGroup,omitempty"`
	MarkSecondary bool   `yaml:"markSecondary,omitempty"`
	BuildIndex    bool   `yaml:"buildIndex,omitempty"`
	BwaPath       string `yaml:"bwaPath,omitempty"`
	SamtoolsPath  string `yaml:"samtoolsPath,omitempty"`

	// Prefix is the install prefix of the toolchain. When set and no
	// explicit executable path is given, <prefix>/bin/<tool> is used.
	Prefix string `yaml:"prefix,omitempty"`

	// Reads lists read files: a plain path for unpaired reads, a two-item
	// list for a mate pair.
	Reads []any `yaml:"reads,omitempty"`
}

// FileNames are the config file names looked up by Load, in order.
var FileNames = []string{"readalign.yml", "readalign.yaml"}

// Load attempts to read readalign.yml or readalign.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return Parse(data)
	}
	return &ProjectConfig{}, nil
}

// Parse decodes a YAML document into a ProjectConfig.
func Parse(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Entries classifies the configured reads.
func (c *ProjectConfig) Entries() ([]reads.Entry, error) {
	return reads.Classify(c.Reads)
}

// Orchestrator converts the settings into an orchestrator.Config.
func (c *ProjectConfig) Orchestrator() orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	cfg.Threads = c.Threads
	cfg.ReadGroup = c.ReadGroup
	cfg.MarkSecondary = c.MarkSecondary
	cfg.BuildIndex = c.BuildIndex
	cfg.BwaPath = c.tool(c.BwaPath, "bwa")
	cfg.SamtoolsPath = c.tool(c.SamtoolsPath, "samtools")
	return cfg
}

func (c *ProjectConfig) tool(explicit, name string) string {
	if explicit != "" || c.Prefix == "" {
		return explicit
	}
	return filepath.Join(c.Prefix, "bin", name)
}
