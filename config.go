package tileset

import (
	"fmt"
	"io/ioutil"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
)

// Config includes settings for loading tilesets
type Config struct {
	// Flags are the bool property names we care about. Any other property
	// name is ignored by Flags lookups. Empty means keep all bool properties.
	Flags []string `yaml:"flags"`

	// Index is the path to a tileset index database (optional)
	Index string `yaml:"index"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	return &Config{
		Flags: []string{"wall", "floor", "spawn", "semisolid"},
		Index: "~/.tileset/index.sqlite",
	}
}

// LoadConfig reads a YAML config file. Settings not in the file keep their
// defaults, `~` in paths is expanded to the user's home dir.
func LoadConfig(fname string) (*Config, error) {
	fname, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", fname, err)
	}

	return cfg, cfg.expand()
}

// IndexPath returns the index path with `~` expanded
func (c *Config) IndexPath() (string, error) {
	return homedir.Expand(c.Index)
}

func (c *Config) expand() error {
	p, err := c.IndexPath()
	if err != nil {
		return err
	}
	c.Index = p
	return nil
}

// keeper returns a func reporting if a property name is a flag we keep
func (c *Config) keeper() func(string) bool {
	if len(c.Flags) == 0 {
		return func(string) bool { return true }
	}
	names := map[string]bool{}
	for _, f := range c.Flags {
		names[f] = true
	}
	return func(name string) bool { return names[name] }
}
