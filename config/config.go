// Package config holds the naming and numeric policy record used by a
// compilation run, and loads it from YAML.
package config

import (
	"fmt"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

// External type kinds accepted in ExternalType.Kind.
const (
	KindInterface = "interface"
	KindClass     = "class"
	KindFinal     = "final"
)

// Config is constructed once per run and never mutated by the compiler.
type Config struct {
	// Package is the target namespace for generated types.
	Package string `koanf:"package"`

	ClassNamePrefix string `koanf:"classNamePrefix"`
	ClassNameSuffix string `koanf:"classNameSuffix"`
	// PropertyWordDelimiters lists the characters that split words when
	// property names are camel-cased.
	PropertyWordDelimiters string `koanf:"propertyWordDelimiters"`

	UseLongIntegers  bool `koanf:"useLongIntegers"`
	UseBigIntegers   bool `koanf:"useBigIntegers"`
	UseDoubleNumbers bool `koanf:"useDoubleNumbers"`
	UseBigDecimals   bool `koanf:"useBigDecimals"`

	// RefFragmentPathDelimiters lists the characters that split $ref fragments.
	RefFragmentPathDelimiters string `koanf:"refFragmentPathDelimiters"`

	// RejectDuplicateKeys fails documents with repeated object keys instead
	// of warning about them.
	RejectDuplicateKeys bool `koanf:"rejectDuplicateKeys"`

	// ExternalTypes extends the catalog of types that exist outside the
	// generated model (for "extends" and "existingJavaType").
	ExternalTypes []ExternalType `koanf:"externalTypes"`
}

// ExternalType describes one externally defined type.
type ExternalType struct {
	Name          string `koanf:"name"`
	Kind          string `koanf:"kind"`
	AcceptsString bool   `koanf:"acceptsString"`
}

// Default returns the policy used when no file overrides it.
func Default() *Config {
	return &Config{
		PropertyWordDelimiters:    "-_",
		UseDoubleNumbers:          true,
		RefFragmentPathDelimiters: "#/.",
	}
}

// WordDelimiters returns PropertyWordDelimiters as a rune set.
func (c *Config) WordDelimiters() []rune {
	return []rune(c.PropertyWordDelimiters)
}

// Validate checks values the loader cannot type-check.
func (c *Config) Validate() error {
	for i, et := range c.ExternalTypes {
		if et.Name == "" {
			return fmt.Errorf("config: externalTypes[%d]: name is required", i)
		}
		switch et.Kind {
		case KindInterface, KindClass, KindFinal:
		default:
			return fmt.Errorf("config: externalTypes[%d] %s: unknown kind %q", i, et.Name, et.Kind)
		}
	}
	return nil
}

// Load reads a YAML file on top of Default().
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return fromKoanf(k)
}

// Parse reads YAML content on top of Default().
func Parse(content []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
