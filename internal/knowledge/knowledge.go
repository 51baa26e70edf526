// Package knowledge holds the static hotel facts that ground every concierge
// reply. The data is parsed once at startup and never mutated afterwards.
package knowledge

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

type Room struct {
	Type        string   `yaml:"type"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Amenities   []string `yaml:"amenities"`
}

type Meal struct {
	Time        string   `yaml:"time"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Menu        []string `yaml:"menu"`
	Specials    []string `yaml:"specials"`
}

type Restaurant struct {
	Name      string `yaml:"name"`
	Hours     string `yaml:"hours"`
	Breakfast Meal   `yaml:"breakfast"`
	Lunch     Meal   `yaml:"lunch"`
	Dinner    Meal   `yaml:"dinner"`
	Drinks    string `yaml:"drinks"`
}

type Treatment struct {
	Name     string `yaml:"name"`
	Duration string `yaml:"duration"`
	Price    string `yaml:"price"`
	Discount string `yaml:"discount"`
}

type Package struct {
	Name     string `yaml:"name"`
	Includes string `yaml:"includes"`
	Price    string `yaml:"price"`
}

type Spa struct {
	Name       string      `yaml:"name"`
	Hours      string      `yaml:"hours"`
	Facilities []string    `yaml:"facilities"`
	Treatments []Treatment `yaml:"treatments"`
	Packages   []Package   `yaml:"packages"`
}

type QA struct {
	Q string `yaml:"q"`
	A string `yaml:"a"`
}

// Base is the immutable knowledge base. Construct it via Default or Load and
// share it freely; nothing writes to it after parsing.
type Base struct {
	Context    string     `yaml:"context"`
	Rooms      []Room     `yaml:"rooms"`
	Restaurant Restaurant `yaml:"restaurant"`
	Spa        Spa        `yaml:"spa"`
	FAQ        []QA       `yaml:"faq"`
}

// Default parses the embedded hotel dataset.
func Default() (*Base, error) {
	return parse(defaultKnowledge)
}

// Load reads a knowledge base from a YAML file. An empty path falls back to
// the embedded dataset.
func Load(path string) (*Base, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return parse(b)
}

func parse(b []byte) (*Base, error) {
	var kb Base
	if err := yaml.Unmarshal(b, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge yaml: %w", err)
	}
	if kb.Context == "" {
		return nil, fmt.Errorf("knowledge base has no persona context")
	}
	if len(kb.FAQ) == 0 {
		return nil, fmt.Errorf("knowledge base has no FAQ entries")
	}
	return &kb, nil
}
