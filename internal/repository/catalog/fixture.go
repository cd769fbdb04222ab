package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/opsmap/internal/domain"
)

// Fixture is a workspace catalog as written in a seed file.
type Fixture struct {
	Roles     []RoleSpec    `yaml:"roles"`
	Systems   []SystemSpec  `yaml:"systems"`
	Processes []ProcessSpec `yaml:"processes"`
}

// RoleSpec describes one role. Slug defaults to a slug of Name.
type RoleSpec struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Initials    string `yaml:"initials"`
	Description any    `yaml:"description"`
}

// SystemSpec describes one system.
type SystemSpec struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description any    `yaml:"description"`
}

// ProcessSpec describes one process and its ordered actions.
type ProcessSpec struct {
	Name        string       `yaml:"name"`
	Slug        string       `yaml:"slug"`
	Description any          `yaml:"description"`
	Actions     []ActionSpec `yaml:"actions"`
}

// ActionSpec describes one action. Role and System are required slugs.
// Sequence defaults to the 1-based position within the process.
type ActionSpec struct {
	Sequence    int    `yaml:"sequence"`
	Title       string `yaml:"title"`
	Role        string `yaml:"role"`
	System      string `yaml:"system"`
	Description any    `yaml:"description"`
}

// ParseFixture decodes a YAML seed file.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse fixture: %w", domain.ErrInvalidRequest, err)
	}
	return &f, nil
}

// encodeDescription stores strings as-is and structured documents as JSON.
func encodeDescription(v any) (string, error) {
	switch d := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(d), nil
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return "", fmt.Errorf("encode description: %w", err)
		}
		return string(b), nil
	}
}
