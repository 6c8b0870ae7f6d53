// Package config loads the restc profile file: named sets of default
// headers, credentials, user agent, and cookies applied to requests.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Config is the top-level profile file structure
type Config struct {
	DefaultProfile string             `yaml:"defaultProfile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile is one named request configuration
type Profile struct {
	Headers   map[string]string `yaml:"headers"`
	Auth      *BasicAuth        `yaml:"auth"`
	UserAgent string            `yaml:"userAgent"`
	Cookies   string            `yaml:"cookies"`
}

// BasicAuth holds HTTP basic authentication credentials
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// schema validates the profile file shape before unmarshaling
const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "defaultProfile": { "type": "string" },
    "profiles": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "headers": {
            "type": "object",
            "additionalProperties": { "type": "string" }
          },
          "userAgent": { "type": "string" },
          "cookies": { "type": "string" },
          "auth": {
            "type": "object",
            "properties": {
              "username": { "type": "string" },
              "password": { "type": "string" }
            },
            "required": ["username"],
            "additionalProperties": false
          }
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// Load reads, validates, and parses a profile file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse validates and parses profile file content
func Parse(data []byte) (*Config, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &config, nil
}

// Profile resolves a profile by name, falling back to the configured
// default when name is empty.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return Profile{}, nil
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return profile, nil
}

func validate(raw interface{}) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", strings.NewReader(schema)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	if err := compiled.Validate(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
