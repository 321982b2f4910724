// Copyright 2025 Certen Protocol
//
// Package config loads cmd/claimchaindemo's optional run configuration from
// a YAML file: read the file, expand ${VAR_NAME} / ${VAR_NAME:-default}
// references against the process environment, then unmarshal with
// gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DemoScenario describes one owner's claims and grants for
// cmd/claimchaindemo to commit and then read back.
type DemoScenario struct {
	// IdentityInfo is the free-text identity binding attached to the
	// owner's Payload metadata (e.g. "Hi, I'm <dh_pk>").
	IdentityInfo string `yaml:"identity_info"`
	// Claims maps label -> content for the owner to buffer before commit.
	Claims map[string]string `yaml:"claims"`
	// GrantAllTo lists which of the other scenario owners (by name) the
	// owner should grant access to every one of its own claims.
	GrantAllTo []string `yaml:"grant_all_to"`
}

// DemoConfig is the top-level shape of an optional claimchaindemo config
// file: a named set of owners to generate and run through a commit/read
// cycle.
type DemoConfig struct {
	Owners map[string]DemoScenario `yaml:"owners"`
}

// DefaultDemoConfig matches the hardcoded scenarios claimchaindemo runs
// when no config file is supplied: an Alice who grants Bob access to one
// label.
func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		Owners: map[string]DemoScenario{
			"alice": {
				IdentityInfo: "Hi, I'm alice",
				Claims:       map[string]string{"bobs_key": "123abc"},
				GrantAllTo:   []string{"bob"},
			},
			"bob": {
				IdentityInfo: "Hi, I'm bob",
			},
		},
	}
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads and parses a DemoConfig from path, expanding ${VAR_NAME}
// environment references before unmarshaling.
func Load(path string) (DemoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DemoConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	expanded := substituteEnvVars(string(data))

	var cfg DemoConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return DemoConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path if non-empty, falling back to
// DefaultDemoConfig() otherwise.
func LoadOrDefault(path string) (DemoConfig, error) {
	if path == "" {
		return DefaultDemoConfig(), nil
	}
	return Load(path)
}
