package hooks

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for hooks loaded from .bluebook.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains all hook configurations.
type HooksConfig struct {
	OnSubmit HookList `yaml:"on_submit"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout"` // seconds, default 30
}

// HookList accepts either a single hook mapping or a sequence of them.
type HookList []*HookConfig

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *HookList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var h HookConfig
		if err := node.Decode(&h); err != nil {
			return err
		}
		*l = HookList{&h}
	case yaml.SequenceNode:
		var hooks []*HookConfig
		if err := node.Decode(&hooks); err != nil {
			return err
		}
		*l = hooks
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		return fmt.Errorf("line %d: hook must be a mapping or a list", node.Line)
	default:
		return fmt.Errorf("line %d: hook must be a mapping or a list", node.Line)
	}
	return nil
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
