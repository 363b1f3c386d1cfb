package translate

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPrompt []byte

// Example is one few-shot pair.
type Example struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Prompt is the material the system prompt is assembled from.
type Prompt struct {
	Role       string    `yaml:"role"`
	Task       string    `yaml:"task"`
	Guidelines []string  `yaml:"guidelines"`
	Examples   []Example `yaml:"examples"`
	Closing    string    `yaml:"closing"`
}

// ParsePrompt decodes prompt YAML. At least one example is required.
func ParsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompt: %w", err)
	}
	if len(p.Examples) == 0 {
		return nil, fmt.Errorf("prompt has no examples")
	}
	return &p, nil
}

// DefaultPrompt returns the built-in prompt.
func DefaultPrompt() *Prompt {
	p, err := ParsePrompt(defaultPrompt)
	if err != nil {
		panic(err)
	}
	return p
}

// System renders the system prompt text.
func (p *Prompt) System() string {
	var b strings.Builder
	b.WriteString(p.Role)
	b.WriteString("\n\n")
	if p.Task != "" {
		b.WriteString("Your task: ")
		b.WriteString(p.Task)
		b.WriteString("\n\n")
	}
	if len(p.Guidelines) > 0 {
		b.WriteString("Important guidelines:\n")
		for _, g := range p.Guidelines {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}
	b.WriteString("Examples:\n")
	for _, ex := range p.Examples {
		fmt.Fprintf(&b, "- %q -> %q\n", ex.Input, ex.Output)
	}
	if p.Closing != "" {
		b.WriteString("\n")
		b.WriteString(p.Closing)
	}
	return b.String()
}
