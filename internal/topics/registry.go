package topics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type registry struct {
	byKey map[string]Topic
	keys  []string
}

func NewRegistry(list []Topic) (Registry, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("topics: empty topic list")
	}

	r := &registry{byKey: make(map[string]Topic, len(list))}

	for _, t := range list {
		if t.Key == "" {
			return nil, fmt.Errorf("topics: topic with empty key")
		}
		if _, dup := r.byKey[t.Key]; dup {
			return nil, fmt.Errorf("topics: duplicate key %q", t.Key)
		}
		if t.Model == "" || t.SystemPrompt == "" {
			return nil, fmt.Errorf("topics: topic %q missing model or system_prompt", t.Key)
		}
		r.byKey[t.Key] = t
		r.keys = append(r.keys, t.Key)
	}

	return r, nil
}

// Load читает топики из YAML-файла. Пустой путь — дефолтный набор.
func Load(path string) (Registry, error) {
	if path == "" {
		return NewRegistry(defaultTopics())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topics: read %s: %w", path, err)
	}

	var file struct {
		Topics []Topic `yaml:"topics"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("topics: parse %s: %w", path, err)
	}

	return NewRegistry(file.Topics)
}

func (r *registry) Resolve(key string) (*Topic, error) {
	t, ok := r.byKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *registry) List() []Topic {
	out := make([]Topic, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}

func defaultTopics() []Topic {
	return []Topic{
		{
			Key:          "socratic",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a Socratic tutor. Never hand the user a finished answer. Respond to every message with probing questions that expose hidden assumptions and push the user to examine the validity of their own reasoning.",
			Title:        "Socratic Dialogue",
			Description:  "Sharpen your reasoning through guided questioning.",
		},
		{
			Key:          "debate",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a debate partner. Take the position opposite to the user's claim and argue it rigorously but fairly. Point out weak premises, demand evidence, and concede points that are genuinely won.",
			Title:        "Debate Partner",
			Description:  "Defend your position against a rigorous opponent.",
		},
		{
			Key:          "fallacy-check",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a logic reviewer. Examine the user's argument, name any formal or informal fallacies it contains, explain each one briefly, and suggest how to restate the argument without the flaw.",
			Title:        "Fallacy Check",
			Description:  "Get your arguments reviewed for logical flaws.",
		},
	}
}
