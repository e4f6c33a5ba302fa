package topics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	reg, err := NewRegistry([]Topic{
		{Key: "socratic", Model: "gpt-4o-mini", SystemPrompt: "ask questions", Title: "Socratic"},
		{Key: "debate", Model: "gpt-4o", SystemPrompt: "argue back", Title: "Debate"},
	})
	require.NoError(t, err)

	topic, err := reg.Resolve("socratic")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", topic.Model)
	require.Equal(t, "ask questions", topic.SystemPrompt)

	_, err = reg.Resolve("unknown")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistry_KeysOrder(t *testing.T) {
	reg, err := NewRegistry([]Topic{
		{Key: "b", Model: "m", SystemPrompt: "p"},
		{Key: "a", Model: "m", SystemPrompt: "p"},
		{Key: "c", Model: "m", SystemPrompt: "p"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, reg.Keys())
}

func TestNewRegistry_Invalid(t *testing.T) {
	_, err := NewRegistry(nil)
	require.Error(t, err)

	_, err = NewRegistry([]Topic{
		{Key: "x", Model: "m", SystemPrompt: "p"},
		{Key: "x", Model: "m", SystemPrompt: "p"},
	})
	require.Error(t, err)

	_, err = NewRegistry([]Topic{{Key: "x", Model: "", SystemPrompt: "p"}})
	require.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	raw := `topics:
  - key: socratic
    model: gpt-4o-mini
    system_prompt: ask questions
    title: Socratic Dialogue
    description: guided questioning
  - key: debate
    model: gpt-4o-mini
    system_prompt: argue back
    title: Debate Partner
`
	path := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"socratic", "debate"}, reg.Keys())

	topic, err := reg.Resolve("socratic")
	require.NoError(t, err)
	require.Equal(t, "Socratic Dialogue", topic.Title)
	require.Equal(t, "guided questioning", topic.Description)
}

func TestLoad_Defaults(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)
	require.Contains(t, reg.Keys(), "socratic")

	topic, err := reg.Resolve("socratic")
	require.NoError(t, err)
	require.NotEmpty(t, topic.Model)
	require.NotEmpty(t, topic.SystemPrompt)
}
