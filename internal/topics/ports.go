package topics

import "errors"

// ErrNotFound — запрошенный topic не сконфигурирован
var ErrNotFound = errors.New("topic not found")

type Topic struct {
	Key          string `yaml:"key" json:"key"`
	Model        string `yaml:"model" json:"model"`
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt"`
	Title        string `yaml:"title" json:"title"`
	Description  string `yaml:"description" json:"description"`
}

// Registry — статический набор топиков, собирается один раз при старте
type Registry interface {
	Resolve(key string) (*Topic, error)
	Keys() []string
	List() []Topic
}
