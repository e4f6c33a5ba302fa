package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

const (
	ModePlain = "plain"
	ModeHTML  = "html"
)

// Renderer — чистое преобразование ответа модели в формат доставки.
// Никакого I/O, одинаковый вход — одинаковый выход.
type Renderer interface {
	Render(raw string) (string, error)
}

// New выбирает режим явно, через конфиг. Пустой режим — plain.
func New(mode string) (Renderer, error) {
	switch mode {
	case "", ModePlain:
		return plainRenderer{}, nil
	case ModeHTML:
		return newHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("render: unknown mode %q", mode)
	}
}

type plainRenderer struct{}

func (plainRenderer) Render(raw string) (string, error) {
	return raw, nil
}

// htmlRenderer — markdown в HTML, затем санитайзер.
// Сырой HTML из ответа модели goldmark экранирует, bluemonday
// вырезает всё скриптоподобное, что могло бы пройти дальше.
type htmlRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newHTMLRenderer() *htmlRenderer {
	return &htmlRenderer{
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *htmlRenderer) Render(raw string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(raw), &buf); err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
