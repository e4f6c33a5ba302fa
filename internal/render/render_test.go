package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_UnknownMode(t *testing.T) {
	_, err := New("xml")
	require.Error(t, err)
}

func TestPlain_Identity(t *testing.T) {
	r, err := New(ModePlain)
	require.NoError(t, err)

	in := "A *plain* reply.\nSecond line."
	once, err := r.Render(in)
	require.NoError(t, err)
	require.Equal(t, in, once)

	// render(render(x)) == render(x)
	twice, err := r.Render(once)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestHTML_Markdown(t *testing.T) {
	r, err := New(ModeHTML)
	require.NoError(t, err)

	out, err := r.Render("Your claim rests on **two** assumptions:\n\n- one\n- two")
	require.NoError(t, err)
	require.Contains(t, out, "<strong>two</strong>")
	require.Contains(t, out, "<li>one</li>")
}

func TestHTML_NeverPassesScript(t *testing.T) {
	r, err := New(ModeHTML)
	require.NoError(t, err)

	cases := []string{
		"<script>alert(1)</script>",
		"text with inline <script src='x.js'></script> tag",
		"[link](javascript:alert(1))",
		"<img src=x onerror=alert(1)>",
	}
	for _, in := range cases {
		out, err := r.Render(in)
		require.NoError(t, err)
		require.False(t, strings.Contains(out, "<script"), "script survived: %q -> %q", in, out)
		require.False(t, strings.Contains(out, "javascript:"), "js url survived: %q -> %q", in, out)
		require.False(t, strings.Contains(out, "onerror"), "handler survived: %q -> %q", in, out)
	}
}

func TestHTML_Deterministic(t *testing.T) {
	r, err := New(ModeHTML)
	require.NoError(t, err)

	first, err := r.Render("# Heading\n\nBody text.")
	require.NoError(t, err)
	second, err := r.Render("# Heading\n\nBody text.")
	require.NoError(t, err)
	require.Equal(t, first, second)
}
