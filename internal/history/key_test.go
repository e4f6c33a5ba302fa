package history

import "testing"

func TestSafeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0912345678", "0912345678"},
		{"+98 912-345", "_98_912_345"},
		{"socratic", "socratic"},
		{"../etc/passwd", "___etc_passwd"},
		{"a'; DROP TABLE--", "a___DROP_TABLE__"},
		{"", ""},
	}

	for _, c := range cases {
		if got := safeKey(c.in); got != c.want {
			t.Errorf("safeKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewPair(t *testing.T) {
	p := NewPair("+0912 345 678", "fallacy-check")
	if p.Caller != "_0912_345_678" {
		t.Errorf("unexpected caller key: %q", p.Caller)
	}
	if p.Topic != "fallacy_check" {
		t.Errorf("unexpected topic key: %q", p.Topic)
	}
	if p.Key() != "_0912_345_678_fallacy_check" {
		t.Errorf("unexpected pair key: %q", p.Key())
	}
}
