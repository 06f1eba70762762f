package ark

import "testing"

func TestEnsurePrefix(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare identifier", raw: "21198/zz0002nq4w", want: "ark:/21198/zz0002nq4w"},
		{name: "already prefixed", raw: "ark:/21198/zz0002nq4w", want: "ark:/21198/zz0002nq4w"},
		{name: "scheme without slash", raw: "ark:21198/zz0002nq4w", want: "ark:/21198/zz0002nq4w"},
		{name: "surrounding whitespace", raw: "  21198/zz0002nq4w ", want: "ark:/21198/zz0002nq4w"},
		{name: "empty", raw: "", want: ""},
		{name: "whitespace only", raw: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsurePrefix(tt.raw); got != tt.want {
				t.Errorf("EnsurePrefix(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEnsurePrefixIdempotent(t *testing.T) {
	inputs := []string{
		"21198/zz0002nq4w",
		"ark:/21198/zz0002nq4w",
		"ark:21198/zz0002nq4w",
		"abc/1234",
		"",
	}

	for _, raw := range inputs {
		once := EnsurePrefix(raw)
		twice := EnsurePrefix(once)
		if once != twice {
			t.Errorf("EnsurePrefix not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}
