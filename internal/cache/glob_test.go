package cache

import "testing"

func TestGlobMatch(t *testing.T) {
	cases := []struct {
		pattern, s string
		want       bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"user:*", "user:123", true},
		{"user:*", "order:123", false},
		{"user:?", "user:1", true},
		{"user:?", "user:12", false},
		{"exact", "exact", true},
		{"exact", "exacto", false},
		{"*:session:*", "app:session:42", true},
		{"a*b*c", "aXXbYYc", true},
		{"a*b*c", "aXXbYY", false},
	}

	for _, tc := range cases {
		if got := globMatch(tc.pattern, tc.s); got != tc.want {
			t.Errorf("globMatch(%q, %q) = %v, want %v", tc.pattern, tc.s, got, tc.want)
		}
	}
}
