package osc

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		address string
		want    bool
	}{
		// single-character wildcard
		{"/???", "/123", true},
		{"/foo.?", "/foo.42", false},
		{"/foo.?", "/foo.4", true},
		{"/?", "/", false},

		// star stays within a segment
		{"/*", "/123", true},
		{"/*", "/123/456", false},
		{"/*/456", "/123/456", true},
		{"/x*y", "/xy", true},
		{"/x*y", "/xabcy", true},

		// character sets
		{"/[!1-9]", "/a", true},
		{"/[!1-9]", "/5", false},
		{"/[1-9]", "/5", true},
		{"/[abc]x", "/bx", true},
		{"/[abc]x", "/dx", false},
		{"/[-a]", "/-", true},
		{"/[a-]", "/-", true},
		{"/[a", "/a", false},

		// alternations
		{"/{apple,banana}/pie", "/banana/pie", true},
		{"/{apple,banana}/pie", "/sugar/pie", false},

		// descendant-or-self
		{"//foo", "/a/b/foo", true},
		{"//foo", "/foo", true},
		{"/banana//pie", "/banana/pie", true},
		{"/banana//pie", "/banana/cream/pie", true},
		{"/a///b", "/a/x/b", true},
		{"/a//", "/a/b", false},

		// literals and full consumption
		{"/exact", "/exact", true},
		{"/exact", "/exac", false},
		{"/exact", "/exactly", false},
	}

	for _, tt := range tests {
		if got := Match(tt.pattern, tt.address); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.address, got, tt.want)
		}
	}
}
