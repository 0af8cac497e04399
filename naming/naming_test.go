package naming

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"IsActive", []string{"Is", "Active"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"UserID", []string{"User", "ID"}},
		{"ID", []string{"ID"}},
		{"already_snake", []string{"already", "snake"}},
		{"Version2Beta", []string{"Version", "2", "Beta"}},
		{"", nil},
		{"__x__", []string{"x"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Words(tt.in)); diff != "" {
			t.Errorf("Words(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestPolicies(t *testing.T) {
	tests := []struct {
		policy Policy
		name   string
		in     string
		want   string
	}{
		{Identity, "identity", "IsActive", "IsActive"},
		{SnakeCase, "snake", "IsActive", "is_active"},
		{SnakeCase, "snake", "HTTPServer", "http_server"},
		{SnakeCase, "snake", "MaxRetries", "max_retries"},
		{KebabCase, "kebab", "IsActive", "is-active"},
		{CamelCase, "camel", "IsActive", "isActive"},
		{CamelCase, "camel", "HTTPServer", "httpServer"},
		{CamelCase, "camel", "max_retries", "maxRetries"},
		{LowerFirst, "lower", "IsActive", "isActive"},
		{LowerFirst, "lower", "", ""},
	}
	for _, tt := range tests {
		if got := tt.policy(tt.in); got != tt.want {
			t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
		p, ok := ByName(tt.name)
		if !ok {
			t.Fatalf("ByName(%q) not found", tt.name)
		}
		if got := p(tt.in); got != tt.want {
			t.Errorf("ByName(%q)(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
	if _, ok := ByName("shouting"); ok {
		t.Error("ByName(shouting) found")
	}
}
