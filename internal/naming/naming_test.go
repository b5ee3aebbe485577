package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		convention string
		want       string
	}{
		{"camel from kebab", "user-profile", CamelCase, "userProfile"},
		{"pascal from kebab", "user-profile", PascalCase, "UserProfile"},
		{"camel from snake", "user_profile", CamelCase, "userProfile"},
		{"pascal from snake", "user_profile", PascalCase, "UserProfile"},
		{"original strips dash", "user-profile", Original, "userprofile"},
		{"camel lowers first", "Button", CamelCase, "button"},
		{"pascal raises first", "button", PascalCase, "Button"},
		{"unknown falls back to pascal", "user-profile", "kebab", "UserProfile"},
		{"empty convention falls back to pascal", "api-client", "", "ApiClient"},
		{"uppercase after dash untouched", "user-Profile", CamelCase, "user-Profile"},
		{"multiple separators", "get-user_by-id", CamelCase, "getUserById"},
		{"dotted name keeps dot", "Button.test", PascalCase, "Button.test"},
		{"empty name", "", PascalCase, ""},
		{"empty name camel", "", CamelCase, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transform(tt.input, tt.convention))
		})
	}
}

func TestToValidIdentifier(t *testing.T) {
	assert.Equal(t, "username", ToValidIdentifier("user-name"))
	assert.Equal(t, "_123name", ToValidIdentifier("123name"))
	assert.Equal(t, "userName_123", ToValidIdentifier("userName_123"))
	assert.Equal(t, "Buttontest", ToValidIdentifier("Button.test"))
	assert.Equal(t, "", ToValidIdentifier("---"))
}
