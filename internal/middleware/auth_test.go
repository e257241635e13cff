package middleware_test

import (
	"testing"

	"blogapp/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestValidNext(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/account", true},
		{"/post/new", true},
		{"/post/7/update", true},
		{"/post/123/update", true},
		{"/home", false},
		{"/login", false},
		{"/logout", false},
		{"/post/7", false},
		{"/post/abc/update", false},
		{"http://evil.example/account", false},
		{"//evil.example", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, middleware.ValidNext(tt.path), "path %q", tt.path)
	}
}
