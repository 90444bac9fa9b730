package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCORSPolicy_BlankIsWildcard(t *testing.T) {
	for _, token := range []string{"", "   ", "*", " * "} {
		p := ParseCORSPolicy(token)
		assert.True(t, p.AllowsAll(), "token %q", token)
		assert.Nil(t, p.Origins())
	}
}

func TestParseCORSPolicy_ListTrimsAndDropsEmpty(t *testing.T) {
	p := ParseCORSPolicy(" https://a.example , ,https://b.example,https://a.example,")

	assert.False(t, p.AllowsAll())
	assert.ElementsMatch(t, []string{"https://a.example", "https://b.example"}, p.Origins())
}

func TestParseCORSPolicy_WildcardInsideListIsLiteral(t *testing.T) {
	p := ParseCORSPolicy("*,https://a.example")

	assert.False(t, p.AllowsAll())
	_, ok := p.AllowedOrigin("https://c.example")
	assert.False(t, ok)
}

func TestAllowedOrigin(t *testing.T) {
	list := ParseCORSPolicy("https://a.example,https://b.example")

	tests := []struct {
		name   string
		policy CORSPolicy
		origin string
		want   string
		ok     bool
	}{
		{"wildcard without origin", ParseCORSPolicy(""), "", "*", true},
		{"wildcard with origin", ParseCORSPolicy(""), "https://x.example", "*", true},
		{"listed origin reflected", list, "https://a.example", "https://a.example", true},
		{"second listed origin", list, "https://b.example", "https://b.example", true},
		{"unlisted origin", list, "https://c.example", "", false},
		{"no origin header", list, "", "", false},
		{"case sensitive", list, "https://A.example", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.policy.AllowedOrigin(tt.origin)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestApply_AlwaysSetsMethodsHeadersCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, GreetingPath, nil)
	req.Header.Set("Origin", "https://c.example")
	h := http.Header{}

	ParseCORSPolicy("https://a.example").Apply(h, req)

	assert.Empty(t, h.Values("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
}
