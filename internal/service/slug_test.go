package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Go 1.22 Released!", "go-1-22-released"},
		{"already-a-slug", "already-a-slug"},
		{"MANY---symbols!!!", "many-symbols"},
		{"___", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.in), "input %q", tc.in)
	}
}

func TestEstimateReadTime(t *testing.T) {
	assert.Equal(t, "1 min read", estimateReadTime(""))
	assert.Equal(t, "1 min read", estimateReadTime("short post"))
	assert.Equal(t, "1 min read", estimateReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, "2 min read", estimateReadTime(strings.Repeat("word ", 201)))
	assert.Equal(t, "5 min read", estimateReadTime(strings.Repeat("word ", 1000)))
}
