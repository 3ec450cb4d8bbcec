package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddFilter(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		param    string
		value    string
		expected string
	}{
		{name: "adds to empty query", url: "/", param: "tag", value: "novel", expected: "/?tag=novel"},
		{name: "drops page", url: "/?page=4&year=1965", param: "tag", value: "novel", expected: "/?tag=novel&year=1965"},
		{name: "keeps other values of same name", url: "/?tag=sf", param: "tag", value: "novel", expected: "/?tag=sf&tag=novel"},
		{name: "skips duplicate", url: "/?tag=novel&page=2", param: "tag", value: "novel", expected: "/?tag=novel"},
		{name: "escapes value", url: "/", param: "title~", value: "war & peace", expected: "/?title~=war+%26+peace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddFilter(mustParse(t, tt.url), tt.param, tt.value))
		})
	}
}

func TestRemoveFilter(t *testing.T) {
	u := mustParse(t, "/?tag=sf&tag=novel&page=3&year=1965")

	assert.Equal(t, "/?tag=sf&year=1965", RemoveFilter(u, "tag", "novel"))
	assert.Equal(t, "/?tag=sf&tag=novel", RemoveFilter(u, "year", "1965"))
	assert.Equal(t, "/?tag=sf&tag=novel&year=1965", RemoveFilter(u, "isbn", "x"))
}
