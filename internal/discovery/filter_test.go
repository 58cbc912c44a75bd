package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		paths    []string
		pattern  string
		expected []string
	}{
		{
			name:     "empty pattern returns all",
			paths:    []string{"rspec-1.json", "rspec-2.json", "events.jsonl"},
			pattern:  "",
			expected: []string{"rspec-1.json", "rspec-2.json", "events.jsonl"},
		},
		{
			name:     "glob matches suffix",
			paths:    []string{"rspec-1.json", "rspec-2.json", "events.jsonl"},
			pattern:  "*.jsonl",
			expected: []string{"events.jsonl"},
		},
		{
			name:     "wildcards match substrings",
			paths:    []string{"api-models.json", "web-models.json", "api-requests.json"},
			pattern:  "*api*",
			expected: []string{"api-models.json", "api-requests.json"},
		},
		{
			name:     "literal parts must appear in order",
			paths:    []string{"api-models.json", "models-api.json"},
			pattern:  "*api*models*",
			expected: []string{"api-models.json"},
		},
		{
			name:     "plain pattern is a substring match",
			paths:    []string{"api-models.json", "web-models.json"},
			pattern:  "web",
			expected: []string{"web-models.json"},
		},
		{
			name:     "matches base name only",
			paths:    []string{"/ci/api/rspec.json", "/ci/web/rspec.json"},
			pattern:  "*api*",
			expected: []string{},
		},
		{
			name:     "no matches",
			paths:    []string{"rspec-1.json"},
			pattern:  "*missing*",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.FilterByName(tt.paths, tt.pattern))
		})
	}
}

func TestFilter_OnlyWildcards(t *testing.T) {
	filter := NewFilter()
	result := filter.FilterByName([]string{"a.json", "b.json"}, "*")
	assert.Len(t, result, 2)

	result = filter.FilterByName([]string{}, "*.json")
	assert.Empty(t, result)
}
