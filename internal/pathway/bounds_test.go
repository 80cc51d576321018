package pathway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounds_Limits(t *testing.T) {
	tests := []struct {
		name             string
		bounds           Bounds
		sources, targets int
		maxResults       int
		want             limits
	}{
		{
			name:   "disabled",
			bounds: Bounds{},
			sources: 100, targets: 100, maxResults: 5,
			want: limits{},
		},
		{
			name:   "many sources one target",
			bounds: DefaultBounds(),
			sources: 100, targets: 1, maxResults: 5,
			// sqrt(1000*100) caps at 50, sqrt(1000/100) rounds up to 4.
			want: limits{sources: 50, targets: 4, paths: 20, filtered: 9},
		},
		{
			name:   "balanced",
			bounds: DefaultBounds(),
			sources: 4, targets: 4, maxResults: 10,
			want: limits{sources: 32, targets: 32, paths: 63, filtered: 23},
		},
		{
			name:   "empty side",
			bounds: DefaultBounds(),
			sources: 0, targets: 4, maxResults: 10,
			want: limits{},
		},
		{
			name:   "cap only",
			bounds: Bounds{Enabled: true, EndpointCap: 3},
			sources: 10, targets: 10, maxResults: 1,
			want: limits{sources: 3, targets: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bounds.limits(tt.sources, tt.targets, tt.maxResults))
		})
	}
}

func TestTruncate(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, truncate(items, 2))
	assert.Equal(t, items, truncate(items, 0))
	assert.Equal(t, items, truncate(items, 10))
}
