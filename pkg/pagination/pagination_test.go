package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 20, NormalizeLimit(20))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestNormalizeOffset(t *testing.T) {
	assert.Equal(t, 0, NormalizeOffset(-1))
	assert.Equal(t, 30, NormalizeOffset(30))
}

func TestFromQuery(t *testing.T) {
	params := FromQuery(url.Values{"limit": {"25"}, "offset": {"75"}})
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, 75, params.Offset)

	params = FromQuery(url.Values{"limit": {"not-a-number"}})
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}
