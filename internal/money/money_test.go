package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonNegativeInt(t *testing.T) {
	assert.Equal(t, int64(3), NonNegativeInt(3.9, 0))
	assert.Equal(t, int64(0), NonNegativeInt(-5, 0))
	assert.Equal(t, int64(0), NonNegativeInt(0, 7))
	assert.Equal(t, int64(7), NonNegativeInt(math.NaN(), 7))
	assert.Equal(t, int64(7), NonNegativeInt(math.Inf(1), 7))
	assert.Equal(t, int64(7), NonNegativeInt(math.Inf(-1), 7))
}

func TestNonNegativeFromAny(t *testing.T) {
	assert.Equal(t, int64(2), NonNegativeFromAny(float64(2.4), 0))
	assert.Equal(t, int64(5), NonNegativeFromAny(5, 0))
	assert.Equal(t, int64(10), NonNegativeFromAny("10", 0))
	assert.Equal(t, int64(9), NonNegativeFromAny("not a number", 9))
	assert.Equal(t, int64(9), NonNegativeFromAny(nil, 9))
	assert.Equal(t, int64(9), NonNegativeFromAny(map[string]any{}, 9))
}

func TestParseObject(t *testing.T) {
	obj := ParseObject(`{"id": 1, "name": "cafe"}`)
	assert.NotNil(t, obj)
	assert.Equal(t, "cafe", obj["name"])

	assert.Nil(t, ParseObject(""))
	assert.Nil(t, ParseObject("{broken"))
	assert.Nil(t, ParseObject(`[1,2,3]`))
	assert.Nil(t, ParseObject(`"just a string"`))
}
