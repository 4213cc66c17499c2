package segdup

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
)

func TestPresenceSets(t *testing.T) {
	for _, n := range []int{200, -1} {
		s := NewPresenceSet(n)
		for _, id := range []int{1, 64, 65, 200, 64} {
			assert.NoError(t, s.Mark(id))
		}
		assert.Equal(t, 4, s.Count(), "n=%d", n)
		for _, id := range []int{1, 64, 65, 200} {
			assert.True(t, s.Has(id), "n=%d id=%d", n, id)
		}
		for _, id := range []int{0, 2, 63, 66, 199, 201, -5} {
			assert.False(t, s.Has(id), "n=%d id=%d", n, id)
		}
		err := s.Mark(0)
		assert.True(t, errors.Is(errors.Invalid, err), "n=%d: %v", n, err)
	}
	err := NewPresenceSet(10).Mark(11)
	assert.True(t, errors.Is(errors.Invalid, err), "%v", err)
}

func TestMarkConfirmed(t *testing.T) {
	a, b := NewPresenceSet(5), NewPresenceSet(3)
	assert.NoError(t, MarkConfirmed(pairs(1, 3, 5, 3), a, b))
	assert.Equal(t, 2, a.Count())
	assert.Equal(t, 1, b.Count())
	assert.Error(t, MarkConfirmed(pairs(1, 4), a, b))
}
