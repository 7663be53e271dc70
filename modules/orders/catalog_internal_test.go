package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortByID(t *testing.T) {
	t.Parallel()

	// Text order of these ids would be 10, 2, 9.
	list := []Order{
		{ID: 10, State: Sent},
		{ID: 2, State: Processing},
		{ID: 9, State: Placed},
	}
	sortByID(list)

	ids := make([]int64, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []int64{2, 9, 10}, ids)
	assert.Equal(t, Processing, list[0].State)
}
