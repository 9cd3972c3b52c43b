package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_Range(t *testing.T) {
	from, to, err := ListQuery{From: "2026-02-01", To: "2026-02-01"}.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2026, 2, 1, 23, 59, 59, 999999999, time.UTC), *to)

	from, to, err = ListQuery{From: "2026-02-01T10:00:00Z"}.Range()
	require.NoError(t, err)
	assert.Equal(t, 10, from.Hour())
	assert.Nil(t, to)

	_, _, err = ListQuery{From: "yesterday"}.Range()
	assert.Error(t, err)

	_, _, err = ListQuery{From: "2026-02-02", To: "2026-02-01"}.Range()
	assert.Error(t, err)
}
