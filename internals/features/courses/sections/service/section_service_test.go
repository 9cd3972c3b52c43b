package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCheckReorder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	existing := []uuid.UUID{a, b, c}

	assert.NoError(t, CheckReorder(existing, []uuid.UUID{c, a, b}))
	assert.Error(t, CheckReorder(existing, []uuid.UUID{a, b}), "missing id")
	assert.Error(t, CheckReorder(existing, []uuid.UUID{a, a, b}), "duplicate id")
	assert.Error(t, CheckReorder(existing, []uuid.UUID{a, b, uuid.New()}), "foreign id")
}
