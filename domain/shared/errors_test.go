package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type driverError struct{ code int }

func (e *driverError) Error() string { return "driver failure" }

func TestPersistenceError(t *testing.T) {
	cause := &driverError{code: 1062}
	err := NewPersistenceError("gorm", "save order", cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.NotErrorIs(t, err, ErrNotFound)

	var de *driverError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, 1062, de.code)
	assert.Contains(t, err.Error(), "gorm save order")

	var stacker Stacker
	assert.True(t, errors.As(err, &stacker))
	assert.NotEmpty(t, stacker.Stack())

	assert.NoError(t, NewPersistenceError("gorm", "noop", nil))
}

func TestNotImplementedError(t *testing.T) {
	err := error(&NotImplementedError{Adapter: "prisma", Op: "List"})

	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.NotErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "implement repository binding logic")
}

func TestFilterHelpers(t *testing.T) {
	var nilFilter *BaseFilter[string]
	assert.True(t, nilFilter.IsEmpty())
	assert.True(t, In[string]().IsEmpty())
	assert.True(t, Contains("").IsEmpty())
	assert.False(t, Eq("x").IsEmpty())
	assert.False(t, In("a").IsEmpty())

	lo := 1.5
	assert.False(t, Between(&lo, nil).IsEmpty())

	assert.True(t, ContainsFold("Summer-SALE", "sale"))
	assert.False(t, ContainsFold("Summer", "winter"))
}
