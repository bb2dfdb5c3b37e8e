package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Skipped  string `db:"-"`
	Untagged string
	Optional *string `db:"optional"`
	hidden   string  `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "optional"}, StructTagValues(row{}))
	assert.Equal(t, []string{"id", "name", "optional"}, StructTagValues(&row{}))
}

func TestStructToMap(t *testing.T) {
	got := StructToMap(&row{ID: "a", Name: "b", Skipped: "c", Untagged: "d"})

	assert.Equal(t, map[string]any{"id": "a", "name": "b", "optional": (*string)(nil)}, got)
}

func TestStructHelpersPanicOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructTagValues("nope") })
	assert.Panics(t, func() { StructToMap(42) })
}

func TestNanoID(t *testing.T) {
	a, b := NanoID(), NanoID()

	assert.Len(t, a, 32)
	assert.Regexp(t, "^[0-9a-zA-Z]+$", a)
	assert.NotEqual(t, a, b)
}
