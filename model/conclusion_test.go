package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devonmarsh/redical/model"
)

func TestIndexedConclusion_Matches(t *testing.T) {
	always := model.IncludeAlways()
	assert.True(t, always.Matches(100))

	withException := model.IncludeExcept(map[int64]struct{}{200: {}})
	assert.True(t, withException.Matches(100))
	assert.False(t, withException.Matches(200))

	never := model.ExcludeOnly(map[int64]struct{}{300: {}})
	assert.False(t, never.Matches(100))
	assert.True(t, never.Matches(300))
}

func TestIndexedConclusion_Negate(t *testing.T) {
	c := model.IncludeExcept(map[int64]struct{}{100: {}})
	n := c.Negate()
	assert.True(t, n.Matches(100))
	assert.False(t, n.Matches(200))
}

func TestIndexedConclusion_And(t *testing.T) {
	a := model.IncludeAlways()
	b := model.IncludeExcept(map[int64]struct{}{50: {}})
	and := a.And(b)
	assert.False(t, and.Matches(50))
	assert.True(t, and.Matches(51))
}

func TestIndexedConclusion_Or(t *testing.T) {
	a := model.ExcludeOnly(map[int64]struct{}{50: {}})
	b := model.ExcludeOnly(map[int64]struct{}{60: {}})
	or := a.Or(b)
	assert.True(t, or.Matches(50))
	assert.True(t, or.Matches(60))
	assert.False(t, or.Matches(70))
}

func TestIndexedConclusion_IsNeverEffective(t *testing.T) {
	empty := model.ExcludeOnly(nil)
	assert.True(t, empty.IsNeverEffective())

	nonEmpty := model.ExcludeOnly(map[int64]struct{}{1: {}})
	assert.False(t, nonEmpty.IsNeverEffective())
}
