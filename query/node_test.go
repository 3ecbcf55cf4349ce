package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devonmarsh/redical/index"
	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/query"
)

func TestNode_NotExcludesMatchingEvent(t *testing.T) {
	cal := index.NewCalendar("cal1")
	e1 := model.NewEvent("e1")
	e1.Categories = []string{"WORK"}
	index.SetEvent(cal, e1)
	e2 := model.NewEvent("e2")
	index.SetEvent(cal, e2)

	q, err := query.Parse("NOT X-UID:e1")
	require.NoError(t, err)

	result := q.Where.Eval(cal)
	assert.Contains(t, result, "e2")
	assert.NotContains(t, result, "e1")
}

func TestNode_AndOfDisjointCategoriesIsEmpty(t *testing.T) {
	cal := index.NewCalendar("cal1")
	e1 := model.NewEvent("e1")
	e1.Categories = []string{"WORK"}
	index.SetEvent(cal, e1)
	e2 := model.NewEvent("e2")
	e2.Categories = []string{"TRAVEL"}
	index.SetEvent(cal, e2)

	q, err := query.Parse("X-CATEGORIES:WORK AND X-CATEGORIES:TRAVEL")
	require.NoError(t, err)

	result := q.Where.Eval(cal)
	assert.Empty(t, result)
}

func TestNode_OrUnionsCategories(t *testing.T) {
	cal := index.NewCalendar("cal1")
	e1 := model.NewEvent("e1")
	e1.Categories = []string{"WORK"}
	index.SetEvent(cal, e1)
	e2 := model.NewEvent("e2")
	e2.Categories = []string{"TRAVEL"}
	index.SetEvent(cal, e2)

	q, err := query.Parse("X-CATEGORIES:WORK OR X-CATEGORIES:TRAVEL")
	require.NoError(t, err)

	result := q.Where.Eval(cal)
	assert.Contains(t, result, "e1")
	assert.Contains(t, result, "e2")
}

func TestNode_OverrideExceptionNarrowsMatch(t *testing.T) {
	cal := index.NewCalendar("cal1")
	e1 := model.NewEvent("e1")
	e1.Categories = []string{"WORK"}
	override := model.NewOverride()
	override.Categories = []string{"PERSONAL"}
	override.CategoriesSet = true
	e1.Overrides[1000] = override
	index.SetEvent(cal, e1)

	q, err := query.Parse("X-CATEGORIES:WORK")
	require.NoError(t, err)

	result := q.Where.Eval(cal)
	require.Contains(t, result, "e1")
	assert.True(t, result["e1"].Matches(500))
	assert.False(t, result["e1"].Matches(1000))
}
