package query_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/index"
	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/query"
	"github.com/devonmarsh/redical/rrule"
)

func utcDateTime(t time.Time) ical.DateTime {
	return ical.FromTime(t)
}

func newWeeklyEvent(uid string, dtstart time.Time, count int) *model.Event {
	e := model.NewEvent(uid)
	dt := utcDateTime(dtstart)
	e.Schedule.DTStart = &dt
	r, err := rrule.ParseRRule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", count))
	if err != nil {
		panic(err)
	}
	e.Schedule.RRule = r
	return e
}

func TestExecute_TimeWindowOrderedByDTStart(t *testing.T) {
	cal := index.NewCalendar("cal1")
	dtstart := time.Date(1997, 9, 2, 9, 0, 0, 0, time.UTC)
	e := newWeeklyEvent("e1", dtstart, 10)
	index.SetEvent(cal, e)

	q, err := query.Parse("X-FROM;PROP=DTSTART;OP=GTE:19970901T000000Z X-UNTIL;PROP=DTSTART;OP=LTE:19971001T000000Z X-ORDER-BY:DTSTART")
	require.NoError(t, err)

	result, err := query.Execute(cal, q, time.UTC, occurrenceCap)
	require.NoError(t, err)

	require.NotEmpty(t, result.Instances)
	for i := 1; i < len(result.Instances); i++ {
		assert.LessOrEqual(t, result.Instances[i-1].StartTS, result.Instances[i].StartTS)
	}
	for _, inst := range result.Instances {
		assert.GreaterOrEqual(t, inst.StartTS, time.Date(1997, 9, 1, 0, 0, 0, 0, time.UTC).Unix())
		assert.LessOrEqual(t, inst.StartTS, time.Date(1997, 10, 1, 0, 0, 0, 0, time.UTC).Unix())
	}
}

const occurrenceCap = 1000

func TestExecute_CategoriesOrMinusUID(t *testing.T) {
	cal := index.NewCalendar("cal1")
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	e1 := model.NewEvent("E1")
	dt1 := utcDateTime(dtstart)
	e1.Schedule.DTStart = &dt1
	e1.Categories = []string{"A"}
	index.SetEvent(cal, e1)

	e2 := model.NewEvent("E2")
	dt2 := utcDateTime(dtstart)
	e2.Schedule.DTStart = &dt2
	e2.Categories = []string{"B"}
	index.SetEvent(cal, e2)

	e3 := model.NewEvent("E3")
	dt3 := utcDateTime(dtstart)
	e3.Schedule.DTStart = &dt3
	e3.Categories = []string{"A", "B"}
	index.SetEvent(cal, e3)

	q, err := query.Parse("(X-CATEGORIES;OP=OR:A,B) AND NOT X-UID:E2 X-ORDER-BY:DTSTART")
	require.NoError(t, err)

	result, err := query.Execute(cal, q, time.UTC, occurrenceCap)
	require.NoError(t, err)

	var uids []string
	for _, inst := range result.Instances {
		uids = append(uids, inst.EventUID)
	}
	assert.Contains(t, uids, "E1")
	assert.Contains(t, uids, "E3")
	assert.NotContains(t, uids, "E2")
}

func TestExecute_GeoRadiusOrderedByDistance(t *testing.T) {
	cal := index.NewCalendar("cal1")
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	near := model.NewEvent("near")
	dtNear := utcDateTime(dtstart)
	near.Schedule.DTStart = &dtNear
	nearGeo := ical.GeoPair{Lat: 48.86, Lon: 2.35}
	near.Geo = &nearGeo
	index.SetEvent(cal, near)

	far := model.NewEvent("far")
	dtFar := utcDateTime(dtstart)
	far.Schedule.DTStart = &dtFar
	farGeo := ical.GeoPair{Lat: 40.7128, Lon: -74.0060}
	far.Geo = &farGeo
	index.SetEvent(cal, far)

	q, err := query.Parse("X-GEO;DIST=5KM:48.85;2.35 X-ORDER-BY:GEO-DIST-DTSTART;48.85;2.35")
	require.NoError(t, err)

	result, err := query.Execute(cal, q, time.UTC, occurrenceCap)
	require.NoError(t, err)

	require.Len(t, result.Instances, 1)
	assert.Equal(t, "near", result.Instances[0].EventUID)
}

func TestExecute_UnboundedTruncatesAtCap(t *testing.T) {
	cal := index.NewCalendar("cal1")
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	e := model.NewEvent("e1")
	dt := utcDateTime(dtstart)
	e.Schedule.DTStart = &dt
	r, err := rrule.ParseRRule("FREQ=DAILY")
	require.NoError(t, err)
	e.Schedule.RRule = r
	index.SetEvent(cal, e)

	q, err := query.Parse("X-UID:e1 X-LIMIT:5")
	require.NoError(t, err)

	result, err := query.Execute(cal, q, time.UTC, 50)
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	assert.Len(t, result.Instances, 5)
}

func TestExecute_DistinctDropsRepeatUID(t *testing.T) {
	cal := index.NewCalendar("cal1")
	e := newWeeklyEvent("e1", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 5)
	index.SetEvent(cal, e)

	q, err := query.Parse("X-UID:e1 X-DISTINCT:UID")
	require.NoError(t, err)

	result, err := query.Execute(cal, q, time.UTC, occurrenceCap)
	require.NoError(t, err)

	assert.Len(t, result.Instances, 1)
}

func TestExecute_OffsetAndLimitPaginate(t *testing.T) {
	cal := index.NewCalendar("cal1")
	e := newWeeklyEvent("e1", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 10)
	index.SetEvent(cal, e)

	q, err := query.Parse("X-UID:e1 X-OFFSET:2 X-LIMIT:3")
	require.NoError(t, err)

	result, err := query.Execute(cal, q, time.UTC, occurrenceCap)
	require.NoError(t, err)

	require.Len(t, result.Instances, 3)
	assert.False(t, result.Truncated)
}
