// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package engine

import (
	"fmt"

	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/icaldur"
	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/property"
)

// RenderEvent renders e's base properties back into canonical content
// lines, for EVT_GET (§6).
func RenderEvent(e *model.Event) []string {
	var lines []string
	if e.Schedule.DTStart != nil {
		lines = append(lines, property.Render(property.Property{Name: "DTSTART", Value: e.Schedule.DTStart.Render()}))
	}
	if e.Schedule.DTEnd != nil {
		lines = append(lines, property.Render(property.Property{Name: "DTEND", Value: e.Schedule.DTEnd.Render()}))
	}
	if e.Schedule.Duration != nil {
		lines = append(lines, property.Render(property.Property{Name: "DURATION", Value: icaldur.RenderICalDuration(*e.Schedule.Duration)}))
	}
	if e.Schedule.RRule != nil {
		lines = append(lines, property.Render(property.Property{Name: "RRULE", Value: e.Schedule.RRule.Render()}))
	}
	if e.Schedule.ExRule != nil {
		lines = append(lines, property.Render(property.Property{Name: "EXRULE", Value: e.Schedule.ExRule.Render()}))
	}
	for _, rdate := range e.Schedule.RDates {
		lines = append(lines, property.Render(property.Property{Name: "RDATE", Value: rdate.Render()}))
	}
	for _, exdate := range e.Schedule.ExDates {
		lines = append(lines, property.Render(property.Property{Name: "EXDATE", Value: exdate.Render()}))
	}
	if e.Class != "" {
		lines = append(lines, property.Render(property.Property{Name: "CLASS", Value: string(e.Class)}))
	}
	if e.Geo != nil {
		lines = append(lines, property.Render(property.Property{Name: "GEO", Value: e.Geo.Render()}))
	}
	if len(e.Categories) > 0 {
		lines = append(lines, property.Render(property.Property{Name: "CATEGORIES", Value: ical.RenderTextList(e.Categories)}))
	}
	if len(e.LocationType) > 0 {
		lines = append(lines, property.Render(property.Property{Name: "X-LOCATION-TYPE", Value: ical.RenderTextList(e.LocationType)}))
	}
	for _, rel := range e.RelatedTo {
		lines = append(lines, renderRelatedTo(rel))
	}
	for _, pp := range e.Passive {
		lines = append(lines, pp.Render())
	}
	return lines
}

// RenderOverride renders o's properties back into canonical content lines,
// for EVO_GET (§6). DTSTART is not rendered: the override's key carries it.
func RenderOverride(o *model.EventOccurrenceOverride) []string {
	var lines []string
	if o.DTEnd != nil {
		lines = append(lines, property.Render(property.Property{Name: "DTEND", Value: o.DTEnd.Render()}))
	}
	if o.Duration != nil {
		lines = append(lines, property.Render(property.Property{Name: "DURATION", Value: icaldur.RenderICalDuration(*o.Duration)}))
	}
	if o.ClassSet && o.Class != nil {
		lines = append(lines, property.Render(property.Property{Name: "CLASS", Value: string(*o.Class)}))
	}
	if o.GeoSet {
		value := ""
		if o.Geo != nil {
			value = o.Geo.Render()
		}
		lines = append(lines, property.Render(property.Property{Name: "GEO", Value: value}))
	}
	if o.CategoriesSet {
		lines = append(lines, property.Render(property.Property{Name: "CATEGORIES", Value: ical.RenderTextList(o.Categories)}))
	}
	if o.LocationTypeSet {
		lines = append(lines, property.Render(property.Property{Name: "X-LOCATION-TYPE", Value: ical.RenderTextList(o.LocationType)}))
	}
	for _, rel := range o.RelatedTo {
		lines = append(lines, renderRelatedTo(rel))
	}
	for _, pp := range o.Passive {
		lines = append(lines, pp.Render())
	}
	return lines
}

// RenderInstance renders a materialized EventInstance for a QUERY result
// (§6), prefixing the content lines with the UID and resolved start/end
// epoch seconds the wire protocol reports occurrence timestamps in (§6).
func RenderInstance(inst model.EventInstance) []string {
	lines := []string{
		fmt.Sprintf("UID:%s", inst.EventUID),
		fmt.Sprintf("X-DTSTART-TS:%d", inst.StartTS),
		fmt.Sprintf("X-DTEND-TS:%d", inst.EndTS),
	}
	if inst.Class != "" {
		lines = append(lines, property.Render(property.Property{Name: "CLASS", Value: string(inst.Class)}))
	}
	if inst.Geo != nil {
		lines = append(lines, property.Render(property.Property{Name: "GEO", Value: inst.Geo.Render()}))
	}
	if len(inst.Categories) > 0 {
		lines = append(lines, property.Render(property.Property{Name: "CATEGORIES", Value: ical.RenderTextList(inst.Categories)}))
	}
	if len(inst.LocationType) > 0 {
		lines = append(lines, property.Render(property.Property{Name: "X-LOCATION-TYPE", Value: ical.RenderTextList(inst.LocationType)}))
	}
	for _, rel := range inst.RelatedTo {
		lines = append(lines, renderRelatedTo(rel))
	}
	for _, pp := range inst.Passive {
		lines = append(lines, pp.Render())
	}
	return lines
}

func renderRelatedTo(rel model.RelatedTo) string {
	p := property.Property{Name: "RELATED-TO", Value: ical.RenderText(rel.UID)}
	if rel.RelType != "" && rel.RelType != "PARENT" {
		p.Params = append(p.Params, property.Param{Name: "RELTYPE", Values: []string{rel.RelType}})
	}
	return property.Render(p)
}
