// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package engine

import (
	"fmt"
	"strings"

	"github.com/devonmarsh/redical/ical"
	"github.com/devonmarsh/redical/icaldur"
	"github.com/devonmarsh/redical/model"
	"github.com/devonmarsh/redical/property"
	"github.com/devonmarsh/redical/rrule"
)

// setOnceProperty assigns value into *slot, returning a ValidationError if
// name was already set by an earlier line in the same command body. A
// singleton property (DTSTART, RRULE, CLASS, ...) may appear at most once,
// following the teacher's duplicate-property rejection idiom.
func setOnceProperty[T any](slot *T, set *bool, name string, value T) error {
	if *set {
		return fmt.Errorf("%w: %s specified more than once", ErrValidation, name)
	}
	*slot = value
	*set = true
	return nil
}

// buildEvent parses the ical content lines of an EVT_SET command body into a
// new Event.
func buildEvent(uid, body string) (*model.Event, error) {
	e := model.NewEvent(uid)
	var dtstartSet, dtendSet, durationSet, rruleSet, exruleSet, classSet, geoSet bool

	for _, line := range property.SplitLines(body) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		prop, err := property.ParseLine(line)
		if err != nil {
			return nil, err
		}

		switch prop.Name {
		case "DTSTART":
			dt, err := ical.ParseDateTime(prop.Value, prop.TZID())
			if err != nil {
				return nil, err
			}
			if err := setOnceProperty(&e.Schedule.DTStart, &dtstartSet, "DTSTART", &dt); err != nil {
				return nil, err
			}
		case "DTEND":
			dt, err := ical.ParseDateTime(prop.Value, prop.TZID())
			if err != nil {
				return nil, err
			}
			if err := setOnceProperty(&e.Schedule.DTEnd, &dtendSet, "DTEND", &dt); err != nil {
				return nil, err
			}
		case "DURATION":
			dur, err := icaldur.ParseICalDuration(prop.Value)
			if err != nil {
				return nil, fmt.Errorf("DURATION: %w", err)
			}
			if err := setOnceProperty(&e.Schedule.Duration, &durationSet, "DURATION", &dur); err != nil {
				return nil, err
			}
		case "RRULE":
			r, err := rrule.ParseRRule(prop.Value)
			if err != nil {
				return nil, err
			}
			if err := setOnceProperty(&e.Schedule.RRule, &rruleSet, "RRULE", r); err != nil {
				return nil, err
			}
		case "EXRULE":
			r, err := rrule.ParseRRule(prop.Value)
			if err != nil {
				return nil, err
			}
			if err := setOnceProperty(&e.Schedule.ExRule, &exruleSet, "EXRULE", r); err != nil {
				return nil, err
			}
		case "RDATE":
			dt, err := ical.ParseDateTime(prop.Value, prop.TZID())
			if err != nil {
				return nil, err
			}
			e.Schedule.RDates = append(e.Schedule.RDates, dt)
		case "EXDATE":
			dt, err := ical.ParseDateTime(prop.Value, prop.TZID())
			if err != nil {
				return nil, err
			}
			e.Schedule.ExDates = append(e.Schedule.ExDates, dt)
		case "CLASS":
			c := model.Class(strings.ToUpper(prop.Value))
			if err := setOnceProperty(&e.Class, &classSet, "CLASS", c); err != nil {
				return nil, err
			}
		case "GEO":
			g, err := ical.ParseGeoPair(prop.Value)
			if err != nil {
				return nil, err
			}
			if err := setOnceProperty(&e.Geo, &geoSet, "GEO", &g); err != nil {
				return nil, err
			}
		case "CATEGORIES":
			vals, err := ical.ParseTextList(prop.Value)
			if err != nil {
				return nil, err
			}
			e.Categories = append(e.Categories, vals...)
		case "X-LOCATION-TYPE":
			vals, err := ical.ParseTextList(prop.Value)
			if err != nil {
				return nil, err
			}
			e.LocationType = append(e.LocationType, vals...)
		case "RELATED-TO":
			rel, err := parseRelatedTo(prop)
			if err != nil {
				return nil, err
			}
			e.RelatedTo = append(e.RelatedTo, rel)
		default:
			e.Passive = append(e.Passive, property.PassiveProperty{Raw: prop})
		}
	}

	return e, nil
}

// buildOverride parses the ical content lines of an EVO_SET command body
// into a new EventOccurrenceOverride. RRULE/EXRULE/RDATE/EXDATE are rejected
// per §6: an override describes exactly one occurrence.
func buildOverride(body string) (*model.EventOccurrenceOverride, error) {
	o := model.NewOverride()
	var durationSet bool

	for _, line := range property.SplitLines(body) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		prop, err := property.ParseLine(line)
		if err != nil {
			return nil, err
		}

		switch prop.Name {
		case "RRULE", "EXRULE", "RDATE", "EXDATE":
			return nil, fmt.Errorf("%w: override cannot carry %s", ErrValidation, prop.Name)
		case "DTEND":
			dt, err := ical.ParseDateTime(prop.Value, prop.TZID())
			if err != nil {
				return nil, err
			}
			o.DTEnd = &dt
		case "DURATION":
			dur, err := icaldur.ParseICalDuration(prop.Value)
			if err != nil {
				return nil, fmt.Errorf("DURATION: %w", err)
			}
			if durationSet {
				return nil, fmt.Errorf("%w: DURATION specified more than once", ErrValidation)
			}
			o.Duration = &dur
			durationSet = true
		case "CLASS":
			if o.ClassSet {
				return nil, fmt.Errorf("%w: CLASS specified more than once", ErrValidation)
			}
			c := model.Class(strings.ToUpper(prop.Value))
			o.Class = &c
			o.ClassSet = true
		case "GEO":
			if o.GeoSet {
				return nil, fmt.Errorf("%w: GEO specified more than once", ErrValidation)
			}
			if prop.Value == "" {
				o.GeoSet = true
				break
			}
			g, err := ical.ParseGeoPair(prop.Value)
			if err != nil {
				return nil, err
			}
			o.Geo = &g
			o.GeoSet = true
		case "CATEGORIES":
			vals, err := ical.ParseTextList(prop.Value)
			if err != nil {
				return nil, err
			}
			o.CategoriesSet = true
			o.Categories = append(o.Categories, vals...)
		case "X-LOCATION-TYPE":
			vals, err := ical.ParseTextList(prop.Value)
			if err != nil {
				return nil, err
			}
			o.LocationTypeSet = true
			o.LocationType = append(o.LocationType, vals...)
		case "RELATED-TO":
			rel, err := parseRelatedTo(prop)
			if err != nil {
				return nil, err
			}
			o.RelatedToSet = true
			o.RelatedTo = append(o.RelatedTo, rel)
		default:
			o.Passive = append(o.Passive, property.PassiveProperty{Raw: prop})
		}
	}

	return o, nil
}

func parseRelatedTo(prop property.Property) (model.RelatedTo, error) {
	relType := prop.Get1("RELTYPE")
	if relType == "" {
		relType = "PARENT"
	}
	uid, err := ical.ParseText(prop.Value)
	if err != nil {
		return model.RelatedTo{}, err
	}
	return model.RelatedTo{RelType: relType, UID: uid}, nil
}
