// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package property implements the RFC-5545 property layer: a property is a
// NAME, an unordered bag of typed parameters, and a VALUE. It parses and
// renders content lines with their parameters (TZID, VALUE, LANGUAGE,
// ALTREP, RELTYPE, experimental X-params, IANA params) and parses the
// query-dialect control/filter properties (X-FROM, X-LIMIT, ...). Property
// values are kept as raw text; callers hand them to the ical package's
// value parsers.
package property

import "strings"

// Param is a single NAME=VALUE[,VALUE...] parameter.
type Param struct {
	Name   string
	Values []string
}

// Property is one parsed content line: NAME [;param]* : VALUE.
type Property struct {
	Name   string
	Params []Param
	Value  string
}

// Get returns the first value of the named parameter and whether it was
// present. Parameter name matching is case-insensitive, per RFC-5545.
func (p Property) Get(name string) (string, bool) {
	for _, param := range p.Params {
		if strings.EqualFold(param.Name, name) {
			if len(param.Values) == 0 {
				return "", true
			}
			return param.Values[0], true
		}
	}
	return "", false
}

// All returns every value of the named parameter (for multi-valued params).
func (p Property) All(name string) []string {
	for _, param := range p.Params {
		if strings.EqualFold(param.Name, name) {
			return param.Values
		}
	}
	return nil
}

// TZID is shorthand for Get("TZID").
func (p Property) TZID() string {
	v, _ := p.Get("TZID")
	return v
}
