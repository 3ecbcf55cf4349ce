// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package icaldur

import (
	"strconv"
	"strings"
	"time"
)

// RenderICalDuration renders d as the shortest valid RFC-5545 DURATION
// value: a whole number of weeks when d is an exact multiple of a week,
// otherwise the PnDTnHnMnS form with every zero component omitted.
func RenderICalDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}

	const week = 7 * 24 * time.Hour
	if d%week == 0 {
		weeks := int64(d / week)
		return sign + "P" + strconv.FormatInt(weeks, 10) + "W"
	}

	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int64(d / time.Second)

	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('P')
	if days > 0 {
		b.WriteString(strconv.FormatInt(days, 10))
		b.WriteByte('D')
	}
	if hours > 0 || minutes > 0 || seconds > 0 {
		b.WriteByte('T')
		if hours > 0 {
			b.WriteString(strconv.FormatInt(hours, 10))
			b.WriteByte('H')
		}
		if minutes > 0 {
			b.WriteString(strconv.FormatInt(minutes, 10))
			b.WriteByte('M')
		}
		if seconds > 0 {
			b.WriteString(strconv.FormatInt(seconds, 10))
			b.WriteByte('S')
		}
	}
	return b.String()
}
