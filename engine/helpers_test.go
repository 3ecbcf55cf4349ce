// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package engine_test

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/devonmarsh/redical/ical"
)

func discardLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// mustEpoch parses an RFC-5545 UTC DATE-TIME string into its epoch seconds,
// for building test fixtures against the same wire format §6 uses for
// occurrence timestamps.
func mustEpoch(t *testing.T, value string) int64 {
	t.Helper()
	dt, err := ical.ParseDateTime(value, "")
	require.NoError(t, err)
	ts, err := dt.ToUTC(nil)
	require.NoError(t, err)
	return ts.Unix()
}
