package ical

// RECUR is parsed, rendered and validated by the rrule package
// (github.com/devonmarsh/redical/rrule), which also implements the
// occurrence-generating expansion algorithm (§4.3 of the design). It is not
// re-declared here: RRULE and EXRULE properties hold a *rrule.RRule
// directly, keeping one definition of the grammar instead of a value-layer
// shadow copy.
