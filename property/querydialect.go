package property

import (
	"fmt"
	"strconv"
	"strings"
)

// CompareOp is the comparison operator carried by X-FROM/X-UNTIL's OP
// parameter.
type CompareOp int

const (
	OpGT CompareOp = iota
	OpGTE
	OpLT
	OpLTE
)

func parseCompareOp(raw string) (CompareOp, error) {
	switch strings.ToUpper(raw) {
	case "GT":
		return OpGT, nil
	case "GTE":
		return OpGTE, nil
	case "LT":
		return OpLT, nil
	case "LTE":
		return OpLTE, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized OP %q", ErrInvalidPropertyLine, raw)
	}
}

// TimeRef names the event timestamp a time bound is measured against.
type TimeRef int

const (
	RefDTSTART TimeRef = iota
	RefDTEND
)

func parseTimeRef(raw string) (TimeRef, error) {
	switch strings.ToUpper(raw) {
	case "", "DTSTART":
		return RefDTSTART, nil
	case "DTEND":
		return RefDTEND, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized PROP %q", ErrInvalidPropertyLine, raw)
	}
}

// TimeBound is a parsed X-FROM or X-UNTIL control property: a comparison
// against DTSTART or DTEND, value left unresolved (the query layer resolves
// it to an absolute instant using X-TZID or the calendar's default zone).
type TimeBound struct {
	Ref   TimeRef
	Op    CompareOp
	Value string
	TZID  string
}

// ParseTimeBound parses an X-FROM or X-UNTIL property.
func ParseTimeBound(p Property) (TimeBound, error) {
	ref, err := parseTimeRef(p.Get1("PROP"))
	if err != nil {
		return TimeBound{}, err
	}
	opRaw, ok := p.Get("OP")
	if !ok {
		switch strings.ToUpper(p.Name) {
		case "X-FROM":
			opRaw = "GTE"
		case "X-UNTIL":
			opRaw = "LTE"
		}
	}
	op, err := parseCompareOp(opRaw)
	if err != nil {
		return TimeBound{}, err
	}
	return TimeBound{Ref: ref, Op: op, Value: p.Value, TZID: p.TZID()}, nil
}

// Get1 is Get without the presence flag, for call sites that only want the
// zero value on absence.
func (p Property) Get1(name string) string {
	v, _ := p.Get(name)
	return v
}

// OrderKind names the X-ORDER-BY sort discipline.
type OrderKind int

const (
	OrderDTStart OrderKind = iota
	OrderDTStartThenGeoDist
	OrderGeoDistThenDTStart
)

// OrderBy is a parsed X-ORDER-BY control property.
type OrderBy struct {
	Kind OrderKind
	Lat  float64
	Lon  float64
}

// ParseOrderBy parses an X-ORDER-BY value: "DTSTART",
// "DTSTART-GEO-DIST;lat;lon", or "GEO-DIST-DTSTART;lat;lon".
func ParseOrderBy(value string) (OrderBy, error) {
	parts := strings.Split(value, ";")
	switch strings.ToUpper(parts[0]) {
	case "DTSTART":
		if len(parts) != 1 {
			return OrderBy{}, fmt.Errorf("%w: DTSTART ordering takes no coordinates", ErrInvalidPropertyLine)
		}
		return OrderBy{Kind: OrderDTStart}, nil
	case "DTSTART-GEO-DIST":
		lat, lon, err := parseLatLon(parts[1:])
		if err != nil {
			return OrderBy{}, err
		}
		return OrderBy{Kind: OrderDTStartThenGeoDist, Lat: lat, Lon: lon}, nil
	case "GEO-DIST-DTSTART":
		lat, lon, err := parseLatLon(parts[1:])
		if err != nil {
			return OrderBy{}, err
		}
		return OrderBy{Kind: OrderGeoDistThenDTStart, Lat: lat, Lon: lon}, nil
	default:
		return OrderBy{}, fmt.Errorf("%w: unrecognized X-ORDER-BY %q", ErrInvalidPropertyLine, value)
	}
}

func parseLatLon(parts []string) (lat, lon float64, err error) {
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected lat;lon", ErrInvalidPropertyLine)
	}
	lat, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad latitude %q", ErrInvalidPropertyLine, parts[0])
	}
	lon, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad longitude %q", ErrInvalidPropertyLine, parts[1])
	}
	return lat, lon, nil
}

// ParseLimit parses an X-LIMIT value.
func ParseLimit(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad X-LIMIT %q", ErrInvalidPropertyLine, value)
	}
	return n, nil
}

// ParseOffset parses an X-OFFSET value.
func ParseOffset(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad X-OFFSET %q", ErrInvalidPropertyLine, value)
	}
	return n, nil
}

// IsDistinctUID reports whether an X-DISTINCT property requests UID
// distinctness (the only recognized mode).
func IsDistinctUID(value string) (bool, error) {
	if strings.EqualFold(value, "UID") {
		return true, nil
	}
	return false, fmt.Errorf("%w: unrecognized X-DISTINCT mode %q", ErrInvalidPropertyLine, value)
}

// CombineOp is the multi-value combination rule carried by a filter
// property's OP parameter.
type CombineOp int

const (
	CombineOR CombineOp = iota
	CombineAND
)

// FilterTerm is a parsed filter property (X-CATEGORIES, X-LOCATION-TYPE,
// X-RELATED-TO, X-CLASS, X-UID): a property name, a list of terms, and how
// multiple terms combine.
type FilterTerm struct {
	Name   string
	Op     CombineOp
	Values []string
}

// ParseFilterTerm parses any of the text-list filter properties. OP
// defaults to OR when absent, per §4.7.
func ParseFilterTerm(p Property) (FilterTerm, error) {
	op := CombineOR
	if raw, ok := p.Get("OP"); ok {
		switch strings.ToUpper(raw) {
		case "AND":
			op = CombineAND
		case "OR":
			op = CombineOR
		default:
			return FilterTerm{}, fmt.Errorf("%w: unrecognized OP %q", ErrInvalidPropertyLine, raw)
		}
	}
	values := splitRespectingQuotes(p.Value, ',')
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return FilterTerm{Name: strings.ToUpper(p.Name), Op: op, Values: values}, nil
}

// GeoFilter is a parsed X-GEO property: a center point and radius.
type GeoFilter struct {
	Lat      float64
	Lon      float64
	RadiusKM float64
}

// ParseGeoFilter parses an X-GEO property, e.g. "X-GEO;DIST=5KM:48.85;2.35".
func ParseGeoFilter(p Property) (GeoFilter, error) {
	dist, ok := p.Get("DIST")
	if !ok {
		return GeoFilter{}, fmt.Errorf("%w: X-GEO requires a DIST parameter", ErrInvalidPropertyLine)
	}
	radiusKM, err := parseDistanceKM(dist)
	if err != nil {
		return GeoFilter{}, err
	}
	coords := strings.Split(p.Value, ";")
	lat, lon, err := parseLatLon(coords)
	if err != nil {
		return GeoFilter{}, err
	}
	return GeoFilter{Lat: lat, Lon: lon, RadiusKM: radiusKM}, nil
}

// parseDistanceKM parses a DIST value such as "5KM" or "500M".
func parseDistanceKM(raw string) (float64, error) {
	upper := strings.ToUpper(raw)
	switch {
	case strings.HasSuffix(upper, "KM"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(upper, "KM"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad DIST %q", ErrInvalidPropertyLine, raw)
		}
		return v, nil
	case strings.HasSuffix(upper, "M"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(upper, "M"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad DIST %q", ErrInvalidPropertyLine, raw)
		}
		return v / 1000, nil
	default:
		return 0, fmt.Errorf("%w: DIST %q missing unit", ErrInvalidPropertyLine, raw)
	}
}
