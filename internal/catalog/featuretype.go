package catalog

import "regexp"

// FeatureType is the semantic category of a feature, derived from its
// name ("temp1_max" is a temperature limit, "fan2_fault" a fan fault
// flag, and so on).
type FeatureType int

const (
	TypeUnknown FeatureType = iota

	TypeIn
	TypeInMin
	TypeInMax
	TypeInAlarm
	TypeInMinAlarm
	TypeInMaxAlarm

	TypeFan
	TypeFanMin
	TypeFanDiv
	TypeFanAlarm
	TypeFanFault

	TypeTemp
	TypeTempMax
	TypeTempMaxHyst
	TypeTempMin
	TypeTempCrit
	TypeTempCritHyst
	TypeTempAlarm
	TypeTempMinAlarm
	TypeTempMaxAlarm
	TypeTempCritAlarm
	TypeTempFault
	TypeTempSens

	TypeVRM
	TypeVID
)

// String returns the canonical name of the feature type
func (t FeatureType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

var typeNames = map[FeatureType]string{
	TypeIn:            "in",
	TypeInMin:         "in_min",
	TypeInMax:         "in_max",
	TypeInAlarm:       "in_alarm",
	TypeInMinAlarm:    "in_min_alarm",
	TypeInMaxAlarm:    "in_max_alarm",
	TypeFan:           "fan",
	TypeFanMin:        "fan_min",
	TypeFanDiv:        "fan_div",
	TypeFanAlarm:      "fan_alarm",
	TypeFanFault:      "fan_fault",
	TypeTemp:          "temp",
	TypeTempMax:       "temp_max",
	TypeTempMaxHyst:   "temp_max_hyst",
	TypeTempMin:       "temp_min",
	TypeTempCrit:      "temp_crit",
	TypeTempCritHyst:  "temp_crit_hyst",
	TypeTempAlarm:     "temp_alarm",
	TypeTempMinAlarm:  "temp_min_alarm",
	TypeTempMaxAlarm:  "temp_max_alarm",
	TypeTempCritAlarm: "temp_crit_alarm",
	TypeTempFault:     "temp_fault",
	TypeTempSens:      "temp_type",
	TypeVRM:           "vrm",
	TypeVID:           "vid",
}

// typeMatch is one row of the static classification table: the base
// word maps either to a bare type or to a sub-table of suffix words.
type typeMatch struct {
	base       FeatureType
	submatches map[string]FeatureType
}

var typeTable = map[string]typeMatch{
	"temp": {base: TypeTemp, submatches: map[string]FeatureType{
		"max":        TypeTempMax,
		"max_hyst":   TypeTempMaxHyst,
		"min":        TypeTempMin,
		"crit":       TypeTempCrit,
		"crit_hyst":  TypeTempCritHyst,
		"alarm":      TypeTempAlarm,
		"min_alarm":  TypeTempMinAlarm,
		"max_alarm":  TypeTempMaxAlarm,
		"crit_alarm": TypeTempCritAlarm,
		"fault":      TypeTempFault,
		"type":       TypeTempSens,
	}},
	"in": {base: TypeIn, submatches: map[string]FeatureType{
		"min":       TypeInMin,
		"max":       TypeInMax,
		"alarm":     TypeInAlarm,
		"min_alarm": TypeInMinAlarm,
		"max_alarm": TypeInMaxAlarm,
	}},
	"fan": {base: TypeFan, submatches: map[string]FeatureType{
		"min":   TypeFanMin,
		"div":   TypeFanDiv,
		"alarm": TypeFanAlarm,
		"fault": TypeFanFault,
	}},
	"vrm":    {base: TypeVRM},
	"vid":    {base: TypeVID},
	"sensor": {base: TypeTempSens},
}

// featureNameRE decomposes a feature name into base word, optional
// index digits, and optional underscore-separated suffix word.
var featureNameRE = regexp.MustCompile(`^([[:alpha:]]+)[[:digit:]]*(_([[:alpha:]]+.*))?$`)

// Classify derives the semantic category of a feature from its name.
// Names that do not decompose, base words not in the table, and suffix
// words not in the base's sub-table all yield TypeUnknown.
func Classify(name string) FeatureType {
	m := featureNameRE.FindStringSubmatch(name)
	if m == nil {
		return TypeUnknown
	}
	base, suffix := m[1], m[3]

	entry, ok := typeTable[base]
	if !ok {
		return TypeUnknown
	}
	if suffix == "" {
		return entry.base
	}
	if entry.submatches == nil {
		return TypeUnknown
	}
	if t, ok := entry.submatches[suffix]; ok {
		return t
	}
	return TypeUnknown
}

// Type classifies the feature, preferring its display name when set.
func (f *Feature) Type() FeatureType {
	return Classify(f.TypeName())
}
