package rundown

import (
	"slices"

	"github.com/samber/lo"
)

// StationCategory distinguishes regional from nationwide stations.
type StationCategory string

// StationCategory constants.
const (
	Regional   StationCategory = "REGIONAL"
	Nationwide StationCategory = "NATIONWIDE"
)

// Code returns the one-letter category code used in canonical file names.
func (c StationCategory) Code() string {
	if c == "" {
		return ""
	}
	return string(c[0])
}

// Station represents a broadcast station as named in export file names.
type Station struct {
	ID       int
	Name     string
	Category StationCategory
}

// stationDirectory maps display names to stations. Keys are exact and
// diacritic-sensitive (NFC).
var stationDirectory = map[string]Station{
	"Plus":                       {11, "Plus", Nationwide},
	"Radiožurnál":                {13, "Radiožurnál", Nationwide},
	"Dvojka":                     {0, "Dvojka", Nationwide},
	"Vltava":                     {0, "Vltava", Nationwide},
	"Pohoda":                     {0, "Pohoda", Nationwide},
	"Wave":                       {0, "Wave", Nationwide},
	"RŽ_Sport":                   {0, "RŽ_Sport", Nationwide},
	"ČRo_Brno":                   {0, "ČRo_Brno", Regional},
	"ČRo_DAB_Praha":              {0, "ČRo_DAB_Praha", Regional},
	"ČRo_Sever":                  {0, "ČRo_Sever", Regional},
	"ČRo_Plzeň":                  {0, "ČRo_Plzeň", Regional},
	"ČRo_Budějovice":             {0, "ČRo_Budějovice", Regional},
	"ČRo_Ostrava":                {0, "ČRo_Ostrava", Regional},
	"ČRo_Vysočina":               {0, "ČRo_Vysočina", Regional},
	"ČRo_Zlín":                   {0, "ČRo_Zlín", Regional},
	"ČRo_Region_SC":              {0, "ČRo_Region_SC", Regional},
	"ČRo_Liberec":                {0, "ČRo_Liberec", Regional},
	"ČRo_Hradec_Králové":         {0, "ČRo_Hradec_Králové", Regional},
	"ČRo_Pardubice":              {0, "ČRo_Pardubice", Regional},
	"ČRo_Olomouc":                {0, "ČRo_Olomouc", Regional},
	"ČRo_Karlovy_Vary":           {0, "ČRo_Karlovy_Vary", Regional},
	"ČRo_České_Budějovice":       {0, "ČRo_České_Budějovice", Regional},
	"ČRo_Region":                 {0, "ČRo_Region", Regional},
	"Junior":                     {0, "Junior", Nationwide},
	"Radio_Prague_International": {0, "Radio_Prague_International", Nationwide},
}

// LookupStation returns the station registered under the exact display name.
// Returns ESTATION if the name is not in the directory.
func LookupStation(name string) (Station, error) {
	s, ok := stationDirectory[name]
	if !ok {
		return Station{}, Errorf(ESTATION, "unknown station %q", name)
	}
	return s, nil
}

// StationNames returns the sorted display names of all known stations.
func StationNames() []string {
	names := lo.Keys(stationDirectory)
	slices.Sort(names)
	return names
}

// stationAbbreviations maps the numeric station code found in field 5081 to
// its two-letter abbreviation.
var stationAbbreviations = map[int]string{
	3:  "UN",
	5:  "CR",
	11: "RZ",
	13: "PS",
	15: "DV",
	17: "VL",
	19: "WA",
	21: "RJ",
	23: "ZV",
	31: "RD",
	33: "SC",
	35: "PN",
	37: "KV",
	39: "SE",
	41: "LB",
	43: "HK",
	45: "PC",
	47: "CB",
	49: "VY",
	51: "BO",
	53: "OL",
	55: "OV",
	57: "ZL",
	73: "RG",
	75: "RE",
}

// StationAbbreviation returns the abbreviation for a numeric station code.
func StationAbbreviation(code int) (string, bool) {
	abbr, ok := stationAbbreviations[code]
	return abbr, ok
}
