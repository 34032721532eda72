package rundown

import (
	"slices"
	"strings"
)

// Element tags of the rundown export schema.
const (
	TagObject   = "OM_OBJECT"
	TagRecord   = "OM_RECORD"
	TagHeader   = "OM_HEADER"
	TagField    = "OM_FIELD"
	TagUplink   = "OM_UPLINK"
	TagString   = "OM_STRING"
	TagInt32    = "OM_INT32"
	TagDateTime = "OM_DATETIME"
	TagTimeSpan = "OM_TIMESPAN"
)

// Attributes of the rundown export schema.
const (
	AttrTemplateName = "TemplateName"
	AttrFieldID      = "FieldID"
	AttrIsEmpty      = "IsEmpty"
	AttrObjectID     = "ObjectID"
)

// Template names identifying the objects of the broadcast hierarchy.
const (
	TemplateRadioRundown  = "Radio Rundown"
	TemplateHourlyRundown = "Hourly Rundown"
	TemplateRadioStory    = "Radio Story"
	TemplateSubRundown    = "Sub Rundown"
	TemplateContactItem   = "Contact Item"
)

// FieldID identifies a metadata field in the export (the FieldID attribute).
type FieldID string

// Broadcast fields.
const (
	FieldCreator           FieldID = "5"
	FieldAuthor            FieldID = "6"
	FieldTitle             FieldID = "8"
	FieldEditorial         FieldID = "12"
	FieldFormat            FieldID = "321"
	FieldDate              FieldID = "1000"
	FieldSince             FieldID = "1002"
	FieldTill              FieldID = "1003"
	FieldTotalDuration     FieldID = "1005"
	FieldAudioDuration     FieldID = "1036"
	FieldTopic             FieldID = "5016"
	FieldApprovedEditorial FieldID = "5070"
	FieldApprovedStation   FieldID = "5071"
	FieldIncode            FieldID = "5072"
	FieldTarget            FieldID = "5079"
	FieldStationID         FieldID = "5081"
	FieldItemcode          FieldID = "5082"
)

// Contact item (respondent) fields.
const (
	FieldGivenName   FieldID = "421"
	FieldFamilyName  FieldID = "422"
	FieldLabels      FieldID = "424"
	FieldAffiliation FieldID = "5015"
	FieldUniqueID    FieldID = "5087"
	FieldGender      FieldID = "5088"
)

// FieldWhitelist is an immutable set of field identifiers.
type FieldWhitelist struct {
	ids map[FieldID]struct{}
}

// NewFieldWhitelist returns a whitelist containing the given identifiers.
func NewFieldWhitelist(ids ...FieldID) FieldWhitelist {
	m := make(map[FieldID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return FieldWhitelist{ids: m}
}

// Contains reports whether the field identifier is retained.
func (w FieldWhitelist) Contains(id FieldID) bool {
	_, ok := w.ids[id]
	return ok
}

// Len returns the number of whitelisted identifiers.
func (w FieldWhitelist) Len() int {
	return len(w.ids)
}

// IDs returns the whitelisted identifiers in ascending numeric order.
func (w FieldWhitelist) IDs() []FieldID {
	ids := make([]FieldID, 0, len(w.ids))
	for id := range w.ids {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b FieldID) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(string(a), string(b))
	})
	return ids
}

// DefaultWhitelist holds the metadata fields kept by the content pruner.
var DefaultWhitelist = NewFieldWhitelist(
	FieldTitle,
	FieldTopic,
	FieldTotalDuration,
	FieldDate,
	FieldStationID,
	FieldAuthor,
	FieldApprovedEditorial,
	FieldIncode,
	FieldItemcode,
	FieldEditorial,
	FieldFormat,
)
