package rundown

import "maps"

// FormatLabels maps story format codes (field 321) to readable labels. The
// export carries only the numeric code, and the code list is maintained by
// the broadcaster, so labels are supplied by configuration (the
// format-label option of the command line or config file). Without labels
// every code is exported as is.
type FormatLabels struct {
	labels map[string]string
}

// NewFormatLabels returns labels for the given code to label mapping. The
// map is copied.
func NewFormatLabels(labels map[string]string) FormatLabels {
	return FormatLabels{labels: maps.Clone(labels)}
}

// Label returns the label for a format code.
// Unknown codes are reported with ok set to false.
func (f FormatLabels) Label(code string) (label string, ok bool) {
	label, ok = f.labels[code]
	return label, ok
}

// Len returns the number of labelled codes.
func (f FormatLabels) Len() int {
	return len(f.labels)
}
