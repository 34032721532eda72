package rundown

import (
	"slices"
	"strings"
)

// Name is a person name split into given and family parts.
type Name struct {
	Given  string
	Family string
}

// Validate returns an error if either part of the name is empty.
func (n Name) Validate() error {
	if n.Given == "" {
		return Errorf(EINVALID, "given name required")
	}
	if n.Family == "" {
		return Errorf(EINVALID, "family name required")
	}
	return nil
}

// String returns the name as "Given Family".
func (n Name) String() string {
	return strings.TrimSpace(n.Given + " " + n.Family)
}

// Respondent is a contributor referenced by a story through a contact item.
type Respondent struct {
	// ID is the identifier assigned by the rundown system.
	ID          string
	Name        Name
	Labels      []string
	Affiliation string
	Gender      string
}

// Validate returns an error if the respondent contains invalid fields.
func (r *Respondent) Validate() error {
	return r.Name.Validate()
}

// Key identifies a respondent by name, labels and affiliation. Label order
// and duplicates do not affect the key.
func (r *Respondent) Key() string {
	labels := slices.Clone(r.Labels)
	slices.Sort(labels)
	labels = slices.Compact(labels)
	return strings.Join([]string{
		r.Name.Given, r.Name.Family, strings.Join(labels, ","), r.Affiliation,
	}, "\x00")
}

// Equal reports whether both respondents have the same key.
func (r *Respondent) Equal(other *Respondent) bool {
	return r.Key() == other.Key()
}

// ParseLabels splits a comma or semicolon separated label list.
func ParseLabels(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			labels = append(labels, f)
		}
	}
	return labels
}
