// Package etree implements content pruning and record extraction for rundown
// exports held in memory as github.com/beevik/etree documents.
package etree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/rundown"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDocument parses a UTF-8 rundown export.
func ReadDocument(r io.Reader) (*etree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(bytes.TrimPrefix(data, utf8BOM)); err != nil {
		return nil, rundown.Errorf(rundown.EINVALID, "parsing export XML: %s", err)
	}
	return doc, nil
}

// WriteDocument serializes a document as UTF-8.
func WriteDocument(doc *etree.Document, w io.Writer) error {
	_, err := doc.WriteTo(w)
	return err
}

// findRundown returns the root "Radio Rundown" object or nil.
func findRundown(doc *etree.Document) *etree.Element {
	return findFirst(&doc.Element, rundown.TemplateRadioRundown)
}

// findFirst returns the first descendant object with the given template
// name in document order, or nil.
func findFirst(el *etree.Element, template string) *etree.Element {
	for _, child := range el.ChildElements() {
		if isObject(child, template) {
			return child
		}
		if found := findFirst(child, template); found != nil {
			return found
		}
	}
	return nil
}

// collect returns every descendant matching match in document order. The
// subtree of an element for which stop returns true is not searched.
func collect(el *etree.Element, match, stop func(*etree.Element) bool) []*etree.Element {
	var found []*etree.Element
	var visit func(*etree.Element)
	visit = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if match(child) {
				found = append(found, child)
			}
			if stop == nil || !stop(child) {
				visit(child)
			}
		}
	}
	visit(el)
	return found
}

// templates returns a predicate matching objects with one of the names.
func templates(names ...string) func(*etree.Element) bool {
	return func(el *etree.Element) bool {
		return isObject(el, names...)
	}
}

// childObject returns the first direct child object with the template name.
func childObject(el *etree.Element, template string) *etree.Element {
	for _, child := range el.SelectElements(rundown.TagObject) {
		if isObject(child, template) {
			return child
		}
	}
	return nil
}

func isObject(el *etree.Element, templates ...string) bool {
	if el.Tag != rundown.TagObject {
		return false
	}
	name := el.SelectAttrValue(rundown.AttrTemplateName, "")
	for _, t := range templates {
		if name == t {
			return true
		}
	}
	return false
}

// fieldText returns the text of the value node of a direct child field.
// A missing field, value node or whitespace-only text is reported as absent.
func fieldText(el *etree.Element, id rundown.FieldID, valueTag string) (string, bool) {
	if el == nil {
		return "", false
	}
	for _, field := range el.SelectElements(rundown.TagField) {
		if field.SelectAttrValue(rundown.AttrFieldID, "") != string(id) {
			continue
		}
		value := field.SelectElement(valueTag)
		if value == nil {
			return "", false
		}
		text := strings.TrimSpace(value.Text())
		return text, text != ""
	}
	return "", false
}
