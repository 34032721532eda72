package etree

import (
	"context"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/rundown"
)

// DefaultTicksPerMillisecond is the tick-to-millisecond ratio of timespan
// fields in the export.
const DefaultTicksPerMillisecond = 1

// Ensure Extractor implements rundown.RecordExtractor.
var _ rundown.RecordExtractor = (*Extractor)(nil)

// Extractor flattens rundown exports into broadcast records.
type Extractor struct {
	// Lenient makes a missing root rundown object produce an empty walk
	// instead of an ESCHEMA error.
	Lenient bool

	// Strict makes a slot record without an "Hourly Rundown" object fail
	// the whole document with ESCHEMA instead of being skipped.
	Strict bool

	// TicksPerMillisecond converts timespan fields. Zero means
	// DefaultTicksPerMillisecond.
	TicksPerMillisecond float64
}

// NewExtractor returns an Extractor with the default policies.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Walk prepares a traversal of doc. The document is only read.
func (x *Extractor) Walk(source string, doc *etree.Document) (*Walk, error) {
	w := &Walk{
		source: source,
		ticks:  x.TicksPerMillisecond,
	}
	if w.ticks <= 0 {
		w.ticks = DefaultTicksPerMillisecond
	}

	w.root = findRundown(doc)
	if w.root == nil {
		if x.Lenient {
			return w, nil
		}
		return nil, rundown.Errorf(rundown.ESCHEMA, "%s: expected root rundown object not found", source)
	}

	if x.Strict {
		for _, slot := range w.root.SelectElements(rundown.TagRecord) {
			if childObject(slot, rundown.TemplateHourlyRundown) == nil {
				return nil, rundown.Errorf(rundown.ESCHEMA, "%s: record %s has no hourly rundown object",
					source, slot.SelectAttrValue("RecordID", "?"))
			}
		}
	}

	return w, nil
}

// Extract parses an export and collects all of its records.
func (x *Extractor) Extract(ctx context.Context, source string, r io.Reader) (*rundown.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}

	w, err := x.Walk(source, doc)
	if err != nil {
		return nil, err
	}

	ex := &rundown.Extraction{Source: source}
	for rec := range w.Records() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ex.Records = append(ex.Records, rec)
	}
	ex.Errors = w.Errors()
	ex.SkippedBlocks = w.SkippedBlocks()
	return ex, nil
}

var (
	isStory   = templates(rundown.TemplateRadioStory, rundown.TemplateSubRundown)
	isContact = templates(rundown.TemplateContactItem)
)

// Walk is a prepared traversal of one rundown document.
type Walk struct {
	source string
	root   *etree.Element
	ticks  float64
	errs   []error

	skipped int
}

// Errors returns the field errors recorded by the last traversal.
func (w *Walk) Errors() []error {
	return append([]error(nil), w.errs...)
}

// SkippedBlocks returns the number of slot records without an "Hourly
// Rundown" object passed over by the last traversal.
func (w *Walk) SkippedBlocks() int {
	return w.skipped
}

// HasErrors reports whether the last traversal recorded field errors.
func (w *Walk) HasErrors() bool {
	return len(w.errs) > 0
}

// Records returns the flattened records in document order. Every call
// starts a fresh traversal and resets the recorded errors.
//
// Levels: rundown header (date), slot record (station, title1), hourly
// rundown (block), item record (title2 and editorial metadata), story
// object (title3, timing, codes) and story record (category, contributor).
// A story without records yields a single record. Stories nested in the
// records of another story only contribute through that story's records.
func (w *Walk) Records() iter.Seq[*rundown.Record] {
	return func(yield func(*rundown.Record) bool) {
		w.errs = nil
		w.skipped = 0
		if w.root == nil {
			return
		}

		children := w.root.ChildElements()
		if len(children) == 0 {
			return
		}
		header := children[0]

		base := rundown.NewRecord(w.source)
		if v, ok := fieldText(header, rundown.FieldDate, rundown.TagDateTime); ok {
			if date, err := parseDate(v); err != nil {
				w.fail(w.root, rundown.FieldDate, v, err)
			} else {
				base.Set(rundown.ColDate, date)
			}
		}
		headerStation, hasHeaderStation := fieldText(header, rundown.FieldStationID, rundown.TagInt32)

		for _, slot := range w.root.SelectElements(rundown.TagRecord) {
			hourly := childObject(slot, rundown.TemplateHourlyRundown)
			if hourly == nil {
				w.skipped++
				continue
			}

			slotRec := base.Clone()
			if v, ok := fieldText(slot, rundown.FieldStationID, rundown.TagInt32); ok {
				slotRec.Set(rundown.ColStation, v)
			} else if hasHeaderStation {
				slotRec.Set(rundown.ColStation, headerStation)
			}
			setField(slotRec, rundown.ColTitle1, slot, rundown.FieldTitle, rundown.TagString)
			setField(slotRec, rundown.ColBlock, hourly.SelectElement(rundown.TagHeader), rundown.FieldTitle, rundown.TagString)

			for _, item := range hourly.SelectElements(rundown.TagRecord) {
				if !w.walkItem(slotRec, item, yield) {
					return
				}
			}
		}
	}
}

// walkItem yields the records of one rundown item. It returns false when
// the consumer stopped the iteration.
func (w *Walk) walkItem(parent *rundown.Record, item *etree.Element, yield func(*rundown.Record) bool) bool {
	rec := parent.Clone()
	setField(rec, rundown.ColTitle2, item, rundown.FieldTitle, rundown.TagString)
	setField(rec, rundown.ColAuthor, item, rundown.FieldAuthor, rundown.TagString)
	setField(rec, rundown.ColCreator, item, rundown.FieldCreator, rundown.TagString)
	setField(rec, rundown.ColEditorial, item, rundown.FieldEditorial, rundown.TagString)
	setField(rec, rundown.ColApprovedStation, item, rundown.FieldApprovedStation, rundown.TagString)
	setField(rec, rundown.ColApprovedEditorial, item, rundown.FieldApprovedEditorial, rundown.TagString)
	setField(rec, rundown.ColTopic, item, rundown.FieldTopic, rundown.TagString)
	setField(rec, rundown.ColTarget, item, rundown.FieldTarget, rundown.TagString)

	for _, story := range collect(item, isStory, isStory) {
		if !w.walkStory(rec, story, yield) {
			return false
		}
	}
	return true
}

// walkStory yields the records of one story object.
func (w *Walk) walkStory(parent *rundown.Record, story *etree.Element, yield func(*rundown.Record) bool) bool {
	rec := parent.Clone()
	rec.Set(rundown.ColTemplate, story.SelectAttrValue(rundown.AttrTemplateName, ""))

	header := story.SelectElement(rundown.TagHeader)
	setField(rec, rundown.ColTitle3, header, rundown.FieldTitle, rundown.TagString)
	setField(rec, rundown.ColFormat, header, rundown.FieldFormat, rundown.TagInt32)
	setField(rec, rundown.ColIncode, header, rundown.FieldIncode, rundown.TagString)
	setField(rec, rundown.ColItemcode, header, rundown.FieldItemcode, rundown.TagString)
	setField(rec, rundown.ColTarget, header, rundown.FieldTarget, rundown.TagString)

	w.setDuration(rec, story, header)
	w.setTime(rec, rundown.ColSince, story, header, rundown.FieldSince)
	w.setTime(rec, rundown.ColTill, story, header, rundown.FieldTill)

	segments := story.SelectElements(rundown.TagRecord)
	if len(segments) == 0 {
		return yield(rec)
	}

	for _, segment := range segments {
		segRec := rec.Clone()
		setField(segRec, rundown.ColCategory, segment, rundown.FieldTitle, rundown.TagString)

		contacts := collect(segment, isContact, isStory)
		if len(contacts) == 0 {
			if !yield(segRec) {
				return false
			}
			continue
		}
		for _, contact := range contacts {
			row := segRec.Clone()
			setContact(row, contact)
			if !yield(row) {
				return false
			}
		}
	}
	return true
}

// setDuration stores the story duration in minutes. The audio duration is
// preferred over the total duration; a missing duration counts as zero.
func (w *Walk) setDuration(rec *rundown.Record, story, header *etree.Element) {
	id := rundown.FieldAudioDuration
	v, ok := fieldText(header, id, rundown.TagTimeSpan)
	if !ok {
		id = rundown.FieldTotalDuration
		v, ok = fieldText(header, id, rundown.TagTimeSpan)
	}
	if !ok {
		v = "0"
	}

	minutes, err := ticksToMinutes(v, w.ticks)
	if err != nil {
		w.fail(story, id, v, err)
		return
	}
	rec.Set(rundown.ColDuration, strconv.FormatFloat(minutes, 'f', 1, 64))
}

func (w *Walk) setTime(rec *rundown.Record, col rundown.Column, story, header *etree.Element, id rundown.FieldID) {
	v, ok := fieldText(header, id, rundown.TagDateTime)
	if !ok {
		return
	}
	t, err := parseTimestamp(v)
	if err != nil {
		w.fail(story, id, v, err)
		return
	}
	rec.Set(col, t.Format(time.TimeOnly))
}

func (w *Walk) fail(el *etree.Element, id rundown.FieldID, value string, err error) {
	w.errs = append(w.errs, &rundown.FieldError{
		Source:   w.source,
		ObjectID: el.SelectAttrValue(rundown.AttrObjectID, "?"),
		Field:    id,
		Value:    value,
		Err:      err,
	})
}

// setContact copies contributor identity from a contact item header.
func setContact(rec *rundown.Record, contact *etree.Element) {
	header := contact.SelectElement(rundown.TagHeader)
	setField(rec, rundown.ColUniqueID, header, rundown.FieldUniqueID, rundown.TagString)
	setField(rec, rundown.ColGivenName, header, rundown.FieldGivenName, rundown.TagString)
	setField(rec, rundown.ColFamilyName, header, rundown.FieldFamilyName, rundown.TagString)
	setField(rec, rundown.ColLabels, header, rundown.FieldLabels, rundown.TagString)
	setField(rec, rundown.ColGender, header, rundown.FieldGender, rundown.TagInt32)
	setField(rec, rundown.ColAffiliation, header, rundown.FieldAffiliation, rundown.TagString)
}

func setField(rec *rundown.Record, col rundown.Column, el *etree.Element, id rundown.FieldID, valueTag string) {
	if v, ok := fieldText(el, id, valueTag); ok {
		rec.Set(col, v)
	}
}

// parseDate converts a YYYYMMDD[T...] date to YYYY-MM-DD.
func parseDate(s string) (string, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(s), "T")
	t, err := time.Parse("20060102", day)
	if err != nil {
		return "", err
	}
	return t.Format(time.DateOnly), nil
}

// parseTimestamp parses YYYYMMDDTHHMMSS with an optional ",fff" fraction.
func parseTimestamp(s string) (time.Time, error) {
	s, _, _ = strings.Cut(strings.TrimSpace(s), ",")
	return time.Parse("20060102T150405", s)
}

// ticksToMinutes converts a timespan in ticks to minutes rounded to one
// decimal place.
func ticksToMinutes(s string, ticksPerMillisecond float64) (float64, error) {
	ticks, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if ticks < 0 || math.IsNaN(ticks) || math.IsInf(ticks, 0) {
		return 0, rundown.Errorf(rundown.EINVALID, "invalid duration %q", s)
	}
	minutes := ticks / ticksPerMillisecond / 1000 / 60
	return math.Round(minutes*10) / 10, nil
}
