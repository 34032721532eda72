package etree

import (
	"context"
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/rundown"
)

// Prune returns a copy of doc reduced to whitelisted metadata fields. The
// input document is never modified.
//
// The root header, every record and every object (its header and its own
// fields) are cleaned independently: empty fields are removed first, then
// fields outside the whitelist, then uplinks.
//
// Returns ESCHEMA if the document has no "Radio Rundown" object.
func Prune(doc *etree.Document, whitelist rundown.FieldWhitelist) (*etree.Document, rundown.PruneStats, error) {
	var stats rundown.PruneStats

	out := doc.Copy()
	root := findRundown(out)
	if root == nil {
		return nil, stats, rundown.Errorf(rundown.ESCHEMA, "expected root rundown object not found")
	}

	c := &cleaner{whitelist: whitelist, stats: &stats}

	c.clean(root.SelectElement(rundown.TagHeader))

	for _, record := range root.FindElements(".//" + rundown.TagRecord) {
		c.clean(record)
	}

	objects := append([]*etree.Element{root}, root.FindElements(".//"+rundown.TagObject)...)
	for _, obj := range objects {
		c.clean(obj.SelectElement(rundown.TagHeader))
		c.clean(obj)
	}

	return out, stats, nil
}

type cleaner struct {
	whitelist rundown.FieldWhitelist
	stats     *rundown.PruneStats
}

// clean removes empty fields, non-whitelisted fields and uplinks among the
// direct children of container. A nil container is already clean.
func (c *cleaner) clean(container *etree.Element) {
	if container == nil {
		return
	}

	for _, child := range container.SelectElements(rundown.TagField) {
		if child.SelectAttrValue(rundown.AttrIsEmpty, "") == "yes" {
			container.RemoveChild(child)
			c.stats.EmptyFields++
		}
	}

	for _, child := range container.SelectElements(rundown.TagField) {
		id := rundown.FieldID(child.SelectAttrValue(rundown.AttrFieldID, ""))
		if !c.whitelist.Contains(id) {
			container.RemoveChild(child)
			c.stats.UnknownFields++
		}
	}

	for _, child := range container.SelectElements(rundown.TagUplink) {
		container.RemoveChild(child)
		c.stats.Uplinks++
	}
}

// Ensure Pruner implements rundown.ContentPruner.
var _ rundown.ContentPruner = (*Pruner)(nil)

// Pruner implements rundown.ContentPruner over serialized exports.
type Pruner struct {
	whitelist rundown.FieldWhitelist
}

// NewPruner creates a Pruner retaining the fields of whitelist.
func NewPruner(whitelist rundown.FieldWhitelist) *Pruner {
	return &Pruner{whitelist: whitelist}
}

// Prune reads an export from r and writes its pruned form to w.
func (p *Pruner) Prune(ctx context.Context, r io.Reader, w io.Writer) (rundown.PruneStats, error) {
	if err := ctx.Err(); err != nil {
		return rundown.PruneStats{}, err
	}

	doc, err := ReadDocument(r)
	if err != nil {
		return rundown.PruneStats{}, err
	}

	out, stats, err := Prune(doc, p.whitelist)
	if err != nil {
		return stats, err
	}

	return stats, WriteDocument(out, w)
}
