package docx

import (
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
)

// Composer concatenates documents into one. The merged document starts as a
// copy of a template with its body emptied, so page size, margins,
// orientation, styles and numbering all come from the template.
type Composer struct {
	master *Document
}

// NewComposer starts a merged document from template. The template's body
// content is dropped; its final section properties are kept.
func NewComposer(template *Document) *Composer {
	for _, el := range template.bodyContent() {
		template.body.RemoveChild(el)
	}
	return &Composer{master: template}
}

// Document returns the merged document.
func (c *Composer) Document() *Document {
	return c.master
}

// Append copies the body content of src, except its section properties, to
// the end of the merged document. Images and other related parts are copied
// along and their relationship IDs rewritten.
func (c *Composer) Append(src *Document) error {
	c.copyNamespaces(src)

	ids := make(map[string]string)
	for _, el := range src.bodyContent() {
		cp := el.Copy()
		if err := c.remap(src, cp, ids); err != nil {
			return err
		}
		c.master.appendToBody(cp)
	}

	c.renumberDrawings()
	return nil
}

// Save writes the merged document.
func (c *Composer) Save(path string) error {
	return c.master.Save(path)
}

// copyNamespaces declares on the master root any prefix src declares.
func (c *Composer) copyNamespaces(src *Document) {
	root := c.master.main.Root()
	for _, attr := range src.main.Root().Attr {
		if attr.Space != "xmlns" {
			continue
		}
		if root.SelectAttr("xmlns:"+attr.Key) == nil {
			root.CreateAttr("xmlns:"+attr.Key, attr.Value)
		}
	}
}

// remap rewrites every r:* attribute in el to a relationship of the master.
func (c *Composer) remap(src *Document, el *etree.Element, ids map[string]string) error {
	elements := append([]*etree.Element{el}, el.FindElements(".//*")...)
	for _, e := range elements {
		for i := range e.Attr {
			if e.Attr[i].Space != "r" {
				continue
			}
			oldID := e.Attr[i].Value
			newID, ok := ids[oldID]
			if !ok {
				var err error
				if newID, err = c.copyRelationship(src, oldID); err != nil {
					return err
				}
				ids[oldID] = newID
			}
			if newID != "" {
				e.Attr[i].Value = newID
			}
		}
	}
	return nil
}

// copyRelationship recreates relationship id of src in the master and
// returns the new ID, or "" when src has no such relationship.
func (c *Composer) copyRelationship(src *Document, id string) (string, error) {
	rel := src.relationship(id)
	if rel == nil {
		return "", nil
	}

	relType := rel.SelectAttrValue("Type", "")
	target := rel.SelectAttrValue("Target", "")
	if rel.SelectAttrValue("TargetMode", "") == "External" {
		return c.master.addRelationship(relType, target, true), nil
	}

	name := strings.TrimPrefix(target, "/")
	if !strings.HasPrefix(target, "/") {
		name = path.Join("word", target)
	}
	data, ok := src.parts[name]
	if !ok {
		return "", fmt.Errorf("relationship %s points at missing part %s", id, name)
	}

	ext := strings.TrimPrefix(path.Ext(name), ".")
	if relType == relTypeImage {
		return c.master.addMedia(data, strings.ToLower(ext))
	}

	stem := strings.TrimRight(strings.TrimSuffix(name, path.Ext(name)), "0123456789")
	newName := c.master.uniquePartName(stem, ext)
	c.master.setPart(newName, data)
	if ct := src.contentTypeOf(name); ct != "" {
		c.master.ensureOverride(newName, ct)
	}
	return c.master.addRelationship(relType, strings.TrimPrefix(newName, "word/"), false), nil
}

// renumberDrawings gives every drawing a unique id.
func (c *Composer) renumberDrawings() {
	n := 0
	for _, docPr := range c.master.main.FindElements("//wp:docPr") {
		n++
		docPr.CreateAttr("id", fmt.Sprint(n))
	}
	c.master.maxDoc = n
}

// ensureOverride registers a content type for a single part.
func (d *Document) ensureOverride(name, contentType string) {
	o := d.types.Root().CreateElement("Override")
	o.CreateAttr("PartName", "/"+name)
	o.CreateAttr("ContentType", contentType)
}

// Concatenate merges the documents at paths into one saved at out, taking
// page layout and styles from the template at templatePath. Page breaks
// closing the last part are dropped.
func Concatenate(templatePath string, paths []string, out string) error {
	tpl, err := Open(templatePath)
	if err != nil {
		return fmt.Errorf("opening template: %w", err)
	}

	c := NewComposer(tpl)
	for _, p := range paths {
		doc, err := Open(p)
		if err != nil {
			return err
		}
		if err := c.Append(doc); err != nil {
			return fmt.Errorf("appending %s: %w", p, err)
		}
	}

	c.Document().TrimTrailingPageBreaks()
	return c.Save(out)
}
