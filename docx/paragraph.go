package docx

import (
	"strings"

	"github.com/beevik/etree"
)

// Alignment is a paragraph justification value.
type Alignment string

// Paragraph alignments
const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// Child order of w:pPr up to the elements we write.
var pPrAfterJc = []string{"textDirection", "textAlignment", "textboxTightWrap",
	"outlineLvl", "divId", "cnfStyle", "rPr", "sectPr", "pPrChange"}

// Paragraph is a w:p element.
type Paragraph struct {
	el  *etree.Element
	doc *Document
}

// Run is a w:r element.
type Run struct {
	el  *etree.Element
	doc *Document
}

// Runs returns the runs that are direct children of the paragraph.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, el := range p.el.SelectElements("w:r") {
		out = append(out, &Run{el: el, doc: p.doc})
	}
	return out
}

// Text returns the concatenated text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// Alignment returns the paragraph's direct justification, if any.
func (p *Paragraph) Alignment() Alignment {
	if ppr := p.el.SelectElement("w:pPr"); ppr != nil {
		if jc := ppr.SelectElement("w:jc"); jc != nil {
			return Alignment(jc.SelectAttrValue("w:val", ""))
		}
	}
	return ""
}

// SetAlignment sets the paragraph's justification.
func (p *Paragraph) SetAlignment(a Alignment) {
	ppr := firstChild(p.el, "w:pPr")
	jc := orderedChild(ppr, "w:jc", pPrAfterJc)
	setVal(jc, string(a))
}

// Clear removes every child except the paragraph properties.
func (p *Paragraph) Clear() {
	removeChildrenExcept(p.el, "pPr")
}

// AddRun appends a run holding text.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{el: p.el.CreateElement("w:r"), doc: p.doc}
	if text != "" {
		r.SetText(text)
	}
	return r
}

// Text returns the run's text. Tabs become "\t" and line breaks "\n". Page
// and column breaks carry no text.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, el := range r.el.ChildElements() {
		if el.Space != "w" {
			continue
		}
		switch el.Tag {
		case "t":
			sb.WriteString(el.Text())
		case "tab":
			sb.WriteString("\t")
		case "br":
			if typ := el.SelectAttrValue("w:type", ""); typ == "page" || typ == "column" {
				continue
			}
			sb.WriteString("\n")
		case "cr":
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// SetText replaces the run's content, drawings included, while keeping its
// run properties. Each "\n" in text becomes a line break.
func (r *Run) SetText(text string) {
	removeChildrenExcept(r.el, "rPr")

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.el.CreateElement("w:br")
		}
		if line == "" {
			continue
		}
		t := r.el.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(line)
	}
}

// firstChild returns the child with tag, creating it as the first child.
func firstChild(parent *etree.Element, tag string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	el := etree.NewElement(tag)
	parent.InsertChildAt(0, el)
	return el
}

// orderedChild returns the child with tag, creating it before the first
// existing sibling whose local name is in after.
func orderedChild(parent *etree.Element, tag string, after []string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	el := etree.NewElement(tag)
	insertOrdered(parent, el, after)
	return el
}

func insertOrdered(parent, el *etree.Element, after []string) {
	for _, sib := range parent.ChildElements() {
		for _, name := range after {
			if sib.Tag == name {
				parent.InsertChildAt(sib.Index(), el)
				return
			}
		}
	}
	parent.AddChild(el)
}

func removeChildrenExcept(el *etree.Element, keep string) {
	for _, c := range el.ChildElements() {
		if c.Space == "w" && c.Tag == keep {
			continue
		}
		el.RemoveChild(c)
	}
}

func setVal(el *etree.Element, v string) {
	el.RemoveAttr("w:val")
	el.CreateAttr("w:val", v)
}
