package docx

// SetText writes text into the cell. When the first paragraph already has a
// run, that run's text is replaced so its character formatting survives.
// Otherwise the cell content is replaced by a single unformatted paragraph.
func (c *Cell) SetText(text string) {
	if ps := c.Paragraphs(); len(ps) > 0 {
		if runs := ps[0].Runs(); len(runs) > 0 {
			runs[0].SetText(text)
			return
		}
	}

	c.ClearContent()
	c.AddParagraph().AddRun(text)
}

// ClearText blanks every run of every paragraph, keeping runs and properties.
func (c *Cell) ClearText() {
	for _, p := range c.Paragraphs() {
		for _, r := range p.Runs() {
			r.SetText("")
		}
	}
}

// ClearContent removes everything in the cell except its properties. A cell
// must end in a paragraph, so callers add one afterwards.
func (c *Cell) ClearContent() {
	removeChildrenExcept(c.el, "tcPr")
}

// AddParagraph appends an empty paragraph to the cell.
func (c *Cell) AddParagraph() *Paragraph {
	return &Paragraph{el: c.el.CreateElement("w:p"), doc: c.doc}
}

// SetImage replaces the cell content with a centered paragraph holding the
// image at path, scaled to height with its aspect ratio preserved.
func (c *Cell) SetImage(path string, height Length) error {
	c.ClearContent()
	p := c.AddParagraph()
	if _, err := p.AddRun("").AddPicture(path, 0, height); err != nil {
		// Leave a valid, empty cell behind.
		return err
	}
	p.SetAlignment(AlignCenter)
	return nil
}

// SetImage replaces the paragraph content with the image at path scaled to
// width, keeping the paragraph properties.
func (p *Paragraph) SetImage(path string, width Length) error {
	p.Clear()
	_, err := p.AddRun("").AddPicture(path, width, 0)
	return err
}
