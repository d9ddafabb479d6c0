package docx

import (
	"encoding/xml"
	"fmt"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string       `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string       `xml:"styleId,attr"`
	Name    styleNameXML `xml:"name"`
}

// styleNameXML represents a style name.
type styleNameXML struct {
	Val string `xml:"val,attr"`
}

// Style is a style defined in the document.
type Style struct {
	ID   string
	Name string
	Type string
}

// Margins are page margins.
type Margins struct {
	Top    Length
	Bottom Length
	Left   Length
	Right  Length
}

// SectionLayout is the page setup of the document's final section.
type SectionLayout struct {
	PageWidth   Length
	PageHeight  Length
	Orientation string // portrait or landscape
	Margins     Margins
}

// Styles returns the styles defined in word/styles.xml.
func (d *Document) Styles() ([]Style, error) {
	data, ok := d.parts[partStyles]
	if !ok {
		return nil, nil
	}

	var doc stylesXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling styles.xml: %w", err)
	}

	out := make([]Style, 0, len(doc.Styles))
	for _, s := range doc.Styles {
		out = append(out, Style{ID: s.StyleID, Name: s.Name.Val, Type: s.Type})
	}
	return out, nil
}

// Section returns the page setup of the body's final section properties.
func (d *Document) Section() SectionLayout {
	var layout SectionLayout
	sect := d.body.SelectElement("w:sectPr")
	if sect == nil {
		return layout
	}

	if sz := sect.SelectElement("w:pgSz"); sz != nil {
		layout.PageWidth = parseTwips(sz.SelectAttrValue("w:w", "0"))
		layout.PageHeight = parseTwips(sz.SelectAttrValue("w:h", "0"))
		layout.Orientation = sz.SelectAttrValue("w:orient", "portrait")
	}

	if mar := sect.SelectElement("w:pgMar"); mar != nil {
		layout.Margins = Margins{
			Top:    parseTwips(mar.SelectAttrValue("w:top", "0")),
			Bottom: parseTwips(mar.SelectAttrValue("w:bottom", "0")),
			Left:   parseTwips(mar.SelectAttrValue("w:left", "0")),
			Right:  parseTwips(mar.SelectAttrValue("w:right", "0")),
		}
	}

	return layout
}
