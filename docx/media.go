package docx

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
)

// Extent is the displayed size of an embedded image.
type Extent struct {
	Width  Length
	Height Length
}

// Content types for media extensions
var mediaContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

const inlineTemplate = `<w:drawing xmlns:w="` + nsW + `" xmlns:wp="` + nsWP + `" xmlns:r="` + nsR + `">
<wp:inline distT="0" distB="0" distL="0" distR="0">
<wp:extent/>
<wp:docPr/>
<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="` + nsA + `" noChangeAspect="1"/></wp:cNvGraphicFramePr>
<a:graphic xmlns:a="` + nsA + `"><a:graphicData uri="` + nsPic + `">
<pic:pic xmlns:pic="` + nsPic + `">
<pic:nvPicPr><pic:cNvPr/><pic:cNvPicPr/></pic:nvPicPr>
<pic:blipFill><a:blip/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>
<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>
</pic:pic>
</a:graphicData></a:graphic>
</wp:inline>
</w:drawing>`

// AddPicture embeds the image file at path in the run. With only one of
// width or height given, the other follows the image's pixel aspect ratio;
// with neither, the image is shown at 72 dpi.
func (r *Run) AddPicture(path string, width, height Length) (Extent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extent{}, fmt.Errorf("reading image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Extent{}, fmt.Errorf("decoding image %s: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Extent{}, fmt.Errorf("image %s has no pixels", path)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	relID, err := r.doc.addMedia(data, ext)
	if err != nil {
		return Extent{}, err
	}

	size := scaleExtent(cfg.Width, cfg.Height, width, height)
	drawing, err := r.doc.inlineDrawing(relID, filepath.Base(path), size)
	if err != nil {
		return Extent{}, err
	}
	r.el.AddChild(drawing)
	return size, nil
}

// scaleExtent resolves the displayed size from pixel dimensions and the
// requested width/height, either of which may be zero.
func scaleExtent(px, py int, width, height Length) Extent {
	switch {
	case width > 0 && height > 0:
		return Extent{Width: width, Height: height}
	case width > 0:
		return Extent{Width: width, Height: Length(int64(width) * int64(py) / int64(px))}
	case height > 0:
		return Extent{Width: Length(int64(height) * int64(px) / int64(py)), Height: height}
	default:
		return Extent{Width: Pt(float64(px)), Height: Pt(float64(py))}
	}
}

// addMedia stores image bytes as a media part and returns the relationship
// ID pointing at it. Identical images share one part.
func (d *Document) addMedia(data []byte, ext string) (string, error) {
	contentType, ok := mediaContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	sum := sha1.Sum(data)
	key := hex.EncodeToString(sum[:])
	if id, ok := d.media[key]; ok {
		return id, nil
	}

	name := d.uniquePartName("word/media/image", ext)
	d.setPart(name, data)
	d.ensureDefaultContentType(ext, contentType)

	id := d.addRelationship(relTypeImage, strings.TrimPrefix(name, "word/"), false)
	d.media[key] = id
	return id, nil
}

// uniquePartName returns prefix+N+"."+ext for the smallest unused N >= 1.
func (d *Document) uniquePartName(prefix, ext string) string {
	for n := 1; ; n++ {
		name := prefix + strconv.Itoa(n) + "." + ext
		if _, ok := d.parts[name]; !ok {
			return name
		}
	}
}

// addRelationship adds a document relationship and returns its ID.
func (d *Document) addRelationship(relType, target string, external bool) string {
	d.maxRel++
	id := "rId" + strconv.Itoa(d.maxRel)

	rel := d.rels.Root().CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	if external {
		rel.CreateAttr("TargetMode", "External")
	}
	return id
}

// relationship returns the Relationship element with id.
func (d *Document) relationship(id string) *etree.Element {
	for _, rel := range d.rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == id {
			return rel
		}
	}
	return nil
}

// ensureDefaultContentType registers a content type for an extension.
func (d *Document) ensureDefaultContentType(ext, contentType string) {
	root := d.types.Root()
	for _, def := range root.SelectElements("Default") {
		if strings.EqualFold(def.SelectAttrValue("Extension", ""), ext) {
			return
		}
	}
	def := etree.NewElement("Default")
	def.CreateAttr("Extension", ext)
	def.CreateAttr("ContentType", contentType)
	root.InsertChildAt(0, def)
}

// contentTypeOf returns the content type registered for a part name.
func (d *Document) contentTypeOf(name string) string {
	root := d.types.Root()
	for _, o := range root.SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == "/"+name {
			return o.SelectAttrValue("ContentType", "")
		}
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for _, def := range root.SelectElements("Default") {
		if strings.EqualFold(def.SelectAttrValue("Extension", ""), ext) {
			return def.SelectAttrValue("ContentType", "")
		}
	}
	return ""
}

// inlineDrawing builds a w:drawing element showing the related image.
func (d *Document) inlineDrawing(relID, name string, size Extent) (*etree.Element, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(strings.ReplaceAll(inlineTemplate, "\n", "")); err != nil {
		return nil, fmt.Errorf("building drawing: %w", err)
	}
	drawing := tree.Root()

	cx := strconv.FormatInt(int64(size.Width), 10)
	cy := strconv.FormatInt(int64(size.Height), 10)
	id := d.nextDocPrID()

	extent := drawing.FindElement(".//wp:extent")
	extent.CreateAttr("cx", cx)
	extent.CreateAttr("cy", cy)

	docPr := drawing.FindElement(".//wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(id))
	docPr.CreateAttr("name", fmt.Sprintf("Picture %d", id))

	cNvPr := drawing.FindElement(".//pic:cNvPr")
	cNvPr.CreateAttr("id", "0")
	cNvPr.CreateAttr("name", name)

	drawing.FindElement(".//a:blip").CreateAttr("r:embed", relID)

	ext := drawing.FindElement(".//a:xfrm/a:ext")
	ext.CreateAttr("cx", cx)
	ext.CreateAttr("cy", cy)

	return drawing, nil
}
