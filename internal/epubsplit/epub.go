// Package epubsplit extracts numbered chapters from an EPUB file into the
// per-chapter text files the rest of the pipeline consumes.
package epubsplit

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// tocEntry is one table-of-contents item: a display title and the document
// it points at.
type tocEntry struct {
	Title string
	Href  string
}

// book is an opened EPUB archive with its package metadata parsed.
type book struct {
	reader *zip.ReadCloser
	files  map[string]*zip.File

	opfDir string
	toc    []tocEntry
	spine  []string // document hrefs in reading order, resolved
}

func openBook(epubPath string) (*book, error) {
	r, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB %s: %w", epubPath, err)
	}

	b := &book{
		reader: r,
		files:  make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		b.files[path.Clean(f.Name)] = f
	}

	if err := b.parsePackage(); err != nil {
		r.Close()
		return nil, err
	}
	return b, nil
}

func (b *book) Close() error {
	return b.reader.Close()
}

// readFile returns the decompressed contents of an archive member.
func (b *book) readFile(name string) ([]byte, error) {
	f, ok := b.files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("no such file in EPUB: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// resolve joins a manifest href against the OPF directory and strips any
// fragment.
func (b *book) resolve(href string) string {
	href, _, _ = strings.Cut(href, "#")
	return path.Clean(path.Join(b.opfDir, href))
}

type containerXML struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfPackage struct {
	Items []opfItem `xml:"manifest>item"`
	Spine struct {
		Toc      string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type ncxNavPoint struct {
	Label   string `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

type ncxDocument struct {
	NavPoints []ncxNavPoint `xml:"navMap>navPoint"`
}

// parsePackage locates the OPF via META-INF/container.xml and loads the
// spine and table of contents (NCX first, EPUB3 nav document as fallback).
func (b *book) parsePackage() error {
	containerData, err := b.readFile("META-INF/container.xml")
	if err != nil {
		return fmt.Errorf("not a valid EPUB: %w", err)
	}

	var c containerXML
	if err := xml.Unmarshal(containerData, &c); err != nil {
		return fmt.Errorf("failed to parse container.xml: %w", err)
	}
	if len(c.Rootfiles) == 0 {
		return fmt.Errorf("container.xml names no rootfile")
	}

	opfPath := c.Rootfiles[0].FullPath
	b.opfDir = path.Dir(opfPath)
	if b.opfDir == "." {
		b.opfDir = ""
	}

	opfData, err := b.readFile(opfPath)
	if err != nil {
		return fmt.Errorf("failed to read package document: %w", err)
	}
	var pkg opfPackage
	if err := xml.Unmarshal(opfData, &pkg); err != nil {
		return fmt.Errorf("failed to parse package document: %w", err)
	}

	itemsByID := make(map[string]opfItem, len(pkg.Items))
	for _, item := range pkg.Items {
		itemsByID[item.ID] = item
	}

	for _, ref := range pkg.Spine.ItemRefs {
		if item, ok := itemsByID[ref.IDRef]; ok {
			b.spine = append(b.spine, b.resolve(item.Href))
		}
	}

	b.toc = b.loadTOC(pkg, itemsByID)
	return nil
}

func (b *book) loadTOC(pkg opfPackage, itemsByID map[string]opfItem) []tocEntry {
	// NCX: either the spine's toc reference or any NCX-typed manifest item.
	ncxHref := ""
	if item, ok := itemsByID[pkg.Spine.Toc]; ok {
		ncxHref = item.Href
	} else {
		for _, item := range pkg.Items {
			if item.MediaType == "application/x-dtbncx+xml" {
				ncxHref = item.Href
				break
			}
		}
	}
	if ncxHref != "" {
		if entries := b.parseNCX(ncxHref); len(entries) > 0 {
			return entries
		}
	}

	// EPUB3 nav document.
	for _, item := range pkg.Items {
		if strings.Contains(item.Properties, "nav") {
			if entries := b.parseNavDoc(item.Href); len(entries) > 0 {
				return entries
			}
		}
	}
	return nil
}

func (b *book) parseNCX(href string) []tocEntry {
	data, err := b.readFile(b.resolve(href))
	if err != nil {
		return nil
	}
	var doc ncxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil
	}

	var entries []tocEntry
	var flatten func(points []ncxNavPoint)
	flatten = func(points []ncxNavPoint) {
		for _, p := range points {
			title := strings.TrimSpace(p.Label)
			if title != "" && p.Content.Src != "" {
				entries = append(entries, tocEntry{Title: title, Href: p.Content.Src})
			}
			flatten(p.Children)
		}
	}
	flatten(doc.NavPoints)
	return entries
}

func (b *book) parseNavDoc(href string) []tocEntry {
	data, err := b.readFile(b.resolve(href))
	if err != nil {
		return nil
	}
	return extractNavLinks(data)
}
