package table

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// Entry is one manually entered element. Fields mirror the table columns;
// numbers and booleans may be written either natively or as strings.
type Entry struct {
	Element  string `yaml:"element" json:"element"`
	Start    string `yaml:"start" json:"start"`
	End      string `yaml:"end" json:"end"`
	Position string `yaml:"position" json:"position"`
	Colour   string `yaml:"colour" json:"colour"`
	Color    string `yaml:"color,omitempty" json:"color,omitempty"`
	Arrow    string `yaml:"arrow" json:"arrow"`
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Strand   string `yaml:"strand,omitempty" json:"strand,omitempty"`
	Promoter string `yaml:"promoter,omitempty" json:"promoter,omitempty"`
	Shape    string `yaml:"shape,omitempty" json:"shape,omitempty"`
}

// entryFile is the document form: either a bare list or {elements: [...]}.
type entryFile struct {
	Name     string  `yaml:"name" json:"name,omitempty"`
	Elements []Entry `yaml:"elements" json:"elements"`
}

// ReadEntries reads a YAML (or JSON) list of entries and returns the map
// name, if the document declares one, and the elements.
func ReadEntries(r io.Reader, n *annotation.Normalizer) (string, []plasmid.Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read entries")
	}

	var doc entryFile
	var list []Entry
	if err := yaml.Unmarshal(data, &list); err != nil {
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "parse entries")
		}
		list = doc.Elements
	}

	records := make([]record, 0, len(list))
	for _, e := range list {
		records = append(records, e.record())
	}
	els, err := fromRecords(records, n)
	return doc.Name, els, err
}

// EntryOf converts an element back into an entry, for saving manual lists.
func EntryOf(e plasmid.Element) Entry {
	entry := Entry{
		Element:  e.Name,
		Start:    strconv.Itoa(e.Start),
		End:      strconv.Itoa(e.End),
		Position: e.Side.String(),
		Colour:   e.Color,
		Arrow:    e.Connector.String(),
		Type:     e.Type,
		Shape:    e.Shape.String(),
	}
	if e.Strand != plasmid.Unknown {
		entry.Strand = strconv.Itoa(int(e.Strand))
	}
	if e.IsPromoter {
		entry.Promoter = "true"
	}
	return entry
}

func entryDoc(name string, elements []plasmid.Element) entryFile {
	doc := entryFile{Name: name, Elements: make([]Entry, 0, len(elements))}
	for _, e := range elements {
		doc.Elements = append(doc.Elements, EntryOf(e))
	}
	return doc
}

// WriteEntries writes elements as a YAML entry document.
func WriteEntries(w io.Writer, name string, elements []plasmid.Element) error {
	doc := entryDoc(name, elements)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func (e Entry) record() record {
	colour := e.Colour
	if colour == "" {
		colour = e.Color
	}
	return record{
		Fold(ColElement):     e.Element,
		Fold(ColStart):       e.Start,
		Fold(ColEnd):         e.End,
		Fold(ColPosition):    e.Position,
		Fold(ColColour):      colour,
		Fold(ColArrow):       e.Arrow,
		Fold(ColFeatureType): e.Type,
		Fold(ColStrand):      e.Strand,
		Fold(ColPromoter):    e.Promoter,
		Fold(ColShape):       e.Shape,
	}
}

// WriteEntriesJSON writes the same document as WriteEntries in JSON.
func WriteEntriesJSON(w io.Writer, name string, elements []plasmid.Element) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entryDoc(name, elements))
}
