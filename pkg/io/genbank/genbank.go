// Package genbank reads the header and feature table of GenBank flat files.
//
// Only what a map needs is kept: the LOCUS name, sequence length, topology
// and every feature with its envelope interval, strand and qualifiers. The
// ORIGIN sequence block is skipped.
package genbank

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
)

// Record is one parsed GenBank entry.
type Record struct {
	Name       string
	Length     int
	Circular   bool
	Definition string
	Features   []annotation.Feature
}

// featureIndent is the width of the blank prefix before a feature key.
// Qualifiers and continuation lines are indented further, to column 22.
const featureIndent = 5

// Parse parses a GenBank file held in memory.
func Parse(data []byte) (*Record, error) {
	return Read(bytes.NewReader(data))
}

// Read parses exactly one GenBank record from r.
func Read(r io.Reader) (*Record, error) {
	p := &parser{rec: &Record{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.line++
		if err := p.feed(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
		if p.done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGenBank, err, "read genbank")
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	if !p.sawLocus {
		return nil, errors.New(errors.ErrCodeInvalidGenBank, "missing LOCUS line")
	}
	if !p.sawFeatures {
		return nil, errors.New(errors.ErrCodeInvalidGenBank, "missing FEATURES table")
	}
	return p.rec, nil
}

type section int

const (
	sectionHeader section = iota
	sectionFeatures
	sectionOther
)

type parser struct {
	rec         *Record
	line        int
	section     section
	sawLocus    bool
	sawFeatures bool
	done        bool

	// feature under construction
	cur       *rawFeature
	inQuote   bool
	quoteLine int // line that opened the pending quote
	lastQual  string
	lastIndex int
}

type rawFeature struct {
	key      string
	location string
	line     int
	quals    map[string][]string
	inQuals  bool
}

func (p *parser) feed(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	// Top-level keywords start in column 1. Quoted values only continue on
	// indented lines, so a keyword here means the quote was never closed.
	if line[0] != ' ' {
		if err := p.flush(); err != nil {
			return err
		}
		keyword := strings.Fields(line)[0]
		switch keyword {
		case "LOCUS":
			if p.sawLocus {
				return errors.New(errors.ErrCodeInvalidGenBank, "line %d: more than one record in file", p.line)
			}
			p.sawLocus = true
			p.parseLocus(line)
			p.section = sectionHeader
		case "DEFINITION":
			p.rec.Definition = strings.TrimSpace(strings.TrimPrefix(line, "DEFINITION"))
			p.section = sectionHeader
		case "FEATURES":
			if !p.sawLocus {
				return errors.New(errors.ErrCodeInvalidGenBank, "line %d: FEATURES before LOCUS", p.line)
			}
			p.sawFeatures = true
			p.section = sectionFeatures
		case "//":
			p.done = true
		default:
			p.section = sectionOther
		}
		return nil
	}

	if p.section != sectionFeatures {
		return nil
	}

	if !p.inQuote && len(line) > featureIndent && strings.TrimSpace(line[:featureIndent]) == "" && line[featureIndent] != ' ' {
		if err := p.flush(); err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return errors.New(errors.ErrCodeInvalidGenBank, "line %d: feature %q has no location", p.line, fields[0])
		}
		p.cur = &rawFeature{
			key:      fields[0],
			location: strings.Join(fields[1:], ""),
			line:     p.line,
			quals:    make(map[string][]string),
		}
		return nil
	}

	if p.cur == nil {
		return errors.New(errors.ErrCodeInvalidGenBank, "line %d: qualifier outside of a feature", p.line)
	}
	p.continuation(strings.TrimSpace(line))
	return nil
}

// continuation handles a line indented to the qualifier column.
func (p *parser) continuation(text string) {
	f := p.cur
	switch {
	case p.inQuote:
		p.appendValue(text)
	case strings.HasPrefix(text, "/"):
		f.inQuals = true
		p.startQualifier(text[1:])
	case !f.inQuals:
		f.location += strings.ReplaceAll(text, " ", "")
	default:
		// unquoted value wrapped onto the next line
		p.appendValue(text)
	}
}

func (p *parser) startQualifier(text string) {
	key, value, hasValue := strings.Cut(text, "=")
	p.lastQual = key
	if !hasValue {
		p.cur.quals[key] = append(p.cur.quals[key], "")
		p.lastIndex = len(p.cur.quals[key]) - 1
		return
	}
	if strings.HasPrefix(value, `"`) {
		value = value[1:]
		if closed, v := closeQuote(value); closed {
			value = v
		} else {
			p.inQuote = true
			p.quoteLine = p.line
		}
	}
	p.cur.quals[key] = append(p.cur.quals[key], unescape(value))
	p.lastIndex = len(p.cur.quals[key]) - 1
}

func (p *parser) appendValue(text string) {
	vals := p.cur.quals[p.lastQual]
	if p.inQuote {
		if closed, v := closeQuote(text); closed {
			text = v
			p.inQuote = false
		}
	}
	if text == "" {
		return
	}
	sep := " "
	if p.lastQual == "translation" {
		sep = ""
	}
	if vals[p.lastIndex] == "" {
		sep = ""
	}
	vals[p.lastIndex] += sep + unescape(text)
}

// closeQuote reports whether s ends the quoted value, returning s without
// the closing quote. Doubled quotes are escapes, not terminators.
func closeQuote(s string) (bool, string) {
	if !strings.HasSuffix(s, `"`) {
		return false, s
	}
	trailing := len(s) - len(strings.TrimRight(s, `"`))
	if trailing%2 == 1 {
		return true, s[:len(s)-1]
	}
	return false, s
}

func unescape(s string) string { return strings.ReplaceAll(s, `""`, `"`) }

func (p *parser) flush() error {
	if p.cur == nil {
		return nil
	}
	if p.inQuote {
		return errors.New(errors.ErrCodeInvalidGenBank, "line %d: unterminated quoted qualifier /%s", p.quoteLine, p.lastQual)
	}
	f := p.cur
	p.cur = nil

	loc, err := ParseLocation(f.location)
	if err == errRemote {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGenBank, err, "line %d: feature %s", f.line, f.key)
	}
	p.rec.Features = append(p.rec.Features, annotation.Feature{
		Type:       f.key,
		Start:      loc.Start,
		End:        loc.End,
		Strand:     loc.Strand,
		Qualifiers: f.quals,
	})
	return nil
}

// parseLocus reads name, length and topology from the LOCUS line. Older and
// newer column layouts differ, so fields are matched by content.
func (p *parser) parseLocus(line string) {
	fields := strings.Fields(line)
	if len(fields) > 1 {
		p.rec.Name = fields[1]
	}
	for i, f := range fields {
		if (f == "bp" || f == "aa") && i > 0 {
			if n, err := strconv.Atoi(fields[i-1]); err == nil {
				p.rec.Length = n
			}
		}
		if strings.EqualFold(f, "circular") {
			p.rec.Circular = true
		}
	}
}

// String renders a compact description, used in logs.
func (r *Record) String() string {
	topology := "linear"
	if r.Circular {
		topology = "circular"
	}
	return fmt.Sprintf("%s (%d bp, %s, %d features)", r.Name, r.Length, topology, len(r.Features))
}
