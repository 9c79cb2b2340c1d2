package genbank

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// Location is the envelope of a feature location in 0-based half-open
// coordinates.
type Location struct {
	Start  int
	End    int
	Strand plasmid.Strand
}

var (
	rangeRe = regexp.MustCompile(`^<?(\d+)(?:\.\.>?(\d+)|\.(\d+)|\^(\d+))?>?$`)

	errRemote = errors.New("remote location")
)

// ParseLocation parses a feature location such as "100..200",
// "complement(<1..>50)" or "join(1..10,complement(20..30))". Compound
// locations collapse to their envelope. Their strand is the common strand of
// the parts, or Unknown when the parts disagree.
func ParseLocation(s string) (Location, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	return parseLocation(s)
}

func parseLocation(s string) (Location, error) {
	if inner, ok := wrapped(s, "complement"); ok {
		loc, err := parseLocation(inner)
		if err != nil {
			return Location{}, err
		}
		loc.Strand = -loc.Strand
		return loc, nil
	}
	for _, op := range []string{"join", "order", "bond"} {
		if inner, ok := wrapped(s, op); ok {
			return parseCompound(inner)
		}
	}
	if strings.Contains(s, ":") {
		return Location{}, errRemote
	}

	m := rangeRe.FindStringSubmatch(s)
	if m == nil {
		return Location{}, fmt.Errorf("invalid location %q", s)
	}
	start, _ := strconv.Atoi(m[1])
	end := start
	for _, g := range m[2:] {
		if g != "" {
			end, _ = strconv.Atoi(g)
		}
	}
	if start < 1 {
		return Location{}, fmt.Errorf("invalid location %q: positions are 1-based", s)
	}
	if end < start {
		start, end = end, start
	}
	return Location{Start: start - 1, End: end, Strand: plasmid.Forward}, nil
}

func parseCompound(s string) (Location, error) {
	var env Location
	var found bool
	strand := plasmid.Unknown
	for _, part := range splitTopLevel(s) {
		loc, err := parseLocation(part)
		if err == errRemote {
			continue
		}
		if err != nil {
			return Location{}, err
		}
		if !found {
			env.Start, env.End = loc.Start, loc.End
			strand = loc.Strand
			found = true
			continue
		}
		env.Start = min(env.Start, loc.Start)
		env.End = max(env.End, loc.End)
		if loc.Strand != strand {
			strand = plasmid.Unknown
		}
	}
	if !found {
		return Location{}, errRemote
	}
	env.Strand = strand
	return env, nil
}

// wrapped returns the argument of op(...) when s has that form.
func wrapped(s, op string) (string, bool) {
	if !strings.HasPrefix(s, op+"(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[len(op)+1 : len(s)-1], true
}

// splitTopLevel splits on commas that are not nested inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, last := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}
