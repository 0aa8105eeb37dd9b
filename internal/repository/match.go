package repository

import "fmt"

// Infrastructure type terms as stored in infrastruc.infrastruc_type.
const (
	TermSluiceGate       = "ประตูระบายน้ำ"
	TermSluiceGateAbbrev = "ปตร."
	TermWeir             = "ฝาย"
	TermPumpStation      = "สถานีสูบน้ำ"
	TermPumpingPlant     = "โรงสูบน้ำ"
)

// MatchMode selects how type terms are compared.
type MatchMode string

const (
	// MatchSubstring matches a term anywhere in the type (LIKE '%term%').
	MatchSubstring MatchMode = "substring"
	// MatchExact matches the whole type (= 'term').
	MatchExact MatchMode = "exact"
)

// ParseMatchMode returns the mode named s.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(s); m {
	case MatchSubstring, MatchExact:
		return m, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", s)
	}
}

type anchor int

const (
	contains anchor = iota
	suffix
)

// term is one type filter: the word and where it may appear in
// substring mode.
type term struct {
	word   string
	anchor anchor
}

func containsTerm(word string) term { return term{word: word, anchor: contains} }

var (
	weirTerms = []term{containsTerm(TermWeir)}
	pumpTerms = []term{containsTerm(TermPumpStation), containsTerm(TermPumpingPlant)}
	// The abbreviation ends the type text ("... ปตร."), so it is only
	// suffix-anchored.
	gateCountTerms = []term{containsTerm(TermSluiceGate), {word: TermSluiceGateAbbrev, anchor: suffix}}
	gateChartTerms = []term{containsTerm(TermSluiceGate)}
)

// operator returns the SQL comparison for the mode.
func (m MatchMode) operator() string {
	if m == MatchExact {
		return "="
	}
	return "LIKE"
}

// pattern returns the bound value for t under the mode.
func (m MatchMode) pattern(t term) string {
	if m == MatchExact {
		return t.word
	}
	if t.anchor == suffix {
		return "%" + t.word
	}
	return "%" + t.word + "%"
}

// predicate renders "infrastruc_type <op> $n OR ..." starting at
// placeholder first, and returns the bound values.
func (m MatchMode) predicate(terms []term, first int) (string, []any) {
	var sql string
	args := make([]any, 0, len(terms))

	for i, t := range terms {
		if i > 0 {
			sql += " OR "
		}
		sql += fmt.Sprintf("infrastruc_type %s $%d", m.operator(), first+i)
		args = append(args, m.pattern(t))
	}

	return sql, args
}
