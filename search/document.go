package search

import (
	"strconv"
	"strings"
	"unicode"

	"league-portal/models"

	"github.com/gosimple/unidecode"
)

// Kind selects which index (and n-gram field) a document or query belongs to.
type Kind string

const (
	KindTeam   Kind = "team"
	KindPlayer Kind = "player"
)

func (k Kind) Valid() bool {
	return k == KindTeam || k == KindPlayer
}

// Document is the denormalised form of one entity.
type Document struct {
	Kind Kind
	ID   int
	// Text is the full-text body shown in search snippets.
	Text string
	// Name is the stored display name.
	Name string
	// Ngram is the source string tokenised into the autocomplete field.
	Ngram string
}

// TeamDocument maps a team onto its search document.
func TeamDocument(t models.Team) Document {
	text := joinNonEmpty("\n",
		t.Name,
		t.ShortName,
		t.ChinaName,
		t.OtherName,
		t.City,
		t.Home,
		t.Coach,
	)
	return Document{
		Kind:  KindTeam,
		ID:    t.ID,
		Text:  text,
		Name:  t.Name,
		Ngram: withTransliteration(t.Name, t.ShortName, t.ChinaName, t.OtherName),
	}
}

// PlayerDocument maps a player onto its search document. teamName may be empty.
func PlayerDocument(p models.Player, teamName string) Document {
	var num string
	if p.Num > 0 {
		num = "#" + strconv.Itoa(p.Num)
	}
	text := joinNonEmpty("\n",
		p.Name,
		p.ChinaName,
		p.Position,
		p.Nation,
		teamName,
		num,
	)
	return Document{
		Kind:  KindPlayer,
		ID:    p.ID,
		Text:  text,
		Name:  p.Name,
		Ngram: withTransliteration(p.Name, p.ChinaName),
	}
}

// withTransliteration appends an ASCII rendering of every non-ASCII value so
// "beijing" finds 北京国安. The syllables are also glued together because
// unidecode emits them space separated.
func withTransliteration(values ...string) string {
	parts := make([]string, 0, len(values)*2)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parts = append(parts, v)
		if isASCII(v) {
			continue
		}
		latin := strings.TrimSpace(unidecode.Unidecode(v))
		if latin == "" {
			continue
		}
		parts = append(parts, latin, strings.Join(strings.Fields(latin), ""))
	}
	return strings.Join(parts, " ")
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
