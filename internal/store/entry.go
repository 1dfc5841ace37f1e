package store

import (
	"fmt"
	"strings"
	"time"
)

// Pool selects one of the two rotation sets an entry can be drawn from.
type Pool int

const (
	PoolGeneral  Pool = iota // every entry
	PoolPractice             // entries flagged for practice
)

func (p Pool) String() string {
	switch p {
	case PoolGeneral:
		return "general"
	case PoolPractice:
		return "practice"
	default:
		return fmt.Sprintf("pool(%d)", int(p))
	}
}

// Category is the lexical category of an entry.
type Category string

const (
	CategoryNoun         Category = "noun"
	CategoryPronoun      Category = "pronoun"
	CategoryVerb         Category = "verb"
	CategoryAdjective    Category = "adjective"
	CategoryAdverb       Category = "adverb"
	CategoryPreposition  Category = "preposition"
	CategoryConjunction  Category = "conjunction"
	CategoryInterjection Category = "interjection"
	CategoryPhrasalVerb  Category = "phrasal-verb"
	CategoryOpenCompound Category = "open-compound"
	CategoryIdiom        Category = "idiom"
	CategoryPhrase       Category = "phrase"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryNoun, CategoryPronoun, CategoryVerb, CategoryAdjective,
	CategoryAdverb, CategoryPreposition, CategoryConjunction,
	CategoryInterjection, CategoryPhrasalVerb, CategoryOpenCompound,
	CategoryIdiom, CategoryPhrase,
}

// ParseCategory accepts "phrasal-verb", "PHRASAL_VERB" and "phrasal verb".
func ParseCategory(s string) (Category, error) {
	c := Category(normalizeEnum(s))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// UsageLabel marks the register of an entry (formal, slang, ...).
type UsageLabel string

const (
	LabelFormal   UsageLabel = "formal"
	LabelInformal UsageLabel = "informal"
	LabelSlang    UsageLabel = "slang"
	LabelBritish  UsageLabel = "british"
	LabelAmerican UsageLabel = "american"
	LabelJargon   UsageLabel = "jargon"
	LabelLiterary UsageLabel = "literary"
	LabelArchaic  UsageLabel = "archaic"
	LabelVulgar   UsageLabel = "vulgar"
)

// UsageLabels lists every valid usage label.
var UsageLabels = []UsageLabel{
	LabelFormal, LabelInformal, LabelSlang, LabelBritish, LabelAmerican,
	LabelJargon, LabelLiterary, LabelArchaic, LabelVulgar,
}

// ParseUsageLabel parses a label case-insensitively.
func ParseUsageLabel(s string) (UsageLabel, error) {
	l := UsageLabel(normalizeEnum(s))
	for _, known := range UsageLabels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown usage label %q", s)
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}

// Entry is one testable lexical fact together with its test statistics.
type Entry struct {
	ID         int
	Lexeme     string
	Definition string
	Category   Category
	Collocate  string // empty when absent
	Sentence   string // empty when absent
	Labels     []UsageLabel

	TestCount int     // times tested in the general pool
	MatchSum  float64 // cumulative general-pool match ratio

	WasTested   bool
	ForPractice bool
	// WasPracticed is nil iff ForPractice is false.
	WasPracticed *bool

	CreatedAt time.Time
	UpdatedAt time.Time
	TestedAt  *time.Time
}

// AverageMatch returns MatchSum/TestCount, or 0 for untested entries.
func (e *Entry) AverageMatch() float64 {
	if e.TestCount == 0 {
		return 0
	}
	return e.MatchSum / float64(e.TestCount)
}

// Drawn reports whether the entry has been drawn in the current cycle of pool.
func (e *Entry) Drawn(pool Pool) bool {
	if pool == PoolPractice {
		return e.WasPracticed != nil && *e.WasPracticed
	}
	return e.WasTested
}

// normalizePractice keeps WasPracticed consistent with ForPractice.
func (e *Entry) normalizePractice() {
	switch {
	case !e.ForPractice:
		e.WasPracticed = nil
	case e.WasPracticed == nil:
		f := false
		e.WasPracticed = &f
	}
}

// NewEntry holds the user-supplied fields for creating an entry.
type NewEntry struct {
	Lexeme      string
	Definition  string
	Category    Category
	Collocate   string
	Sentence    string
	Labels      []UsageLabel
	ForPractice bool
}

// MaxSentenceLen is the longest example sentence accepted.
const MaxSentenceLen = 100

var sentenceTerminals = ".?!"

// Validate checks the fields the store cannot enforce on its own.
func (n NewEntry) Validate() error {
	if strings.TrimSpace(n.Lexeme) == "" {
		return fmt.Errorf("lexeme is required")
	}
	if strings.TrimSpace(n.Definition) == "" {
		return fmt.Errorf("definition is required")
	}
	if _, err := ParseCategory(string(n.Category)); err != nil {
		return err
	}
	if n.Sentence != "" {
		if len(n.Sentence) > MaxSentenceLen {
			return fmt.Errorf("sentence exceeds %d characters", MaxSentenceLen)
		}
		if !isSentence(n.Sentence) {
			return fmt.Errorf("sentence must start with a capital letter and end with one of %q", sentenceTerminals)
		}
	}
	return nil
}

func isSentence(s string) bool {
	if len(s) <= 2 {
		return false
	}
	first := []rune(s)[0]
	return strings.ToUpper(string(first)) == string(first) &&
		strings.ToLower(string(first)) != string(first) &&
		strings.ContainsRune(sentenceTerminals, rune(s[len(s)-1]))
}

func joinLabels(labels []UsageLabel) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}

func splitLabels(s string) []UsageLabel {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	labels := make([]UsageLabel, 0, len(parts))
	for _, p := range parts {
		labels = append(labels, UsageLabel(p))
	}
	return labels
}
