package accent

// Entry pairs an accent label with the marker words that suggest it.
type Entry struct {
	Label    string
	Keywords []string
}

// Lexicon is an ordered list of accent entries. The order doubles as the
// tie-break priority: when two labels score the same, the one listed first
// wins. It is built once at startup and never mutated; Classify only reads it.
type Lexicon []Entry

// DefaultLexicon returns the built-in keyword table. Keywords are matched
// case-insensitively as substrings of the transcript, so they must be
// lower-case here.
func DefaultLexicon() Lexicon {
	return Lexicon{
		{Label: "British", Keywords: []string{"colour", "favourite", "realise", "aluminium", "lorry", "biscuit"}},
		{Label: "American", Keywords: []string{"color", "favorite", "realize", "aluminum", "truck", "cookie"}},
		{Label: "Australian", Keywords: []string{"mate", "arvo", "barbie", "brekkie"}},
	}
}
