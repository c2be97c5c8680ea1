package models

// Term represents a foreign-language vocabulary entry
type Term struct {
	Text        string `json:"text" db:"term"`               // Foreign-language term
	Translation string `json:"translation" db:"translation"` // Translation shown as the answer
	Language    string `json:"language" db:"language"`       // Language the term belongs to, e.g. "Latein"
	Category    string `json:"category" db:"category"`       // Lesson or grouping label
	Comment     string `json:"comment" db:"comment"`         // Optional grammar note
}

// TermKey identifies a term. Text is unique within a language.
type TermKey struct {
	Text     string `json:"text" db:"term"`
	Language string `json:"language" db:"language"`
}

// Key returns the identity of the term
func (t Term) Key() TermKey {
	return TermKey{Text: t.Text, Language: t.Language}
}

// TermRecord is a term as yielded by a term source, together with its stored score.
// Level and LastTestedOn are raw values and may be empty or malformed.
type TermRecord struct {
	Term         Term
	Level        string
	LastTestedOn string
}
