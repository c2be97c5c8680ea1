package trainer

// Labels names the two sides of a card for display
type Labels struct {
	Language    string
	Term        string // Label of the prompt side
	Translation string // Label of the answer side
	ShowComment bool
}

// NativeLanguage is the language of translations
const NativeLanguage = "Deutsch"

// LabelsFor returns the labels of a language. With showTerm the foreign term is the prompt.
// Grammar comments are shown for every language except English.
func LabelsFor(language string, showTerm bool) Labels {
	switch language {
	case "Latein", "Englisch":
		l := Labels{Language: language, ShowComment: language != "Englisch"}
		if showTerm {
			l.Term, l.Translation = language, NativeLanguage
		} else {
			l.Term, l.Translation = NativeLanguage, language
		}
		return l
	default:
		return Labels{Language: language, Term: "Term", Translation: "Translation", ShowComment: true}
	}
}

// Prompt returns the text to ask and the expected answer for the direction
func Prompt(c Current, showTerm bool) (string, string) {
	if showTerm {
		return c.Term.Text, c.Term.Translation
	}
	return c.Term.Translation, c.Term.Text
}
