package complaints

import (
	"strings"
	"unicode"
)

// A Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// A Stemmer reduces a word to its morphological stem.
type Stemmer interface {
	Stem(word string) string
}

// Normalizer turns complaint text into the canonical token string the
// vectorizer was fitted on: lowercase, letters only, no stop words,
// lemmatized and then stemmed.
type Normalizer struct {
	stopWords  *StopWordList
	lemmatizer Lemmatizer
	stemmer    Stemmer
}

// NormalizerOpt changes how a Normalizer is built.
type NormalizerOpt func(*Normalizer)

// UsingLemmatizer replaces the dictionary lemmatizer.
func UsingLemmatizer(l Lemmatizer) NormalizerOpt {
	return func(n *Normalizer) {
		n.lemmatizer = l
	}
}

// UsingStemmer replaces the snowball stemmer.
func UsingStemmer(s Stemmer) NormalizerOpt {
	return func(n *Normalizer) {
		n.stemmer = s
	}
}

// UsingStopWords replaces the stop word list.
func UsingStopWords(s *StopWordList) NormalizerOpt {
	return func(n *Normalizer) {
		n.stopWords = s
	}
}

// WithExtraStopWords adds words to the stop word list.
func WithExtraStopWords(words ...string) NormalizerOpt {
	return func(n *Normalizer) {
		if n.stopWords != nil {
			n.stopWords.Add(words...)
		}
	}
}

// NewNormalizer builds a Normalizer from loaded language resources.
func NewNormalizer(res *Resources, opts ...NormalizerOpt) *Normalizer {
	n := &Normalizer{}
	if res != nil {
		n.stopWords = res.StopWords
		n.lemmatizer = res.Lemmatizer
		n.stemmer = res.Stemmer
	}
	for _, applyOpt := range opts {
		applyOpt(n)
	}
	return n
}

// Normalize applies every normalization step in order. Empty input yields an
// empty string.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// NormalizeAll normalizes each text.
func (n *Normalizer) NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = n.Normalize(t)
	}
	return out
}

// Tokens returns the normalized tokens of text.
func (n *Normalizer) Tokens(text string) []string {
	tokens := strings.Fields(stripNonLetters(strings.ToLower(text)))
	if len(tokens) == 0 {
		return nil
	}
	if n.stopWords != nil {
		tokens = n.stopWords.Remove(tokens)
	}

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.lemmatizer != nil {
			// Multi-word or hyphenated lemmas would fall outside the letter
			// alphabet and break re-normalization.
			if lemma := n.lemmatizer.Lemma(tok); isASCIIWord(lemma) {
				tok = lemma
			}
		}
		if n.stemmer != nil {
			if stem := n.stemmer.Stem(tok); isASCIIWord(stem) {
				tok = stem
			}
		}
		out = append(out, tok)
	}
	return out
}

// stripNonLetters keeps ASCII letters and whitespace.
func stripNonLetters(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
