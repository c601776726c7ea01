package complaints

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenTester func(string) bool

// Tokenizer splits raw text into word and punctuation tokens with byte
// offsets into the text.
type Tokenizer interface {
	Tokenize(string) []*Token
}

// iterTokenizer splits raw complaint text into words. It keeps emoticons,
// negated contractions and punctuation as their own tokens, which the lexicon
// scorer relies on.
type iterTokenizer struct {
	specialRE      *regexp.Regexp
	sanitizer      *strings.Replacer
	contractions   []string
	splitCases     []string
	suffixes       []string
	prefixes       []string
	emoticons      map[string]float64
	isUnsplittable TokenTester
}

type TokenizerOptFunc func(*iterTokenizer)

// UsingIsUnsplittable gives a function that tests whether a token is splittable or not.
func UsingIsUnsplittable(x TokenTester) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.isUnsplittable = x
	}
}

// KeepWhole returns a TokenTester matching the given tokens, ignoring case.
func KeepWhole(tokens ...string) TokenTester {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[strings.ToLower(tok)] = struct{}{}
	}
	return func(token string) bool {
		_, ok := set[strings.ToLower(token)]
		return ok
	}
}

// Use the provided map of emoticons and their valences.
func UsingEmoticons(x map[string]float64) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.emoticons = x
	}
}

// NewIterTokenizer returns the default tokenizer.
func NewIterTokenizer(opts ...TokenizerOptFunc) *iterTokenizer {
	tok := new(iterTokenizer)

	tok.contractions = contractions
	tok.emoticons = emoticons
	tok.isUnsplittable = func(_ string) bool { return false }
	tok.prefixes = prefixes
	tok.sanitizer = sanitizer
	tok.specialRE = internalRE
	tok.suffixes = suffixes

	for _, applyOpt := range opts {
		applyOpt(tok)
	}

	tok.splitCases = append(tok.splitCases, tok.contractions...)

	return tok
}

// EmoticonValence returns the valence of an emoticon token, or 0 when the
// token is not a known emoticon.
func (t *iterTokenizer) EmoticonValence(token string) float64 {
	return t.emoticons[token]
}

func addTokenWithOffset(s string, start int, toks []*Token) []*Token {
	if strings.TrimSpace(s) != "" {
		toks = append(toks, &Token{Text: s, Start: start, End: start + len(s)})
	}
	return toks
}

func (t *iterTokenizer) isSpecial(token string) bool {
	_, found := t.emoticons[token]
	return found || t.specialRE.MatchString(token) || t.isUnsplittable(token)
}

func (t *iterTokenizer) doSplit(token string, offset int) []*Token {
	tokens := []*Token{}
	suffs := []*Token{}

	last := 0
	for token != "" && utf8.RuneCountInString(token) != last {
		if t.isSpecial(token) {
			// Emoticons and abbreviations stay whole.
			tokens = addTokenWithOffset(token, offset, tokens)
			break
		}
		last = utf8.RuneCountInString(token)
		lower := strings.ToLower(token)
		if hasAnyPrefix(token, t.prefixes) {
			// $100 -> [$, 100]
			tokens = addTokenWithOffset(string(token[0]), offset, tokens)
			token = token[1:]
			offset++
		} else if idx := hasAnyIndex(lower, t.splitCases); idx > -1 {
			// don't -> [do, n't]
			tokens = addTokenWithOffset(token[:idx], offset, tokens)
			offset += idx
			token = token[idx:]
		} else if hasAnySuffix(token, t.suffixes) {
			// Well) -> [Well, )]
			end := offset + len(token) - 1
			suffs = append([]*Token{{Text: string(token[len(token)-1]), Start: end, End: end + 1}}, suffs...)
			token = token[:len(token)-1]
		} else {
			tokens = addTokenWithOffset(token, offset, tokens)
			break
		}
	}

	return append(tokens, suffs...)
}

// Tokenize splits text into tokens. Offsets refer to the sanitized text.
func (t *iterTokenizer) Tokenize(text string) []*Token {
	var tokens []*Token

	clean := t.sanitizer.Replace(text)
	start := -1
	for index, r := range clean {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, t.doSplit(clean[start:index], start)...)
				start = -1
			}
			continue
		}
		if start < 0 {
			start = index
		}
	}
	if start >= 0 {
		tokens = append(tokens, t.doSplit(clean[start:], start)...)
	}

	return tokens
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			return true
		}
	}
	return false
}

func hasAnyIndex(s string, cases []string) int {
	for _, c := range cases {
		if idx := strings.Index(s, c); idx > 0 {
			return idx
		}
	}
	return -1
}

var internalRE = regexp.MustCompile(`^(?:[A-Za-z]\.){2,}$|^[A-Z][a-z]{1,2}\.$`)
var sanitizer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'")
var contractions = []string{"'ll", "'s", "'re", "'m", "n't"}
var suffixes = []string{",", ")", `"`, "]", "!", ";", ".", "?", ":", "'"}
var prefixes = []string{"$", "(", `"`, "["}

// emoticons maps emoticons to a valence on the same scale as lexicon words.
var emoticons = map[string]float64{
	":)":    0.5,
	":-)":   0.5,
	":))":   0.6,
	":-))":  0.6,
	":)))":  0.7,
	":-)))": 0.7,
	":]":    0.5,
	":-]":   0.5,
	"=)":    0.5,
	"(:":    0.5,
	"(=":    0.5,
	":D":    0.7,
	":-D":   0.7,
	"=D":    0.7,
	"8D":    0.6,
	"8-D":   0.6,
	"xD":    0.6,
	"xDD":   0.6,
	"XDD":   0.6,
	":P":    0.3,
	":-p":   0.3,
	";)":    0.4,
	";-)":   0.4,
	"(-;":   0.4,
	"^___^": 0.5,
	":(":    -0.5,
	":-(":   -0.5,
	":((":   -0.6,
	":(((":  -0.7,
	"=(":    -0.5,
	":`(":   -0.6,
	":`-(":  -0.6,
	":-/":   -0.3,
	":/":    -0.3,
	":-|":   -0.1,
	"=|":    -0.1,
	"-__-":  -0.3,
	"v_v":   -0.3,
	"V_V":   -0.3,
	"(ಠ_ಠ)": -0.5,
	"(╯°□°）╯︵┻━┻": -0.8,
}
