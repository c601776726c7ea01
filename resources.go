package complaints

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/bbalet/stopwords"
	"github.com/jonreiter/govader"
	"github.com/kljensen/snowball"
)

// Resources bundles the externally provisioned language data the pipeline
// depends on. All of it is loaded once at startup.
type Resources struct {
	Language   Language
	StopWords  *StopWordList
	Lemmatizer Lemmatizer
	Stemmer    Stemmer
	Segmenter  *SentenceSegmenter
	Vader      *govader.SentimentIntensityAnalyzer
}

// languageInfo holds the per-language names each library expects.
type languageInfo struct {
	stopWordCode string // ISO 639-1 code for bbalet/stopwords
	stopWords    string // newline separated list replacing the library default
	stemmerName  string // snowball language name
	probe        string // a word the stop word list must contain
}

var supportedLanguages = map[Language]languageInfo{
	English: {stopWordCode: "en", stopWords: englishStopWords, stemmerName: "english", probe: "the"},
}

// englishStopWords is the NLTK English list the training corpus was
// preprocessed with. bbalet's built-in list is much longer and drops
// complaint terms such as "interest", "bill" and "amount".
const englishStopWords = `i
me
my
myself
we
our
ours
ourselves
you
you're
you've
you'll
you'd
your
yours
yourself
yourselves
he
him
his
himself
she
she's
her
hers
herself
it
it's
its
itself
they
them
their
theirs
themselves
what
which
who
whom
this
that
that'll
these
those
am
is
are
was
were
be
been
being
have
has
had
having
do
does
did
doing
a
an
the
and
but
if
or
because
as
until
while
of
at
by
for
with
about
against
between
into
through
during
before
after
above
below
to
from
up
down
in
out
on
off
over
under
again
further
then
once
here
there
when
where
why
how
all
any
both
each
few
more
most
other
some
such
no
nor
not
only
own
same
so
than
too
very
s
t
can
will
just
don
don't
should
should've
now
d
ll
m
o
re
ve
y
ain
aren
aren't
couldn
couldn't
didn
didn't
doesn
doesn't
hadn
hadn't
hasn
hasn't
haven
haven't
isn
isn't
ma
mightn
mightn't
mustn
mustn't
needn
needn't
shan
shan't
shouldn
shouldn't
wasn
wasn't
weren
weren't
won
won't
wouldn
wouldn't`

// The library keeps one dictionary per language in package state, so the
// replacement lists are installed once before any list is used.
var stopWordsOnce sync.Once

func installStopWords() {
	stopWordsOnce.Do(func() {
		for _, info := range supportedLanguages {
			if info.stopWords != "" {
				stopwords.LoadStopWordsFromString(info.stopWords, info.stopWordCode, "\n")
			}
		}
	})
}

var (
	lemmatizerOnce sync.Once
	lemmatizerEN   *golem.Lemmatizer
	lemmatizerErr  error
)

// LoadResources loads every language resource for lang. A failure is a
// *ResourceError and should abort startup.
func LoadResources(lang Language) (*Resources, error) {
	info, ok := supportedLanguages[lang]
	if !ok {
		return nil, NewResourceError("language", lang, FormatLanguageError(lang))
	}

	stop, err := NewStopWordList(lang)
	if err != nil {
		return nil, err
	}

	lemmatizer, err := loadLemmatizer(lang)
	if err != nil {
		return nil, err
	}

	stemmer, err := NewSnowballStemmer(info.stemmerName)
	if err != nil {
		return nil, NewResourceError("stemmer", lang, err)
	}

	segmenter, err := NewSentenceSegmenter()
	if err != nil {
		return nil, NewResourceError("sentence tokenizer", lang, err)
	}

	return &Resources{
		Language:   lang,
		StopWords:  stop,
		Lemmatizer: lemmatizer,
		Stemmer:    stemmer,
		Segmenter:  segmenter,
		Vader:      govader.NewSentimentIntensityAnalyzer(),
	}, nil
}

func loadLemmatizer(lang Language) (Lemmatizer, error) {
	if lang != English {
		return nil, NewResourceError("lemmatizer", lang, FormatLanguageError(lang))
	}
	// The English dictionary is large; decode it once per process.
	lemmatizerOnce.Do(func() {
		lemmatizerEN, lemmatizerErr = golem.New(en.New())
	})
	if lemmatizerErr != nil {
		return nil, NewResourceError("lemmatizer", lang, lemmatizerErr)
	}
	return &golemLemmatizer{l: lemmatizerEN}, nil
}

// StopWordList filters stop words through bbalet/stopwords, loaded with the
// corpus stop word list, plus any extra words supplied by the operator.
type StopWordList struct {
	langCode string
	extra    map[string]struct{}
}

// NewStopWordList returns the list for lang. The library silently passes text
// through for unknown languages, so the list is probed before use.
func NewStopWordList(lang Language, extra ...string) (*StopWordList, error) {
	info, ok := supportedLanguages[lang]
	if !ok {
		return nil, NewResourceError("stop words", lang, FormatLanguageError(lang))
	}
	installStopWords()
	list := &StopWordList{langCode: info.stopWordCode, extra: make(map[string]struct{})}
	if !list.IsStopWord(info.probe) {
		return nil, NewResourceError("stop words", lang, fmt.Errorf("probe word %q was not filtered", info.probe))
	}
	list.Add(extra...)
	return list, nil
}

// Add registers extra stop words.
func (s *StopWordList) Add(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s.extra[w] = struct{}{}
		}
	}
}

// IsStopWord reports whether word would be removed.
func (s *StopWordList) IsStopWord(word string) bool {
	if _, ok := s.extra[strings.ToLower(word)]; ok {
		return true
	}
	return strings.TrimSpace(stopwords.CleanString(word, s.langCode, false)) == ""
}

// Remove drops stop words from tokens, preserving order.
func (s *StopWordList) Remove(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	cleaned := stopwords.CleanString(strings.Join(tokens, " "), s.langCode, false)
	kept := strings.Fields(cleaned)
	if len(s.extra) == 0 {
		return kept
	}
	out := kept[:0]
	for _, tok := range kept {
		if _, ok := s.extra[tok]; !ok {
			out = append(out, tok)
		}
	}
	return out
}

type golemLemmatizer struct {
	l *golem.Lemmatizer
}

func (g *golemLemmatizer) Lemma(word string) string {
	return g.l.LemmaLower(word)
}

// SnowballStemmer stems words with the Snowball algorithm for one language.
type SnowballStemmer struct {
	language string
}

// NewSnowballStemmer returns a stemmer for a snowball language name such as
// "english".
func NewSnowballStemmer(language string) (*SnowballStemmer, error) {
	if _, err := snowball.Stem("testing", language, true); err != nil {
		return nil, err
	}
	return &SnowballStemmer{language: language}, nil
}

// Stem returns the stem of word. The language was validated at construction.
func (s *SnowballStemmer) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil {
		return word
	}
	return stemmed
}

// IsSupported checks if a language has a complete resource set
func IsSupported(lang Language) bool {
	_, ok := supportedLanguages[lang]
	return ok
}

// SupportedLanguages returns all supported languages
func SupportedLanguages() []Language {
	return []Language{English}
}

// FormatLanguageError creates a formatted error for unsupported languages
func FormatLanguageError(lang Language) error {
	return fmt.Errorf("language %s is not supported. Supported languages: %v",
		string(lang), SupportedLanguages())
}
