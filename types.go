package complaints

import (
	"sort"
	"time"
)

// A Token represents an individual token of raw text such as a word or
// punctuation symbol.
type Token struct {
	Text  string // The token's actual content.
	Start int    // Start position in original text
	End   int    // End position in original text
}

// A Sentence represents a segmented portion of text.
type Sentence struct {
	Text  string // The sentence's text.
	Start int    // Start position in original text
	End   int    // End position in original text
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// Language represents supported languages
type Language string

const (
	English Language = "en"
)

// A Record is one labeled training example.
type Record struct {
	Text  string
	Label string
}

// A Corpus is an ordered, immutable collection of Records.
type Corpus struct {
	Records []Record
}

// NewCorpus builds a Corpus from parallel text and label slices.
func NewCorpus(texts, labels []string) Corpus {
	n := len(texts)
	if len(labels) < n {
		n = len(labels)
	}
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		records[i] = Record{Text: texts[i], Label: labels[i]}
	}
	return Corpus{Records: records}
}

// Len returns the number of records.
func (c Corpus) Len() int {
	return len(c.Records)
}

// Texts returns the record texts in order.
func (c Corpus) Texts() []string {
	out := make([]string, len(c.Records))
	for i, r := range c.Records {
		out[i] = r.Text
	}
	return out
}

// Labels returns the record labels in order.
func (c Corpus) Labels() []string {
	out := make([]string, len(c.Records))
	for i, r := range c.Records {
		out[i] = r.Label
	}
	return out
}

// Classes returns the sorted distinct labels.
func (c Corpus) Classes() []string {
	return uniqueSorted(c.Labels())
}

// Subset returns a corpus holding the records at the given indices.
func (c Corpus) Subset(idx []int) Corpus {
	records := make([]Record, len(idx))
	for i, j := range idx {
		records[i] = c.Records[j]
	}
	return Corpus{Records: records}
}

// SentimentClass represents sentiment categories
type SentimentClass string

const (
	Positive SentimentClass = "Positive"
	Neutral  SentimentClass = "Neutral"
	Negative SentimentClass = "Negative"
)

// ComplaintMetadata contains metadata about an analyzed complaint
type ComplaintMetadata struct {
	Language         Language
	ProcessedAt      time.Time
	ProcessingTimeMs int64
	TokenCount       int // tokens left after normalization
	VocabularyHits   int // tokens that map to a fitted vocabulary column
	SentenceCount    int
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
