package complaints

import (
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// SentenceSegmenter splits raw text into sentences using the punkt model
// trained for English.
type SentenceSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSegmenter loads the bundled English punkt parameters.
func NewSentenceSegmenter() (*SentenceSegmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &SentenceSegmenter{tokenizer: tok}, nil
}

// Segment returns the non-empty sentences of text with byte offsets into it.
func (s *SentenceSegmenter) Segment(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []Sentence
	for _, sent := range s.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed == "" {
			continue
		}
		lead := strings.Index(sent.Text, trimmed)
		out = append(out, Sentence{
			Text:  trimmed,
			Start: sent.Start + lead,
			End:   sent.Start + lead + len(trimmed),
		})
	}
	return out
}
