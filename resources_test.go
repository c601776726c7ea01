package complaints

import (
	"errors"
	"reflect"
	"testing"
)

func TestStopWordList(t *testing.T) {
	tests := []struct {
		word     string
		expected bool
	}{
		{"the", true},
		{"The", true},
		{"and", true},
		{"i", true},
		{"again", true},
		{"someone", false},
		{"card", false},
		{"stolen", false},
		{"loan", false},
		{"interest", false},
		{"bill", false},
		{"amount", false},
		{"due", false},
		{"call", false},
		{"system", false},
	}

	stop, err := NewStopWordList(English)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		if got := stop.IsStopWord(tt.word); got != tt.expected {
			t.Errorf("IsStopWord(%q): expected %v, got %v", tt.word, tt.expected, got)
		}
	}

	got := stop.Remove([]string{"my", "card", "was", "stolen"})
	if !reflect.DeepEqual(got, []string{"card", "stolen"}) {
		t.Errorf("Unexpected result of Remove: %q", got)
	}
	if stop.Remove(nil) != nil {
		t.Error("Expected nil for no tokens")
	}

	stop.Add(" Bank ", "")
	if !stop.IsStopWord("bank") {
		t.Error("Extra stop word not added")
	}
	if got := stop.Remove([]string{"bank", "card"}); !reflect.DeepEqual(got, []string{"card"}) {
		t.Errorf("Extra stop word not removed: %q", got)
	}
}

func TestLoadResources(t *testing.T) {
	res := loadTestResources(t)

	if res.Language != English {
		t.Errorf("Expected English, got %s", res.Language)
	}
	if res.StopWords == nil || res.Lemmatizer == nil || res.Stemmer == nil || res.Segmenter == nil || res.Vader == nil {
		t.Fatalf("Missing resource: %+v", res)
	}

	lemmas := map[string]string{"stolen": "steal", "cards": "card", "stole": "steal"}
	for word, expected := range lemmas {
		if got := res.Lemmatizer.Lemma(word); got != expected {
			t.Errorf("Lemma(%q): expected %q, got %q", word, expected, got)
		}
	}

	stems := map[string]string{"charges": "charg", "payment": "payment", "disputed": "disput"}
	for word, expected := range stems {
		if got := res.Stemmer.Stem(word); got != expected {
			t.Errorf("Stem(%q): expected %q, got %q", word, expected, got)
		}
	}

	sentences := res.Segmenter.Segment("My card was stolen. The bank did nothing!")
	if len(sentences) != 2 {
		t.Errorf("Expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if res.Segmenter.Segment("   ") != nil {
		t.Error("Expected no sentences for blank text")
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	_, err := LoadResources(Language("xx"))
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("Expected ErrResourceUnavailable, got %v", err)
	}
	var re *ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("Expected a *ResourceError, got %T", err)
	}

	if _, err := NewStopWordList(Language("xx")); !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("Expected ErrResourceUnavailable, got %v", err)
	}
	if _, err := NewSnowballStemmer("klingon"); err == nil {
		t.Error("Expected an error for an unknown stemmer language")
	}

	if IsSupported(Language("xx")) || !IsSupported(English) {
		t.Error("Unexpected support result")
	}
	if !reflect.DeepEqual(SupportedLanguages(), []Language{English}) {
		t.Errorf("Unexpected languages: %v", SupportedLanguages())
	}
}
