package complaints

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
)

// SentimentLexicon manages sentiment word lists
type SentimentLexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
	mutex     sync.RWMutex
}

// LexiconEntry represents a word's sentiment information
type LexiconEntry struct {
	Word       string
	Sentiment  float64 // -1 to 1
	Confidence float64 // 0 to 1
	Domain     string
}

// ExternalLexicon represents the JSON structure for external lexicon files
type ExternalLexicon struct {
	Languages map[string]LanguageLexicon `json:"languages"`
}

// LanguageLexicon contains all word categories for a specific language
type LanguageLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
	Positive     []WordEntry     `json:"positive,omitempty"`
	Negative     []WordEntry     `json:"negative,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
}

// WordEntry represents a sentiment word in JSON format
type WordEntry struct {
	Word       string  `json:"word"`
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Domain     string  `json:"domain,omitempty"`
}

// ModifierEntry represents a modifier word in JSON format
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

// LoadSentimentLexicon loads the built-in English lexicon
func LoadSentimentLexicon() *SentimentLexicon {
	lexicon := &SentimentLexicon{}
	lexicon.loadEnglishLexicon()
	lexicon.loadEnglishModifiers()
	lexicon.loadEnglishNegations()
	return lexicon
}

// LoadSentimentLexiconWithExternal loads the built-in lexicon and merges an
// external JSON lexicon over it when externalPath is set.
func LoadSentimentLexiconWithExternal(externalPath string) (*SentimentLexicon, error) {
	lexicon := LoadSentimentLexicon()
	if externalPath != "" {
		if err := lexicon.LoadExternalLexicon(externalPath); err != nil {
			return nil, fmt.Errorf("failed to load external lexicon: %w", err)
		}
	}
	return lexicon, nil
}

// LoadExternalLexicon loads and merges the "english" section of an external
// lexicon file.
func (sl *SentimentLexicon) LoadExternalLexicon(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("error reading lexicon file: %w", err)
	}

	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	sl.mutex.Lock()
	defer sl.mutex.Unlock()
	if langData, exists := external.Languages["english"]; exists {
		sl.mergeLanguageData(langData)
	}
	return nil
}

// mergeLanguageData merges external language data with existing lexicon
func (sl *SentimentLexicon) mergeLanguageData(data LanguageLexicon) {
	entries := make([]WordEntry, 0, len(data.Words)+len(data.Positive)+len(data.Negative))
	entries = append(entries, data.Words...)
	entries = append(entries, data.Positive...)
	entries = append(entries, data.Negative...)
	for _, entry := range entries {
		sl.words[strings.ToLower(entry.Word)] = LexiconEntry{
			Word:       entry.Word,
			Sentiment:  entry.Sentiment,
			Confidence: entry.Confidence,
			Domain:     entry.Domain,
		}
	}

	for _, modifier := range data.Modifiers {
		sl.modifiers[strings.ToLower(modifier.Word)] = modifier.Factor
	}
	for _, intensifier := range data.Intensifiers {
		sl.modifiers[strings.ToLower(intensifier)] = 0.3
	}
	for _, diminisher := range data.Diminishers {
		sl.modifiers[strings.ToLower(diminisher)] = -0.3
	}

	for _, negation := range data.Negations {
		sl.negations[strings.ToLower(negation)] = true
	}
}

// loadEnglishLexicon loads English sentiment words, including the vocabulary
// customers use when describing a problem with a financial product.
func (sl *SentimentLexicon) loadEnglishLexicon() {
	sl.words = map[string]LexiconEntry{
		// Strong positive words
		"excellent":   {Word: "excellent", Sentiment: 0.9, Confidence: 0.95},
		"amazing":     {Word: "amazing", Sentiment: 0.85, Confidence: 0.95},
		"wonderful":   {Word: "wonderful", Sentiment: 0.85, Confidence: 0.95},
		"fantastic":   {Word: "fantastic", Sentiment: 0.85, Confidence: 0.95},
		"outstanding": {Word: "outstanding", Sentiment: 0.9, Confidence: 0.95},
		"perfect":     {Word: "perfect", Sentiment: 0.95, Confidence: 0.95},
		"superb":      {Word: "superb", Sentiment: 0.85, Confidence: 0.95},
		"grateful":    {Word: "grateful", Sentiment: 0.8, Confidence: 0.9},

		// Moderate positive words
		"good":         {Word: "good", Sentiment: 0.6, Confidence: 0.9},
		"great":        {Word: "great", Sentiment: 0.75, Confidence: 0.9},
		"nice":         {Word: "nice", Sentiment: 0.5, Confidence: 0.85},
		"love":         {Word: "love", Sentiment: 0.8, Confidence: 0.9},
		"happy":        {Word: "happy", Sentiment: 0.7, Confidence: 0.9},
		"pleased":      {Word: "pleased", Sentiment: 0.65, Confidence: 0.9},
		"satisfied":    {Word: "satisfied", Sentiment: 0.6, Confidence: 0.9},
		"thank":        {Word: "thank", Sentiment: 0.5, Confidence: 0.85},
		"thanks":       {Word: "thanks", Sentiment: 0.5, Confidence: 0.85},
		"helpful":      {Word: "helpful", Sentiment: 0.6, Confidence: 0.9},
		"resolved":     {Word: "resolved", Sentiment: 0.4, Confidence: 0.8},
		"like":         {Word: "like", Sentiment: 0.5, Confidence: 0.85},
		"best":         {Word: "best", Sentiment: 0.85, Confidence: 0.95},
		"better":       {Word: "better", Sentiment: 0.5, Confidence: 0.85},
		"awesome":      {Word: "awesome", Sentiment: 0.8, Confidence: 0.9},
		"quick":        {Word: "quick", Sentiment: 0.3, Confidence: 0.6},
		"okay":         {Word: "okay", Sentiment: 0.2, Confidence: 0.7},
		"fine":         {Word: "fine", Sentiment: 0.3, Confidence: 0.75},
		"fair":         {Word: "fair", Sentiment: 0.4, Confidence: 0.8},
		"satisfactory": {Word: "satisfactory", Sentiment: 0.4, Confidence: 0.85},

		// Strong negative words
		"terrible":   {Word: "terrible", Sentiment: -0.9, Confidence: 0.95},
		"awful":      {Word: "awful", Sentiment: -0.85, Confidence: 0.95},
		"horrible":   {Word: "horrible", Sentiment: -0.85, Confidence: 0.95},
		"disgusting": {Word: "disgusting", Sentiment: -0.9, Confidence: 0.95},
		"appalling":  {Word: "appalling", Sentiment: -0.9, Confidence: 0.95},
		"atrocious":  {Word: "atrocious", Sentiment: -0.9, Confidence: 0.95},
		"abysmal":    {Word: "abysmal", Sentiment: -0.95, Confidence: 0.95},
		"fraud":      {Word: "fraud", Sentiment: -0.7, Confidence: 0.9},
		"scam":       {Word: "scam", Sentiment: -0.8, Confidence: 0.9},
		"stole":      {Word: "stole", Sentiment: -0.6, Confidence: 0.85},
		"stolen":     {Word: "stolen", Sentiment: -0.6, Confidence: 0.85},
		"furious":    {Word: "furious", Sentiment: -0.85, Confidence: 0.9},

		// Moderate negative words
		"bad":           {Word: "bad", Sentiment: -0.6, Confidence: 0.9},
		"hate":          {Word: "hate", Sentiment: -0.8, Confidence: 0.9},
		"sad":           {Word: "sad", Sentiment: -0.7, Confidence: 0.9},
		"upset":         {Word: "upset", Sentiment: -0.6, Confidence: 0.9},
		"angry":         {Word: "angry", Sentiment: -0.7, Confidence: 0.9},
		"frustrated":    {Word: "frustrated", Sentiment: -0.65, Confidence: 0.9},
		"disappointing": {Word: "disappointing", Sentiment: -0.7, Confidence: 0.9},
		"disappointed":  {Word: "disappointed", Sentiment: -0.65, Confidence: 0.9},
		"poor":          {Word: "poor", Sentiment: -0.65, Confidence: 0.9},
		"wrong":         {Word: "wrong", Sentiment: -0.6, Confidence: 0.85},
		"worst":         {Word: "worst", Sentiment: -0.85, Confidence: 0.95},
		"worse":         {Word: "worse", Sentiment: -0.5, Confidence: 0.85},
		"unfair":        {Word: "unfair", Sentiment: -0.6, Confidence: 0.85},
		"unauthorized":  {Word: "unauthorized", Sentiment: -0.5, Confidence: 0.8},
		"denied":        {Word: "denied", Sentiment: -0.4, Confidence: 0.75},
		"rude":          {Word: "rude", Sentiment: -0.65, Confidence: 0.9},
		"annoying":      {Word: "annoying", Sentiment: -0.65, Confidence: 0.9},
		"fail":          {Word: "fail", Sentiment: -0.7, Confidence: 0.9},
		"failed":        {Word: "failed", Sentiment: -0.6, Confidence: 0.85},
		"failure":       {Word: "failure", Sentiment: -0.75, Confidence: 0.9},
		"problem":       {Word: "problem", Sentiment: -0.3, Confidence: 0.7},
		"error":         {Word: "error", Sentiment: -0.3, Confidence: 0.7},

		// Context-dependent words
		"slow":   {Word: "slow", Sentiment: -0.3, Confidence: 0.6},
		"late":   {Word: "late", Sentiment: -0.3, Confidence: 0.6},
		"delay":  {Word: "delay", Sentiment: -0.3, Confidence: 0.6},
		"easy":   {Word: "easy", Sentiment: 0.3, Confidence: 0.6},
		"hard":   {Word: "hard", Sentiment: -0.2, Confidence: 0.5},
		"cheap":  {Word: "cheap", Sentiment: -0.3, Confidence: 0.6},
		"simple": {Word: "simple", Sentiment: 0.1, Confidence: 0.5},
	}
}

// loadEnglishModifiers loads intensifiers (positive factor) and diminishers
// (negative factor)
func (sl *SentimentLexicon) loadEnglishModifiers() {
	sl.modifiers = map[string]float64{
		"very":         0.3,
		"extremely":    0.5,
		"absolutely":   0.5,
		"totally":      0.4,
		"really":       0.3,
		"so":           0.3,
		"quite":        0.2,
		"incredibly":   0.5,
		"particularly": 0.3,
		"especially":   0.3,
		"super":        0.4,
		"utterly":      0.5,
		"completely":   0.4,

		"slightly":   -0.3,
		"somewhat":   -0.3,
		"rather":     -0.2,
		"fairly":     -0.1,
		"marginally": -0.4,
		"barely":     -0.5,
		"hardly":     -0.5,
		"scarcely":   -0.5,
	}
}

// loadEnglishNegations loads English negation words
func (sl *SentimentLexicon) loadEnglishNegations() {
	sl.negations = map[string]bool{
		"not":       true,
		"no":        true,
		"never":     true,
		"neither":   true,
		"nor":       true,
		"cannot":    true,
		"can't":     true,
		"won't":     true,
		"don't":     true,
		"doesn't":   true,
		"didn't":    true,
		"isn't":     true,
		"aren't":    true,
		"wasn't":    true,
		"weren't":   true,
		"hasn't":    true,
		"haven't":   true,
		"hadn't":    true,
		"wouldn't":  true,
		"shouldn't": true,
		"couldn't":  true,
		"n't":       true,
		"without":   true,
		"nobody":    true,
		"nothing":   true,
		"none":      true,
	}
}

// GetSentiment returns sentiment score for a word
func (sl *SentimentLexicon) GetSentiment(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	if entry, exists := sl.words[word]; exists {
		return entry.Sentiment
	}
	if entry, exists := sl.words[strings.ToLower(word)]; exists {
		return entry.Sentiment
	}
	return 0.0
}

// GetConfidence returns confidence for a word's sentiment
func (sl *SentimentLexicon) GetConfidence(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	if entry, exists := sl.words[strings.ToLower(word)]; exists {
		return entry.Confidence
	}
	return 0.0
}

// IsNegation checks if word is a negation
func (sl *SentimentLexicon) IsNegation(word string) bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.negations[word] || sl.negations[strings.ToLower(word)]
}

// GetModifierStrength returns modifier strength
func (sl *SentimentLexicon) GetModifierStrength(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	if strength, exists := sl.modifiers[strings.ToLower(word)]; exists {
		return strength
	}
	return 0.0
}

// AddCustomWord allows adding domain-specific words
func (sl *SentimentLexicon) AddCustomWord(word string, sentiment, confidence float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.words[strings.ToLower(word)] = LexiconEntry{
		Word:       word,
		Sentiment:  sentiment,
		Confidence: confidence,
		Domain:     "custom",
	}
}

// AddCustomModifier adds a custom modifier
func (sl *SentimentLexicon) AddCustomModifier(word string, strength float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.modifiers[strings.ToLower(word)] = strength
}

// AddCustomNegation adds a custom negation word
func (sl *SentimentLexicon) AddCustomNegation(word string) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.negations[strings.ToLower(word)] = true
}

// GetLexiconSize returns the number of words in the lexicon
func (sl *SentimentLexicon) GetLexiconSize() int {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return len(sl.words)
}

// HasWord checks if a word exists in the lexicon
func (sl *SentimentLexicon) HasWord(word string) bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	_, exists := sl.words[strings.ToLower(word)]
	return exists
}

const (
	valenceScale     = 4.0   // lexicon entries are on [-1, 1]; scores sum on roughly [-4, 4]
	negationFactor   = -0.5  // negation reverses but weakens
	exclamationBoost = 0.292 // per "!" up to maxExclamations
	maxExclamations  = 4
	normalizeAlpha   = 15.0
)

// lexiconScorer scores text with a SentimentLexicon. It is the in-repo
// alternative to VADER and shares its output scale.
type lexiconScorer struct {
	lexicon        *SentimentLexicon
	tokenizer      *iterTokenizer
	negationWindow int
}

func newLexiconScorer(lexicon *SentimentLexicon, negationWindow int, opts ...TokenizerOptFunc) *lexiconScorer {
	if negationWindow <= 0 {
		negationWindow = 3
	}
	return &lexiconScorer{
		lexicon:        lexicon,
		tokenizer:      NewIterTokenizer(opts...),
		negationWindow: negationWindow,
	}
}

// Polarity returns the compound score and the positive, negative and neutral
// proportions of text.
func (ls *lexiconScorer) Polarity(text string) Polarity {
	tokens := ls.tokenizer.Tokenize(text)

	var (
		valences     []float64
		exclamations int
	)
	for i, token := range tokens {
		if token.Text == "!" {
			exclamations++
			continue
		}
		if v := ls.tokenizer.EmoticonValence(token.Text); v != 0 {
			valences = append(valences, v*valenceScale)
			continue
		}
		if !isContentWord(token) {
			continue
		}

		v := ls.lexicon.GetSentiment(token.Text) * valenceScale
		if v != 0 {
			v = ls.applyModifiers(v, tokens, i)
			if ls.checkNegation(tokens, i) {
				v *= negationFactor
			}
		}
		valences = append(valences, v)
	}
	if len(valences) == 0 {
		return Polarity{}
	}

	var sum, pos, neg, neu float64
	for _, v := range valences {
		sum += v
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}

	if exclamations > maxExclamations {
		exclamations = maxExclamations
	}
	emphasis := float64(exclamations) * exclamationBoost
	if sum > 0 {
		sum += emphasis
		pos += emphasis
	} else if sum < 0 {
		sum -= emphasis
		neg -= emphasis
	}

	total := pos + math.Abs(neg) + neu
	out := Polarity{Compound: normalizeValence(sum)}
	if total > 0 {
		out.Positive = math.Abs(pos / total)
		out.Negative = math.Abs(neg / total)
		out.Neutral = math.Abs(neu / total)
	}
	return out
}

// checkNegation reports whether a negation occurs within the window before
// position without an intervening clause boundary.
func (ls *lexiconScorer) checkNegation(tokens []*Token, position int) bool {
	start := position - ls.negationWindow
	if start < 0 {
		start = 0
	}
	for i := position - 1; i >= start; i-- {
		if isClauseBoundary(tokens[i]) {
			return false
		}
		lower := strings.ToLower(tokens[i].Text)
		if ls.lexicon.IsNegation(lower) || strings.HasSuffix(lower, "n't") {
			return true
		}
	}
	return false
}

// applyModifiers adjusts a valence by the nearest intensifier or diminisher
// in the two preceding tokens.
func (ls *lexiconScorer) applyModifiers(valence float64, tokens []*Token, position int) float64 {
	start := position - 2
	if start < 0 {
		start = 0
	}
	for i := position - 1; i >= start; i-- {
		if modifier := ls.lexicon.GetModifierStrength(tokens[i].Text); modifier != 0 {
			return valence * (1 + modifier)
		}
	}
	return valence
}

// normalizeValence maps an unbounded valence sum onto (-1, 1).
func normalizeValence(sum float64) float64 {
	score := sum / math.Sqrt(sum*sum+normalizeAlpha)
	return math.Max(-1, math.Min(1, score))
}

// isContentWord checks if a token contains at least one letter
func isContentWord(token *Token) bool {
	if len(token.Text) <= 1 {
		return false
	}
	for _, r := range token.Text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

var clauseBoundaries = map[string]bool{
	",":        true,
	";":        true,
	":":        true,
	".":        true,
	"!":        true,
	"?":        true,
	"but":      true,
	"however":  true,
	"although": true,
}

// isClauseBoundary checks if a token represents a clause boundary
func isClauseBoundary(token *Token) bool {
	return clauseBoundaries[strings.ToLower(token.Text)]
}
