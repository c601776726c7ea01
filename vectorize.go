package complaints

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 5000

var termRE = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer encodes documents as TF-IDF weighted, L2-normalized vectors over
// a bounded vocabulary learned by Fit.
type Vectorizer struct {
	maxFeatures int

	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// VectorizerOpt configures a Vectorizer.
type VectorizerOpt func(*Vectorizer)

// WithMaxFeatures caps the vocabulary at n terms. Values below 1 leave the
// default in place.
func WithMaxFeatures(n int) VectorizerOpt {
	return func(v *Vectorizer) {
		if n > 0 {
			v.maxFeatures = n
		}
	}
}

// NewVectorizer returns an unfitted Vectorizer.
func NewVectorizer(opts ...VectorizerOpt) *Vectorizer {
	v := &Vectorizer{maxFeatures: DefaultMaxFeatures}
	for _, applyOpt := range opts {
		applyOpt(v)
	}
	return v
}

// Fit learns the vocabulary and inverse document frequencies from documents
// and returns their weighted matrix, one row per document. The vocabulary
// keeps the most frequent terms (ties broken alphabetically) and orders
// columns alphabetically.
func (v *Vectorizer) Fit(documents []string) (*SparseMatrix, error) {
	counts := make([]map[string]int, len(documents))
	totals := make(map[string]int)
	for i, doc := range documents {
		counts[i] = termCounts(doc)
		for term, c := range counts[i] {
			totals[term] += c
		}
	}
	if len(totals) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	if len(terms) > v.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if totals[terms[i]] != totals[terms[j]] {
				return totals[terms[i]] > totals[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
	}

	df := make([]float64, len(terms))
	for _, doc := range counts {
		for term := range doc {
			if j, ok := vocabulary[term]; ok {
				df[j]++
			}
		}
	}
	n := float64(len(documents))
	idf := make([]float64, len(terms))
	for j := range idf {
		idf[j] = math.Log((1+n)/(1+df[j])) + 1
	}

	v.vocabulary = vocabulary
	v.terms = terms
	v.idf = idf

	b := newSparseBuilder(len(terms))
	for _, doc := range counts {
		b.addRow(v.weigh(doc))
	}
	return b.build(), nil
}

// Transform encodes one document with the fitted vocabulary. Terms unseen
// during Fit contribute nothing, so the result may be all zeros.
func (v *Vectorizer) Transform(document string) (*mat.VecDense, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	out := mat.NewVecDense(len(v.terms), nil)
	for j, w := range v.weigh(termCounts(document)) {
		out.SetVec(j, w)
	}
	return out, nil
}

// TransformAll encodes documents as a matrix with one row per document.
func (v *Vectorizer) TransformAll(documents []string) (*SparseMatrix, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	b := newSparseBuilder(len(v.terms))
	for _, doc := range documents {
		b.addRow(v.weigh(termCounts(doc)))
	}
	return b.build(), nil
}

// Fitted reports whether Fit has completed.
func (v *Vectorizer) Fitted() bool {
	return len(v.terms) > 0
}

// VocabularySize returns the number of feature columns.
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Vocabulary returns the terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Index returns the column for term.
func (v *Vectorizer) Index(term string) (int, bool) {
	j, ok := v.vocabulary[term]
	return j, ok
}

// weigh maps raw counts to normalized tf-idf weights keyed by column.
func (v *Vectorizer) weigh(counts map[string]int) map[int]float64 {
	cols := make([]int, 0, len(counts))
	for term := range counts {
		if j, ok := v.vocabulary[term]; ok {
			cols = append(cols, j)
		}
	}
	if len(cols) == 0 {
		return nil
	}
	sort.Ints(cols)

	weights := make([]float64, len(cols))
	for k, j := range cols {
		weights[k] = float64(counts[v.terms[j]]) * v.idf[j]
	}
	if norm := floats.Norm(weights, 2); norm > 0 {
		floats.Scale(1/norm, weights)
	}

	out := make(map[int]float64, len(cols))
	for k, j := range cols {
		out[j] = weights[k]
	}
	return out
}

func termCounts(doc string) map[string]int {
	counts := make(map[string]int)
	for _, term := range termRE.FindAllString(strings.ToLower(doc), -1) {
		counts[term]++
	}
	return counts
}
