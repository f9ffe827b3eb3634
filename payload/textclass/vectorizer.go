// Package textclass implements a small TF-IDF text classifier. It exists to
// prove out running model inference directly on the kernel: the entire
// pipeline allocates through the kernel allocator and needs no floating
// point support beyond what the Go runtime provides.
package textclass

import (
	"math"
	"sort"
	"strings"
)

// Vectorizer converts documents into TF-IDF feature vectors over a bounded
// vocabulary.
type Vectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	maxFeatures int
}

// NewVectorizer returns a vectorizer that keeps at most maxFeatures terms.
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{
		vocabulary:  make(map[string]int),
		maxFeatures: maxFeatures,
	}
}

// Fit builds the vocabulary from a corpus and computes the per-term inverse
// document frequencies. The vocabulary keeps the terms that appear in the
// most documents; ties break lexicographically so fitting is deterministic.
func (v *Vectorizer) Fit(documents []string) {
	docFreq := make(map[string]int)
	for _, doc := range documents {
		for term := range uniqueTerms(doc) {
			docFreq[term]++
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if docFreq[terms[i]] != docFreq[terms[j]] {
			return docFreq[terms[i]] > docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}

	v.vocabulary = make(map[string]int, len(terms))
	for idx, term := range terms {
		v.vocabulary[term] = idx
	}

	// Smoothed IDF: ln(numDocs/docFreq) + 1 keeps terms present in every
	// document from zeroing out.
	numDocs := float64(len(documents))
	v.idf = make([]float64, len(terms))
	for term, idx := range v.vocabulary {
		v.idf[idx] = math.Log(numDocs/float64(docFreq[term])) + 1
	}
}

// Transform converts a document into its TF-IDF vector. Terms outside the
// fitted vocabulary are dropped.
func (v *Vectorizer) Transform(document string) []float64 {
	features := make([]float64, len(v.vocabulary))
	tokens := tokenize(document)
	if len(tokens) == 0 {
		return features
	}

	for _, token := range tokens {
		if idx, ok := v.vocabulary[token]; ok {
			features[idx]++
		}
	}

	totalTokens := float64(len(tokens))
	for i := range features {
		if features[i] > 0 {
			features[i] = features[i] / totalTokens * v.idf[i]
		}
	}
	return features
}

// VocabularySize returns the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocabulary)
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

func uniqueTerms(doc string) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, token := range tokenize(doc) {
		seen[token] = struct{}{}
	}
	return seen
}
