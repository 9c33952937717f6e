package ranking

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`\w\w+`)

// englishStopWords are dropped during tokenization; they carry no
// relevance signal and would otherwise dominate the term space.
var englishStopWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"against": true, "all": true, "also": true, "am": true, "an": true,
	"and": true, "any": true, "are": true, "as": true, "at": true,
	"be": true, "because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "by": true,
	"can": true, "cannot": true, "could": true, "did": true, "do": true,
	"does": true, "doing": true, "down": true, "during": true, "each": true,
	"few": true, "for": true, "from": true, "further": true, "had": true,
	"has": true, "have": true, "having": true, "he": true, "her": true,
	"here": true, "hers": true, "herself": true, "him": true, "himself": true,
	"his": true, "how": true, "i": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "itself": true,
	"just": true, "me": true, "more": true, "most": true, "my": true,
	"myself": true, "no": true, "nor": true, "not": true, "now": true,
	"of": true, "off": true, "on": true, "once": true, "only": true,
	"or": true, "other": true, "our": true, "ours": true, "ourselves": true,
	"out": true, "over": true, "own": true, "same": true, "she": true,
	"should": true, "so": true, "some": true, "such": true, "than": true,
	"that": true, "the": true, "their": true, "theirs": true, "them": true,
	"themselves": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "those": true, "through": true, "to": true,
	"too": true, "under": true, "until": true, "up": true, "very": true,
	"was": true, "we": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "who": true, "whom": true,
	"why": true, "will": true, "with": true, "would": true, "you": true,
	"your": true, "yours": true, "yourself": true, "yourselves": true,
}

// tokenize lowercases the text and returns word tokens of two or more
// characters, with stop words removed
func tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if !englishStopWords[tok] {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// sparseVector is a term-index → weight mapping, L2-normalized after fit
type sparseVector map[int]float64

// vectorizer builds smoothed TF-IDF vectors over a document set. The
// vocabulary is capped to the most frequent terms across the corpus.
type vectorizer struct {
	maxFeatures int
}

func newVectorizer(maxFeatures int) *vectorizer {
	return &vectorizer{maxFeatures: maxFeatures}
}

// fitTransform learns the vocabulary and IDF weights from the documents
// and returns one normalized vector per document, in input order.
func (v *vectorizer) fitTransform(docs []string) []sparseVector {
	counts := make([]map[string]int, len(docs))
	totals := map[string]int{}
	for i, doc := range docs {
		counts[i] = map[string]int{}
		for _, tok := range tokenize(doc) {
			counts[i][tok]++
			totals[tok]++
		}
	}

	// Cap the vocabulary to the corpus-wide most frequent terms
	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.maxFeatures > 0 && len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}

	// Smoothed document frequencies
	df := make([]int, len(terms))
	for _, c := range counts {
		for term := range c {
			if idx, ok := vocab[term]; ok {
				df[idx]++
			}
		}
	}
	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]sparseVector, len(docs))
	for i, c := range counts {
		vec := sparseVector{}
		for term, count := range c {
			if idx, ok := vocab[term]; ok {
				vec[idx] = float64(count) * idf[idx]
			}
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors
}

// normalize scales a vector to unit L2 length in place
func normalize(vec sparseVector) {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for idx, w := range vec {
		vec[idx] = w / norm
	}
}

// cosine returns the cosine similarity of two normalized vectors
func cosine(a, b sparseVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot
}
