package text

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCollocationThreshold is the minimum Dunning log-likelihood score
// for a bigram to be counted as a phrase.
const DefaultCollocationThreshold = 30

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']*`)

// Frequency is a word (or two-word phrase) and how often it occurs.
type Frequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FrequencyOptions controls tokenization and counting.
type FrequencyOptions struct {
	// Collocations counts frequent bigrams as single phrases.
	Collocations         bool
	CollocationThreshold float64

	// NormalizePlurals folds "xs" into "x" when "x" also occurs.
	NormalizePlurals bool

	// IncludeNumbers keeps tokens made only of digits.
	IncludeNumbers bool

	// MinWordLength drops shorter tokens, counted in runes.
	MinWordLength int
}

// DefaultFrequencyOptions returns the options used by the CLI.
func DefaultFrequencyOptions() FrequencyOptions {
	return FrequencyOptions{
		Collocations:         true,
		CollocationThreshold: DefaultCollocationThreshold,
		NormalizePlurals:     true,
	}
}

// Tokenize splits text into words.
//
// A trailing "'s" is removed, tokens made only of digits are dropped
// unless opts.IncludeNumbers is set, and tokens shorter than
// opts.MinWordLength are dropped. Case is preserved.
func Tokenize(text string, opts FrequencyOptions) []string {
	raw := tokenPattern.FindAllString(text, -1)
	words := raw[:0]
	for _, w := range raw {
		if strings.HasSuffix(strings.ToLower(w), "'s") {
			w = w[:len(w)-2]
		}
		if !opts.IncludeNumbers && isDigits(w) {
			continue
		}
		if opts.MinWordLength > 0 && utf8.RuneCountInString(w) < opts.MinWordLength {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Frequencies counts the words of text that are not stopwords.
//
// Spelling variants that differ only in case are fused onto the most
// common variant. The result is ordered by count, highest first; equal
// counts keep the order in which the words first appeared.
func Frequencies(text string, stop Set, opts FrequencyOptions) []Frequency {
	words := Tokenize(text, opts)

	var counts *orderedCounts
	if opts.Collocations {
		counts = unigramsAndBigrams(words, stop, opts)
	} else {
		kept := make([]string, 0, len(words))
		for _, w := range words {
			if !stop.Contains(w) {
				kept = append(kept, w)
			}
		}
		counts, _ = processTokens(kept, opts.NormalizePlurals)
	}

	out := make([]Frequency, 0, len(counts.keys))
	for _, k := range counts.keys {
		if n := counts.n[k]; n > 0 {
			out = append(out, Frequency{Word: k, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// orderedCounts is a counter that remembers insertion order.
type orderedCounts struct {
	keys []string
	n    map[string]int
}

func newOrderedCounts() *orderedCounts {
	return &orderedCounts{n: make(map[string]int)}
}

func (c *orderedCounts) add(key string, delta int) {
	if _, ok := c.n[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.n[key] += delta
}

// processTokens fuses case variants and, optionally, plurals. It returns
// the counts keyed by the representative spelling, and a map from each
// lowercase form (plurals included) to that spelling.
func processTokens(words []string, normalizePlurals bool) (*orderedCounts, map[string]string) {
	var order []string
	cases := make(map[string]*orderedCounts)
	for _, w := range words {
		lower := strings.ToLower(w)
		cc, ok := cases[lower]
		if !ok {
			cc = newOrderedCounts()
			cases[lower] = cc
			order = append(order, lower)
		}
		cc.add(w, 1)
	}

	var merged [][2]string
	if normalizePlurals {
		for _, key := range order {
			if !strings.HasSuffix(key, "s") || strings.HasSuffix(key, "ss") {
				continue
			}
			singular := key[:len(key)-1]
			sd, ok := cases[singular]
			if !ok {
				continue
			}
			pd := cases[key]
			for _, form := range pd.keys {
				sd.add(form[:len(form)-1], pd.n[form])
			}
			merged = append(merged, [2]string{key, singular})
			delete(cases, key)
		}
	}

	fused := newOrderedCounts()
	standard := make(map[string]string, len(cases))
	for _, lower := range order {
		cc, ok := cases[lower]
		if !ok {
			continue
		}
		first, best, total := "", 0, 0
		for _, form := range cc.keys {
			total += cc.n[form]
			if cc.n[form] > best {
				first, best = form, cc.n[form]
			}
		}
		fused.add(first, total)
		standard[lower] = first
	}

	for _, m := range merged {
		standard[m[0]] = standard[m[1]]
	}
	return fused, standard
}

// unigramsAndBigrams counts words and promotes bigrams whose collocation
// score exceeds the threshold to phrases. Bigrams are formed before
// stopwords are dropped and never contain a stopword.
func unigramsAndBigrams(words []string, stop Set, opts FrequencyOptions) *orderedCounts {
	var bigrams, unigrams []string
	for i, w := range words {
		if i+1 < len(words) && !stop.Contains(w) && !stop.Contains(words[i+1]) {
			bigrams = append(bigrams, w+" "+words[i+1])
		}
		if !stop.Contains(w) {
			unigrams = append(unigrams, w)
		}
	}

	nWords := len(unigrams)
	counts, standard := processTokens(unigrams, opts.NormalizePlurals)
	bigramCounts, _ := processTokens(bigrams, opts.NormalizePlurals)

	orig := make(map[string]int, len(counts.n))
	for k, v := range counts.n {
		orig[k] = v
	}

	for _, phrase := range bigramCounts.keys {
		parts := strings.SplitN(phrase, " ", 2)
		if len(parts) != 2 {
			continue
		}
		word1, ok1 := standard[strings.ToLower(parts[0])]
		word2, ok2 := standard[strings.ToLower(parts[1])]
		if !ok1 || !ok2 {
			continue
		}

		count := bigramCounts.n[phrase]
		if collocationScore(count, orig[word1], orig[word2], nWords) > opts.CollocationThreshold {
			counts.add(word1, -count)
			counts.add(word2, -count)
			counts.add(phrase, count-counts.n[phrase])
		}
	}
	return counts
}

// collocationScore is Dunning's likelihood ratio for a bigram seen c12
// times whose words occur c1 and c2 times among n words.
func collocationScore(c12, c1, c2, n int) float64 {
	if n <= c1 || n <= c2 {
		return 0
	}
	N, k12, k1, k2 := float64(n), float64(c12), float64(c1), float64(c2)

	p := k2 / N
	p1 := k12 / k1
	p2 := (k2 - k12) / (N - k1)

	score := logLikelihood(k12, k1, p) + logLikelihood(k2-k12, N-k1, p) -
		logLikelihood(k12, k1, p1) - logLikelihood(k2-k12, N-k1, p2)
	return -2 * score
}

func logLikelihood(k, n, x float64) float64 {
	return math.Log(math.Max(x, 1e-10))*k + math.Log(math.Max(1-x, 1e-10))*(n-k)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
