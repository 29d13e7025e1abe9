package text

import (
	"sort"
	"strings"
)

// defaultWords is the built-in English stopword list.
var defaultWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an",
	"and", "any", "are", "aren't", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "can't", "cannot", "com",
	"could", "couldn't", "did", "didn't", "do", "does", "doesn't", "doing", "don't", "down",
	"during", "each", "else", "ever", "few", "for", "from", "further", "get", "had",
	"hadn't", "has", "hasn't", "have", "haven't", "having", "he", "he'd", "he'll", "he's",
	"hence", "her", "here", "here's", "hers", "herself", "him", "himself", "his", "how",
	"how's", "however", "http", "i", "i'd", "i'll", "i'm", "i've", "if", "in",
	"into", "is", "isn't", "it", "it's", "its", "itself", "just", "k", "let's",
	"like", "me", "more", "most", "mustn't", "my", "myself", "no", "nor", "not",
	"of", "off", "on", "once", "only", "or", "other", "otherwise", "ought", "our",
	"ours", "ourselves", "out", "over", "own", "r", "same", "shall", "shan't", "she",
	"she'd", "she'll", "she's", "should", "shouldn't", "since", "so", "some", "such", "than",
	"that", "that's", "the", "their", "theirs", "them", "themselves", "then", "there", "there's",
	"therefore", "these", "they", "they'd", "they'll", "they're", "they've", "this", "those", "through",
	"to", "too", "under", "until", "up", "very", "was", "wasn't", "we", "we'd",
	"we'll", "we're", "we've", "were", "weren't", "what", "what's", "when", "when's", "where",
	"where's", "which", "while", "who", "who's", "whom", "why", "why's", "with", "won't",
	"would", "wouldn't", "www", "you", "you'd", "you'll", "you're", "you've", "your", "yours",
	"yourself", "yourselves",
}

var defaultSet = newSet(defaultWords)

// Set is an immutable set of words excluded from frequency counting.
//
// Words are stored as given; Contains compares case-insensitively. The zero
// value is an empty set.
type Set struct {
	words  map[string]struct{}
	folded map[string]struct{}
}

func newSet(words []string) Set {
	s := Set{
		words:  make(map[string]struct{}, len(words)),
		folded: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		s.words[w] = struct{}{}
		s.folded[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Default returns the built-in stopword set. It is shared and never
// modified; With derives new sets from it.
func Default() Set {
	return defaultSet
}

// Stopwords returns the default set extended with a comma-separated list.
// A blank list yields the default set itself.
func Stopwords(extra string) Set {
	words := ParseList(extra)
	if len(words) == 0 {
		return Default()
	}
	return Default().With(words...)
}

// ParseList splits a comma-separated list, trimming spaces and dropping
// empty entries.
func ParseList(list string) []string {
	var words []string
	for _, w := range strings.Split(list, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// With returns a new set holding s and words. s is left untouched.
func (s Set) With(words ...string) Set {
	all := make([]string, 0, len(s.words)+len(words))
	for w := range s.words {
		all = append(all, w)
	}
	return newSet(append(all, words...))
}

// Contains reports whether word, compared case-insensitively, is a stopword.
func (s Set) Contains(word string) bool {
	_, ok := s.folded[strings.ToLower(word)]
	return ok
}

// Has reports whether word is stored in the set exactly as given.
func (s Set) Has(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the number of distinct stored words.
func (s Set) Len() int {
	return len(s.words)
}

// Words returns the stored words sorted.
func (s Set) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
