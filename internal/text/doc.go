// Package text reads the source text of a word cloud and turns it into
// word frequencies.
//
// Text comes from a plain file or, for image files, from OCR. Frequencies
// are counted after removing stopwords, fusing case variants and simple
// plurals, and optionally promoting frequent two-word phrases.
package text
