// Package wordcloud lays out and draws word clouds.
//
// Generate takes word frequencies and an optional exclusion mask and places
// each word at a random free spot, largest first. Font sizes follow the
// word's frequency relative to the previous word; a word that does not fit
// is tried in the other orientation, then shrunk step by step until the
// minimum font size is reached.
//
// Free space is tracked with a summed-area table over the canvas, so
// checking whether a box is empty costs four lookups. A seeded random
// source makes a layout reproducible: the same frequencies, mask, font and
// seed always yield the same Cloud and the same pixels.
//
// Glyphs are rasterized with gg on opentype faces; the embedded Go Regular
// font is used unless another TTF/OTF file is loaded.
package wordcloud
