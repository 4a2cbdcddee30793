// Package libdiff computes structural differences between documents.
//
// Diff returns an ordered list of Changes. Applying the list in order with
// Apply turns the first document into the second; Reverse inverts it.
// Arrays are aligned by content, so an insertion in the middle of an array
// is a single Insert rather than a cascade of replacements. Strings that
// change only in part carry text Edits.
package libdiff
