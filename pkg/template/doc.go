// Package template implements the pattern engine at the heart of stencil:
// parsing bracketed path patterns into segment sequences, matching concrete
// file paths against them, ranking competing matches by specificity, and
// merging template sets with override precedence.
//
// A pattern is a relative path whose components may embed bracket tokens:
// [name] captures exactly one path component (or one run of filename
// characters), [...name] captures zero or more components greedily. Literal
// text outside brackets matches exactly, and the trailing extension (from
// the last dot of the final component) is always compared literally.
package template
