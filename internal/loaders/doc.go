// Package loaders provides implementations of the Loader interface for
// the supported document formats. Each loader knows how to extract text
// segments from one format; selection is a static lookup keyed on the
// file extension.
package loaders
