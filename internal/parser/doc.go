// Package parser provides the editor-specific snippet readers and writers.
// Each editor (Sublime Text, RStudio) has its own subpackage that knows how
// to turn that editor's files into a model.Tree and back again.
package parser
