package parser

import "github.com/klauern/snipsync/internal/model"

// Parser reads one editor's snippet directory into a tree
type Parser interface {
	// Parse reads every snippet file in the parser's directory
	Parse() (model.Tree, error)

	// Editor returns the editor format this parser handles
	Editor() model.Editor
}

// Writer serializes a tree into one editor's on-disk format
type Writer interface {
	// Write replaces the editor's snippet files with the content of tree
	// and returns the paths written
	Write(tree model.Tree) ([]string, error)

	// Editor returns the editor format this writer produces
	Editor() model.Editor
}
