// Package validation checks the snippet directories and the snippet trees
// read from them before a sync rewrites anything.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/klauern/snipsync/internal/model"
)

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Options configures validation behavior.
type Options struct {
	// RequireWritePermission checks that the snippet directories are writable
	RequireWritePermission bool
}

// DefaultOptions returns the default validation options.
func DefaultOptions() Options {
	return Options{RequireWritePermission: true}
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that would break a sync
	Errors []error
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge appends other's errors and warnings to r.
func (r *Result) Merge(other *Result) {
	for _, err := range other.Errors {
		r.AddError(err)
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the combined validation error message.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return Errors(r.Errors)
}

// Summary returns a human-readable summary of the validation result.
func (r *Result) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return "All validations passed"
	}
	var msg string
	if r.Valid {
		msg = "Validation passed with warnings"
	} else {
		msg = fmt.Sprintf("Validation failed (%d error(s))", len(r.Errors))
	}
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return msg
}

// ValidateDirs checks the two snippet directories and the backup directory.
// The snippet directories must exist. The backup directory is created on
// demand, so only an existing non-directory is an error.
func ValidateDirs(sublimeDir, rstudioDir, backupDir string, opts Options) *Result {
	result := NewResult()

	for _, dir := range []struct {
		field string
		path  string
	}{
		{"sublime directory", sublimeDir},
		{"rstudio directory", rstudioDir},
	} {
		if err := ValidatePath(dir.path, dir.field); err != nil {
			result.AddError(err)
			continue
		}
		if opts.RequireWritePermission {
			if err := validateWritePermission(dir.path, dir.field); err != nil {
				result.AddError(err)
			}
		}
	}

	if backupDir == "" {
		result.AddWarning("no backup directory configured")
		return result
	}
	info, err := os.Stat(backupDir)
	switch {
	case err == nil && !info.IsDir():
		result.AddError(&Error{
			Field:   "backup directory",
			Message: fmt.Sprintf("path is not a directory: %s", backupDir),
		})
	case err == nil && opts.RequireWritePermission:
		if err := validateWritePermission(backupDir, "backup directory"); err != nil {
			result.AddError(err)
		}
	case err != nil && !os.IsNotExist(err):
		result.AddError(&Error{
			Field:   "backup directory",
			Message: fmt.Sprintf("cannot access path: %s", backupDir),
			Err:     err,
		})
	}

	return result
}

// ValidateTree checks that the snippets one editor holds can be written
// back and merged. Bodies are not inspected.
func ValidateTree(editor model.Editor, tree model.Tree, scopes model.ScopeMap) *Result {
	result := NewResult()

	if tree.Len() == 0 {
		result.AddWarning(fmt.Sprintf("no %s snippets found", editor))
		return result
	}

	mapped := mappedLanguages(editor, scopes)
	for _, language := range tree.Languages() {
		if !mapped[language] {
			result.AddWarning(fmt.Sprintf("%s language %q is not in the scope map and will not be merged", editor, language))
		}

		sectionsByName := make(map[string][]string)
		for _, section := range tree.Sections(language) {
			for _, name := range tree.Names(language, section) {
				field := fmt.Sprintf("%s %s/%s/%s", editor, language, section, name)
				if err := validateName(editor, name, field); err != nil {
					result.AddError(err)
				}
				if section != model.Uncategorized {
					sectionsByName[name] = append(sectionsByName[name], section)
				}
			}
		}

		for _, name := range sortedNames(sectionsByName) {
			sections := sectionsByName[name]
			if len(sections) < 2 {
				continue
			}
			result.AddWarning(fmt.Sprintf("%s %s snippet %q is filed under several sections (%s); recategorization uses %q",
				editor, language, name, strings.Join(sections, ", "), sections[0]))
		}
	}

	return result
}

// validateName rejects names the editor's writer cannot round-trip.
func validateName(editor model.Editor, name, field string) error {
	if name == "" {
		return &Error{Field: field, Message: "snippet name cannot be empty"}
	}
	switch editor {
	case model.RStudio:
		if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			return &Error{Field: field, Message: "RStudio snippet names cannot contain whitespace"}
		}
	case model.Sublime:
		if strings.ContainsAny(name, `/\`) {
			return &Error{Field: field, Message: "snippet name cannot contain a path separator"}
		}
	}
	return nil
}

func mappedLanguages(editor model.Editor, scopes model.ScopeMap) map[string]bool {
	mapped := make(map[string]bool)
	for _, pair := range scopes.Pairs() {
		if editor == model.Sublime {
			mapped[pair.Scope] = true
		} else {
			mapped[pair.File] = true
		}
	}
	return mapped
}

func sortedNames(m map[string][]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidatePath checks that path names an existing directory.
func ValidatePath(path, field string) error {
	if path == "" {
		return &Error{
			Field:   field,
			Message: "path cannot be empty",
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return &Error{
			Field:   field,
			Message: "cannot convert to absolute path",
			Err:     err,
		}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{
				Field:   field,
				Message: fmt.Sprintf("path does not exist: %s", absPath),
				Err:     err,
			}
		}
		return &Error{
			Field:   field,
			Message: fmt.Sprintf("cannot access path: %s", absPath),
			Err:     err,
		}
	}

	if !info.IsDir() {
		return &Error{
			Field:   field,
			Message: fmt.Sprintf("path is not a directory: %s", absPath),
		}
	}

	return nil
}

// validateWritePermission checks that dir is writable by creating a
// throwaway file in it.
func validateWritePermission(dir, field string) error {
	testFile := filepath.Join(dir, ".snipsync-write-test")
	// #nosec G304 - testFile is constructed from a validated directory
	f, err := os.Create(testFile)
	if err != nil {
		return &Error{
			Field:   field,
			Message: fmt.Sprintf("directory is not writable: %s", dir),
			Err:     err,
		}
	}
	_ = f.Close()
	_ = os.Remove(testFile)
	return nil
}
