package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// RStudioSnippetsPath returns the default RStudio snippets directory
func RStudioSnippetsPath() string {
	return filepath.Join(HomeDir(), ".config", "rstudio", "snippets")
}

// RStudioSnippetsPaths returns the directories RStudio has kept user
// snippets in, newest layout first.
func RStudioSnippetsPaths() []string {
	paths := []string{
		RStudioSnippetsPath(),
		filepath.Join(HomeDir(), ".R", "snippets"),
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		paths = append(paths, filepath.Join(appData, "RStudio", "snippets"))
	}
	return paths
}

// SublimeSnippetsPaths returns the usual Sublime Text "Packages/User"
// directories across platforms and major versions, newest first.
func SublimeSnippetsPaths() []string {
	home := HomeDir()
	var paths []string
	for _, name := range []string{"Sublime Text", "Sublime Text 3"} {
		paths = append(paths,
			filepath.Join(home, ".config", strings.ToLower(strings.ReplaceAll(name, " ", "-")), "Packages", "User"),
			filepath.Join(home, "Library", "Application Support", name, "Packages", "User"),
		)
		if appData := os.Getenv("APPDATA"); appData != "" {
			paths = append(paths, filepath.Join(appData, name, "Packages", "User"))
		}
	}
	return paths
}

// BackupsPath returns the backups directory that sits next to the config file
func BackupsPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "backups")
}

// ExpandPath expands a leading ~ and resolves relative paths against baseDir.
// An empty input stays empty.
func ExpandPath(path, baseDir string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		return filepath.Join(baseDir, path)
	}
	return filepath.Clean(path)
}
