package e2e_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/snipsync/internal/e2e"
)

// seed writes a small library on both sides: a categorized Python snippet
// and an R loop in Sublime Text, an uncategorized Python snippet and two
// R snippets in RStudio.
func seed(h *e2e.Harness) {
	sublime := h.SublimeFixture()
	sublime.WriteSublimeSnippet("source.python", "functions", "defn", "def ${1:name}(${2}):\n    ${0:pass}")
	sublime.WriteSublimeSnippet("source.r", "loops", "whileloop", "while (${1:cond}) {\n\t$0\n}")

	rstudio := h.RStudioFixture()
	rstudio.WriteRStudioSnippets("python.snippets", map[string]map[string]string{
		"": {"defn": "def name():\n    pass"},
	})
	rstudio.WriteRStudioSnippets("r.snippets", map[string]map[string]string{
		"loops": {"forloop": "for (${1:i} in ${2:1:n}) {\n\t$0\n}"},
		"misc":  {"lib": "library(${1:pkg})"},
	})
}

func TestVersionCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("version")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "snipsync version")
}

func TestHelp(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("--help")

	e2e.AssertSuccess(t, result)
	for _, command := range []string{"sync", "copy", "backup", "export", "check", "config"} {
		e2e.AssertOutputContains(t, result, command)
	}
}

func TestSync(t *testing.T) {
	h := e2e.NewHarness(t)
	seed(h)

	result := h.Run("sync")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "rstudio python.snippets: defn -> functions")
	e2e.AssertOutputContains(t, result, "1 recategorized, 3 added, 1 replaced; 6 files written")

	got := strings.Join(h.SublimeFixture().Files(), "\n")
	want := strings.Join([]string{
		"Python FUNCTIONS defn.sublime-snippet",
		"R LOOPS forloop.sublime-snippet",
		"R LOOPS whileloop.sublime-snippet",
		"R MISC lib.sublime-snippet",
	}, "\n")
	if got != want {
		t.Errorf("sublime files:\n%s\nwant:\n%s", got, want)
	}

	e2e.AssertFileContains(t, h.SublimeFixture().Path("Python FUNCTIONS defn.sublime-snippet"), "def name():\n    pass")
	e2e.AssertFileContains(t, h.RStudioFixture().Path("python.snippets"), "## functions\n")
	e2e.AssertFileContains(t, h.RStudioFixture().Path("r.snippets"), "snippet whileloop\n")
	e2e.AssertFileNotExists(t, h.RStudioFixture().Path("tex.snippets"))
	e2e.AssertFileExists(t, filepath.Join(h.BackupDir(), "index.json"))
	e2e.AssertFileContains(t, filepath.Join(h.BackupDir(), "rstudio", "python.snippets"), "snippet defn\n")

	again := h.Run("sync")
	e2e.AssertSuccess(t, again)
	e2e.AssertOutputContains(t, again, "already in sync")
}

func TestSync_LegacyReaderDropsSnippets(t *testing.T) {
	h := e2e.NewHarness(t)
	seed(h)

	result := h.Run("--dry-run", "--drop-trailing", "--drop-uncategorized")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "[dry run]")
	e2e.AssertOutputContains(t, result, "sublime source.r/loops/forloop (added)")
	e2e.AssertOutputNotContains(t, result, "lib")
	e2e.AssertOutputNotContains(t, result, "recategorized")
	e2e.AssertFileNotExists(t, h.BackupDir())
}

func TestSync_KeepsEverySnippetAcrossRuns(t *testing.T) {
	h := e2e.NewHarness(t)
	rstudio := h.RStudioFixture()
	rstudio.WriteFile("r.snippets", "## Loops\nsnippet forloop\n\tfor (i in 1:n) {}\nsnippet whileloop\n\twhile (TRUE) {}\n")
	rstudio.WriteFile("markdown.snippets", "## Links\nsnippet a\n\t[${1}](${2})\nsnippet img\n\t![${1}](${2})\n")

	first := h.Run("sync")
	e2e.AssertSuccess(t, first)
	e2e.AssertOutputContains(t, first, "2 added")

	for range 2 {
		again := h.Run("sync")
		e2e.AssertSuccess(t, again)
		e2e.AssertOutputContains(t, again, "already in sync")
	}

	r := rstudio.ReadFile("r.snippets")
	for _, name := range []string{"forloop", "whileloop"} {
		if n := strings.Count(r, "snippet "+name+"\n"); n != 1 {
			t.Errorf("r.snippets declares %s %d times:\n%s", name, n, r)
		}
	}
	e2e.AssertFileContains(t, rstudio.Path("markdown.snippets"), "snippet img\n")
	e2e.AssertFileExists(t, h.SublimeFixture().Path("R LOOPS whileloop.sublime-snippet"))
}

func TestSync_ConfigMissing(t *testing.T) {
	h := e2e.NewHarness(t)
	if err := os.Remove(h.ConfigPath()); err != nil {
		t.Fatal(err)
	}

	result := h.Run("sync")

	e2e.AssertError(t, result)
	e2e.AssertExitCode(t, result, 1)
	e2e.AssertErrorContains(t, result, "snipsync config init")
}

func TestSync_VerboseLogging(t *testing.T) {
	h := e2e.NewHarness(t)
	seed(h)

	result := h.Run("--verbose", "--log-json", "--skip-backup")

	e2e.AssertSuccess(t, result)
	e2e.AssertStderrContains(t, result, `"msg":"reconciliation complete"`)
	e2e.AssertFileNotExists(t, h.BackupDir())
}

func TestBackupAndExport(t *testing.T) {
	h := e2e.NewHarness(t)
	seed(h)
	e2e.AssertSuccess(t, h.Run("sync"))

	list := h.Run("backup", "list", "--editor", "sublime")
	e2e.AssertSuccess(t, list)
	lines := strings.Split(strings.TrimSpace(list.Stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected one sublime snapshot, got:\n%s", list.Stdout)
	}
	id := strings.Fields(lines[2])[0]

	verify := h.Run("backup", "verify", id)
	e2e.AssertSuccess(t, verify)

	exported := h.Run("export", "--snapshot", id, "--format", "markdown")
	e2e.AssertSuccess(t, exported)
	e2e.AssertOutputContains(t, exported, "## source.r")
	e2e.AssertOutputContains(t, exported, "`lib`")

	live := h.Run("export", "--editor", "rstudio", "--format", "json", "--language", "python.snippets")
	e2e.AssertSuccess(t, live)
	e2e.AssertOutputContains(t, live, `"section": "functions"`)
}

func TestCheck(t *testing.T) {
	h := e2e.NewHarness(t)
	seed(h)

	result := h.Run("check")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "All validations passed")
}

func TestCopyRoundTrip(t *testing.T) {
	h := e2e.NewHarness(t)
	seed(h)
	local := filepath.Join(h.HomeDir(), "project")

	out := h.Run("copy", "from-rstudio", "--local", local)
	e2e.AssertSuccess(t, out)
	e2e.AssertOutputContains(t, out, "copied r.snippets")
	e2e.AssertFileExists(t, filepath.Join(local, "python.snippets"))

	e2e.NewFixture(t, local).WriteFile("r.snippets", "snippet pipe\n\t%>%\n")

	in := h.Run("copy", "to-rstudio", "--local", local)
	e2e.AssertSuccess(t, in)
	e2e.AssertFileEquals(t, h.RStudioFixture().Path("r.snippets"), "snippet pipe\n\t%>%\n")
	e2e.AssertFileContains(t, filepath.Join(h.RStudioDir(), "backups", "r.snippets"), "snippet forloop")
}
