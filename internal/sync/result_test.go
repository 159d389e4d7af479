package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/klauern/snipsync/internal/model"
)

func TestResult_Summary(t *testing.T) {
	tests := map[string]struct {
		result Result
		want   string
	}{
		"nothing to do": {
			result: Result{},
			want:   "already in sync; 0 files written",
		},
		"dry run": {
			result: Result{
				DryRun:  true,
				Moves:   []Move{{Name: "defn"}},
				Changes: []Change{{Kind: ChangeAdded}, {Kind: ChangeAdded}},
			},
			want: "[dry run] 1 recategorized, 2 added",
		},
		"full run": {
			result: Result{
				Changes: []Change{{Kind: ChangeAdded}, {Kind: ChangeReplaced}},
				Written: []string{"a", "b", "c"},
			},
			want: "1 added, 1 replaced; 3 files written",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Summary())
		})
	}
}

func TestResult_Filters(t *testing.T) {
	r := Result{Changes: []Change{
		{Editor: model.Sublime, Name: "a", Kind: ChangeAdded},
		{Editor: model.Sublime, Name: "b", Kind: ChangeReplaced},
		{Editor: model.RStudio, Name: "c", Kind: ChangeAdded},
	}}

	assert.Len(t, r.ChangesFor(model.Sublime), 2)
	assert.Len(t, r.ChangesFor(model.RStudio), 1)
	assert.Len(t, r.Added(), 2)
	assert.Len(t, r.Replaced(), 1)
	assert.True(t, r.HasChanges())
	assert.False(t, (&Result{}).HasChanges())
}

func TestChangeAndMoveString(t *testing.T) {
	c := Change{Editor: model.RStudio, Language: "r.snippets", Section: "", Name: "lib", Kind: ChangeAdded}
	assert.Equal(t, "rstudio r.snippets/(uncategorized)/lib (added)", c.String())

	m := Move{Editor: model.Sublime, Language: "source.r", Name: "fun", Section: "functions"}
	assert.Equal(t, "sublime source.r: fun -> functions", m.String())
}
