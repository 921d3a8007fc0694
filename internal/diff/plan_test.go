package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/gitvid/internal/diff"
)

func TestPlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []diff.Op
	}{
		{
			name: "single insert",
			text: "@@ -1,2 +1,3 @@\n line1\n+newline\n line2",
			want: []diff.Op{diff.InsertAt(1, "newline")},
		},
		{
			name: "metadata before first hunk is ignored",
			text: "diff --git a/f.go b/f.go\nindex 123..456 100644\n--- a/f.go\n+++ b/f.go\n@@ -1,1 +1,2 @@\n a\n+b\n",
			want: []diff.Op{diff.InsertAt(1, "b")},
		},
		{
			name: "delete does not advance",
			text: "@@ -1,4 +1,2 @@\n a\n-b\n-c\n d\n",
			want: []diff.Op{diff.DeleteAt(1), diff.DeleteAt(1)},
		},
		{
			name: "replace",
			text: "@@ -2,3 +2,3 @@\n x\n-old\n+new\n y\n",
			want: []diff.Op{diff.DeleteAt(2), diff.InsertAt(2, "new")},
		},
		{
			name: "second hunk resets cursor",
			text: "@@ -1,2 +1,3 @@\n a\n+b\n c\n@@ -10,2 +11,1 @@\n j\n-k\n",
			want: []diff.Op{diff.InsertAt(1, "b"), diff.DeleteAt(11)},
		},
		{
			name: "header without counts",
			text: "@@ -3 +3 @@\n-x\n+y\n",
			want: []diff.Op{diff.DeleteAt(2), diff.InsertAt(2, "y")},
		},
		{
			name: "new file from empty",
			text: "@@ -0,0 +1,2 @@\n+a\n+b\n",
			want: []diff.Op{diff.InsertAt(0, "a"), diff.InsertAt(1, "b")},
		},
		{
			name: "file emptied",
			text: "@@ -1,2 +0,0 @@\n-a\n-b\n",
			want: []diff.Op{diff.DeleteAt(0), diff.DeleteAt(0)},
		},
		{
			name: "no newline marker does not move the cursor",
			text: "@@ -1,2 +1,2 @@\n a\n-b\n\\ No newline at end of file\n+b\n+c\n",
			want: []diff.Op{diff.DeleteAt(1), diff.InsertAt(1, "b"), diff.InsertAt(2, "c")},
		},
		{
			name: "empty context line counts as context",
			text: "@@ -1,3 +1,4 @@\n a\n\n+c\n b\n",
			want: []diff.Op{diff.InsertAt(2, "c")},
		},
		{
			name: "crlf line endings",
			text: "@@ -1,1 +1,2 @@\r\n a\r\n+b\r\n",
			want: []diff.Op{diff.InsertAt(1, "b")},
		},
		{
			name: "inserted text keeps leading characters",
			text: "@@ -1,0 +1,1 @@\n++x\n+-y\n+ z\n",
			want: []diff.Op{diff.InsertAt(0, "+x"), diff.InsertAt(1, "-y"), diff.InsertAt(2, " z")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := diff.Plan(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlanContextOnly(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"diff --git a/x b/x\n",
		"@@ -1,3 +1,3 @@\n a\n b\n c\n",
		"@@ -1,1 +1,1 @@\n a\n@@ -9,2 +9,2 @@\n i\n j\n",
	}

	for _, in := range inputs {
		ops, err := diff.Plan(in)
		require.NoError(t, err)
		assert.Empty(t, ops, "input %q", in)
	}
}

func TestPlanMalformedHeader(t *testing.T) {
	t.Parallel()

	for _, header := range []string{
		"@@ garbage @@",
		"@@ -a,b +c,d @@",
		"@@@ -1,2 -1,2 +1,3 @@@",
	} {
		_, err := diff.Plan(header + "\n+x\n")
		require.ErrorIs(t, err, diff.ErrMalformedHunk, header)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	ins, del := diff.Stats([]diff.Op{
		diff.InsertAt(0, "a"),
		diff.DeleteAt(1),
		diff.InsertAt(1, "b"),
	})
	assert.Equal(t, 2, ins)
	assert.Equal(t, 1, del)
}

func TestOpFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+", diff.InsertAt(0, "x").Symbol())
	assert.Equal(t, "-", diff.DeleteAt(0).Symbol())
	assert.Equal(t, `Insert(3, "x")`, diff.InsertAt(3, "x").String())
	assert.Equal(t, "Delete(4)", diff.DeleteAt(4).String())
	assert.Equal(t, "insert", diff.Insert.String())
	assert.Equal(t, "delete", diff.Delete.String())
}
