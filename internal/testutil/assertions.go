package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLabelLines checks that out holds exactly n lines and every one of
// them is a classification label.
func AssertLabelLines(t *testing.T, out *SafeBuffer, n int) []string {
	t.Helper()

	lines := out.Lines()
	require.Len(t, lines, n, "unexpected number of result lines")
	for i, l := range lines {
		require.Contains(t, []string{"Distribution 1", "Distribution 2"}, l, "line %d is not a label", i)
	}
	return lines
}
