package reminder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestIsResetLine verifies that only the trimmed reset token is accepted.
func TestIsResetLine(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"r":      true,
		"r\n":    true,
		"  r \t": true,
		"R":      false,
		"rr":     false,
		"":       false,
		"reset":  false,
	}
	for line, want := range cases {
		require.Equal(t, want, IsResetLine(line), "line %q", line)
	}
}

// TestPhaseString verifies phase names used in status output.
func TestPhaseString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "arming", PhaseArming.String())
	require.Equal(t, "awaiting-reset", PhaseAwaitingReset.String())
	require.Equal(t, "unknown", Phase(42).String())
}

// TestActorClone verifies that Clone returns a deep copy and handles nil safely.
func TestActorClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Actor)(nil).Clone())

	a := &Actor{
		Hostname: "workstation-7",
		Username: "operator",
	}

	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
}
