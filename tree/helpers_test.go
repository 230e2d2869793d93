package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
)

// newTestClient opens a fresh tree on a private runtime.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	rt := NewRuntime(DefaultOptions())
	c, err := rt.Open("", OpenCreate)
	require.NoError(t, err)
	t.Cleanup(func() {
		if c.core != nil {
			_ = c.Close()
		}
	})
	return c
}

// mustCreate creates a child or fails the test.
func mustCreate(t *testing.T, c *Client, parent types.NodeID, label string) types.NodeID {
	t.Helper()
	id, err := c.CreateNode(parent, label, -1)
	require.NoError(t, err)
	return id
}

// mustCheck runs the invariant checker.
func mustCheck(t *testing.T, c *Client) {
	t.Helper()
	require.NoError(t, c.Check())
}

// labelsOf maps ids to labels.
func labelsOf(t *testing.T, c *Client, ids []types.NodeID) []string {
	t.Helper()
	out := make([]string, len(ids))
	for i, id := range ids {
		label, err := c.Label(id)
		require.NoError(t, err)
		out[i] = label
	}
	return out
}
