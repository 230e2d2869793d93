package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/hashidx"
)

func TestCreateNode_IDsAndDepth(t *testing.T) {
	c := newTestClient(t)
	root := c.Root()

	a := mustCreate(t, c, root, "a")
	b := mustCreate(t, c, root, "b")
	x := mustCreate(t, c, a, "x")

	assert.Equal(t, types.NodeID(1), a)
	assert.Equal(t, types.NodeID(2), b)
	assert.Equal(t, types.NodeID(3), x)

	d, err := c.Depth(x)
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	parent, err := c.Parent(x)
	require.NoError(t, err)
	assert.Equal(t, a, parent)

	rootParent, err := c.Parent(root)
	require.NoError(t, err)
	assert.Equal(t, types.NoNode, rootParent)
	assert.Equal(t, 4, c.NodeCount())
	mustCheck(t, c)
}

func TestCreateNode_IDsNeverReused(t *testing.T) {
	c := newTestClient(t)
	a := mustCreate(t, c, c.Root(), "a")
	require.NoError(t, c.DeleteNode(a))
	b := mustCreate(t, c, c.Root(), "b")
	assert.Greater(t, b, a)
}

func TestCreateNode_Position(t *testing.T) {
	c := newTestClient(t)
	root := c.Root()
	mustCreate(t, c, root, "a")
	mustCreate(t, c, root, "c")

	_, err := c.CreateNode(root, "b", 1)
	require.NoError(t, err)
	_, err = c.CreateNode(root, "first", 0)
	require.NoError(t, err)
	_, err = c.CreateNode(root, "last", 99)
	require.NoError(t, err)

	kids, err := c.Children(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "a", "b", "c", "last"}, labelsOf(t, c, kids))

	pos, err := c.NodePosition(kids[2])
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestCreateNodeWithID(t *testing.T) {
	c := newTestClient(t)
	id, err := c.CreateNodeWithID(c.Root(), "ten", 10, -1)
	require.NoError(t, err)
	assert.Equal(t, types.NodeID(10), id)

	_, err = c.CreateNodeWithID(c.Root(), "dup", 10, -1)
	require.ErrorIs(t, err, types.ErrInvalidOperation)

	// The generator skips past explicit ids.
	next := mustCreate(t, c, c.Root(), "next")
	assert.Equal(t, types.NodeID(11), next)
}

func TestCreateNode_UnknownParent(t *testing.T) {
	c := newTestClient(t)
	_, err := c.CreateNode(42, "x", -1)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteNode_ChildrenFirst(t *testing.T) {
	c := newTestClient(t)
	a := mustCreate(t, c, c.Root(), "a")
	b := mustCreate(t, c, a, "b")
	d := mustCreate(t, c, b, "d")
	e := mustCreate(t, c, a, "e")

	var order []types.NodeID
	_, err := c.CreateEventHandler(EventDelete, func(_ *Client, ev Event) error {
		order = append(order, ev.Node)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, c.DeleteNode(a))
	assert.Equal(t, []types.NodeID{d, b, e, a}, order)
	for _, id := range []types.NodeID{a, b, d, e} {
		assert.False(t, c.Exists(id))
	}
	assert.Equal(t, 1, c.NodeCount())
	mustCheck(t, c)
}

func TestDeleteNode_RootRejected(t *testing.T) {
	c := newTestClient(t)
	err := c.DeleteNode(c.Root())
	require.ErrorIs(t, err, types.ErrInvalidOperation)
	assert.True(t, c.Exists(c.Root()))
}

func TestMoveNode_Scenario(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	a := mustCreate(t, c, r, "a")
	b := mustCreate(t, c, r, "b")
	cc := mustCreate(t, c, a, "c")
	require.NoError(t, c.Set(cc, "x", "1"))

	require.NoError(t, c.MoveNode(cc, b, types.NoNode))
	assert.False(t, c.IsAncestor(a, cc))
	assert.True(t, c.IsAncestor(b, cc))

	bd, _ := c.Depth(b)
	cd, _ := c.Depth(cc)
	assert.Equal(t, 2, cd)
	assert.Equal(t, bd+1, cd)

	v, err := c.Get(cc, "x")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	mustCheck(t, c)
}

func TestMoveNode_Rejections(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	a := mustCreate(t, c, r, "a")
	b := mustCreate(t, c, a, "b")
	d := mustCreate(t, c, b, "d")
	other := mustCreate(t, c, r, "other")

	tests := []struct {
		name              string
		node, parent, bef types.NodeID
	}{
		{"into itself", a, a, types.NoNode},
		{"into child", a, b, types.NoNode},
		{"into grandchild", a, d, types.NoNode},
		{"before non-child", b, r, d},
		{"root", r, other, types.NoNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.MoveNode(tt.node, tt.parent, tt.bef)
			require.ErrorIs(t, err, types.ErrInvalidOperation)
			mustCheck(t, c)
		})
	}
}

func TestMoveNode_BeforeAndDepthRecompute(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	a := mustCreate(t, c, r, "a")
	b := mustCreate(t, c, a, "b")
	deep := mustCreate(t, c, b, "deep")
	z := mustCreate(t, c, r, "z")

	// Lift b to the root level, before z.
	require.NoError(t, c.MoveNode(b, r, z))
	kids, _ := c.Children(r)
	assert.Equal(t, []string{"a", "b", "z"}, labelsOf(t, c, kids))

	d, _ := c.Depth(deep)
	assert.Equal(t, 2, d)

	// Moving a node before itself is a no-op.
	require.NoError(t, c.MoveNode(b, r, b))
	kids, _ = c.Children(r)
	assert.Equal(t, []string{"a", "b", "z"}, labelsOf(t, c, kids))
	mustCheck(t, c)
}

func TestSortChildren(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	for _, l := range []string{"pear", "apple", "fig", "apple"} {
		mustCreate(t, c, r, l)
	}
	sorts := 0
	_, err := c.CreateEventHandler(EventSort, func(_ *Client, ev Event) error {
		sorts++
		assert.Equal(t, r, ev.Node)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, c.SortChildren(r, c.ByLabel))
	kids, _ := c.Children(r)
	assert.Equal(t, []string{"apple", "apple", "fig", "pear"}, labelsOf(t, c, kids))
	assert.Equal(t, 1, sorts)
	// Stable: the first "apple" created stays first.
	assert.Less(t, kids[0], kids[1])
	mustCheck(t, c)
}

func TestSortChildren_Indexed(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	for i := 30; i > 0; i-- {
		mustCreate(t, c, r, fmt.Sprintf("n%02d", i))
	}
	require.NoError(t, c.SortChildren(r, c.ByLabel))
	first, err := c.ChildAt(r, 0)
	require.NoError(t, err)
	label, _ := c.Label(first)
	assert.Equal(t, "n01", label)

	id, err := c.FindChild(r, "n17")
	require.NoError(t, err)
	label, _ = c.Label(id)
	assert.Equal(t, "n17", label)
	mustCheck(t, c)
}

func TestRelabelNode(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	ids := make([]types.NodeID, 0, 25)
	for i := range 25 {
		ids = append(ids, mustCreate(t, c, r, fmt.Sprintf("k%d", i)))
	}
	require.NotNil(t, c.core.root.index, "expected a child index above the high water mark")

	require.NoError(t, c.RelabelNode(ids[3], "renamed"))
	_, err := c.FindChild(r, "k3")
	require.ErrorIs(t, err, types.ErrNotFound)
	got, err := c.FindChild(r, "renamed")
	require.NoError(t, err)
	assert.Equal(t, ids[3], got)
	mustCheck(t, c)
}

func TestFindChild_TwentyFiveInsertions(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	ids := make(map[string]types.NodeID)
	for i := range 25 {
		label := fmt.Sprintf("child-%d", i)
		ids[label] = mustCreate(t, c, r, label)
		for l, want := range ids {
			got, err := c.FindChild(r, l)
			require.NoError(t, err, "after %d insertions", i+1)
			require.Equal(t, want, got, "label %s after %d insertions", l, i+1)
		}
	}
}

func TestFindChild_AcrossWaterMarks(t *testing.T) {
	c := newTestClient(t)
	r := c.Root()
	const total = 2*hashidx.LowWater + 5
	ids := make([]types.NodeID, total)
	for i := range total {
		ids[i] = mustCreate(t, c, r, fmt.Sprintf("w%d", i))
	}
	require.NotNil(t, c.core.root.index)

	// Delete back down to zero, checking lookups on both sides of each mark.
	for i := total - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			got, err := c.FindChild(r, fmt.Sprintf("w%d", j))
			require.NoError(t, err)
			require.Equal(t, ids[j], got)
		}
		require.NoError(t, c.DeleteNode(ids[i]))
		_, err := c.FindChild(r, fmt.Sprintf("w%d", i))
		require.ErrorIs(t, err, types.ErrNotFound)
		if i%10 == 0 {
			mustCheck(t, c)
		}
	}
	assert.Nil(t, c.core.root.index)
}

func TestFindChild_DuplicateLabelsReturnFirst(t *testing.T) {
	for _, n := range []int{3, 30} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			c := newTestClient(t)
			r := c.Root()
			for i := range n {
				mustCreate(t, c, r, fmt.Sprintf("f%d", i))
			}
			second := mustCreate(t, c, r, "dup")
			first, err := c.CreateNode(r, "dup", 0)
			require.NoError(t, err)

			got, err := c.FindChild(r, "dup")
			require.NoError(t, err)
			assert.Equal(t, first, got)
			assert.NotEqual(t, second, got)
		})
	}
}

func TestLimits_MaxNodes(t *testing.T) {
	rt := NewRuntime(Options{Limits: types.Limits{MaxNodes: 3}})
	c, err := rt.Open("small", OpenCreate)
	require.NoError(t, err)
	mustCreate(t, c, c.Root(), "a")
	mustCreate(t, c, c.Root(), "b")

	_, err = c.CreateNode(c.Root(), "c", -1)
	require.ErrorIs(t, err, types.ErrOutOfMemory)
	var le *types.LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "nodes", le.Limit)
	assert.Equal(t, 3, c.NodeCount())
}

func TestLimits_MaxDepth(t *testing.T) {
	rt := NewRuntime(Options{Limits: types.Limits{MaxDepth: 2}})
	c, err := rt.Open("shallow", OpenCreate)
	require.NoError(t, err)
	a := mustCreate(t, c, c.Root(), "a")
	b := mustCreate(t, c, a, "b")
	_, err = c.CreateNode(b, "c", -1)
	require.ErrorIs(t, err, types.ErrOutOfMemory)

	x := mustCreate(t, c, c.Root(), "x")
	err = c.MoveNode(a, x, types.NoNode)
	require.ErrorIs(t, err, types.ErrOutOfMemory)
	mustCheck(t, c)
}
