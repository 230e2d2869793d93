package types

const (
	// StrictMaxNodes bounds the number of live nodes in one core under StrictLimits.
	StrictMaxNodes = 1 << 20

	// StrictMaxDepth bounds node depth under StrictLimits.
	StrictMaxDepth = 512

	// StrictMaxValues bounds the number of values on one node under StrictLimits.
	StrictMaxValues = 16384
)

// Limits bounds the storage a tree core may grow to. A zero field means
// unlimited. Exceeding MaxNodes or MaxValues fails the mutation with an
// ErrKindOutOfMemory error instead of growing further.
type Limits struct {
	// MaxNodes is the maximum number of live nodes in one core, root included.
	MaxNodes int

	// MaxDepth is the maximum depth of any node (root is depth 0).
	MaxDepth int

	// MaxValues is the maximum number of values held by a single node.
	MaxValues int
}

// DefaultLimits returns unlimited storage bounds.
func DefaultLimits() Limits {
	return Limits{}
}

// StrictLimits returns conservative bounds for embedding in constrained hosts.
func StrictLimits() Limits {
	return Limits{
		MaxNodes:  StrictMaxNodes,
		MaxDepth:  StrictMaxDepth,
		MaxValues: StrictMaxValues,
	}
}

// LimitError describes which limit a mutation would have exceeded.
type LimitError struct {
	Limit   string // name of the limit
	Current int64  // value after the attempted mutation
	Maximum int64  // configured maximum
}

func (e *LimitError) Error() string {
	return "tree limit exceeded: " + e.Limit + " is " + itoa(e.Current) + " (max " + itoa(e.Maximum) + ")"
}

// Unwrap classifies every limit violation as out of memory.
func (e *LimitError) Unwrap() error { return ErrOutOfMemory }
