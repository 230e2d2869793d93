package dump

// DumpOptions controls Dump.
type DumpOptions struct {
	// NoTags omits tag lists (an empty list is written).
	NoTags bool

	// Encoding of DumpToFile output: "UTF-8" (default), "UTF-16LE" or
	// "WINDOWS-1252".
	Encoding string

	// FullSync asks DumpToFile for the strongest flush the platform offers.
	FullSync bool
}

// RestoreOptions controls Restore.
type RestoreOptions struct {
	// Overwrite reuses an existing child with the same label instead of
	// creating a sibling with a duplicate label.
	Overwrite bool

	// NoTags ignores tag lists.
	NoTags bool

	// Encoding of RestoreFromFile input. A byte order mark overrides it.
	Encoding string
}

// Stats summarizes a restore.
type Stats struct {
	Records  int // records applied
	Created  int // nodes created
	Reused   int // existing nodes written into
	Remapped int // nodes that could not keep their dumped id

	// RootLabel is the label of the dumped top node, when the input
	// carried a root record.
	RootLabel string
}
