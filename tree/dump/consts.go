package dump

const (
	// CommentPrefix marks a comment line outside any record.
	CommentPrefix = "#"

	// LF terminates each record.
	LF = "\n"

	// CR is stripped from line ends on restore.
	CR = "\r"

	// RootParentID marks the record of the dump root.
	RootParentID = -1

	// Record field counts.
	fieldsEmpty    = 0
	fieldsLegacy   = 3
	fieldsModern   = 5
	fieldsReserved = 6
)
