package treefile

import "github.com/joshuapare/treekit/pkg/types"

// Options configures file operations. A nil *Options uses the zero value
// with unlimited storage.
type Options struct {
	// Encoding of the dump file: "UTF-8" (default), "UTF-16LE" or
	// "WINDOWS-1252". Reads honor a byte order mark regardless.
	Encoding string

	// Limits bounds the loaded tree. Nil means unlimited.
	Limits *types.Limits

	// CreateNodes creates missing nodes along the target path.
	CreateNodes bool

	// CreateBackup copies the file to <path>.bak before rewriting it.
	CreateBackup bool

	// DryRun performs the change in memory without saving.
	DryRun bool

	// FullSync requests the strongest flush the platform offers on save.
	FullSync bool
}

func (o *Options) orDefault() *Options {
	if o == nil {
		return &Options{}
	}
	return o
}

func (o *Options) limits() types.Limits {
	if o.Limits == nil {
		return types.DefaultLimits()
	}
	return *o.Limits
}
