package tree

import (
	"log/slog"

	"github.com/joshuapare/treekit/internal/logger"
	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/idle"
)

// DefaultPatternCacheSize is the number of compiled trace key patterns kept
// by a Runtime.
const DefaultPatternCacheSize = 256

// Options configures a Runtime.
type Options struct {
	// Logger receives debug records for core and client lifecycle. Nil uses
	// the package-wide logger, which discards output unless enabled.
	Logger *slog.Logger

	// ErrorReporter receives callback failures. Notification never aborts
	// the mutation that triggered it; the error is handed here instead.
	// Nil logs the error at warn level.
	ErrorReporter func(error)

	// Limits bounds every core created by the Runtime.
	Limits types.Limits

	// IdleQueue carries deferred trace and event delivery. Nil creates a
	// private queue, drained with Runtime.RunIdle.
	IdleQueue *idle.Queue

	// PatternCacheSize bounds the compiled key-pattern cache.
	// Zero uses DefaultPatternCacheSize.
	PatternCacheSize int
}

// DefaultOptions returns unlimited options with default logging.
func DefaultOptions() Options {
	return Options{
		Limits:           types.DefaultLimits(),
		PatternCacheSize: DefaultPatternCacheSize,
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.L
	}
	if o.IdleQueue == nil {
		o.IdleQueue = idle.NewQueue()
	}
	if o.PatternCacheSize <= 0 {
		o.PatternCacheSize = DefaultPatternCacheSize
	}
	if o.ErrorReporter == nil {
		log := o.Logger
		o.ErrorReporter = func(err error) {
			log.Warn("background error", "error", err)
		}
	}
	return o
}

// OpenFlag selects how Runtime.Open obtains a core.
type OpenFlag uint8

const (
	// OpenCreate creates a new core under the given name.
	OpenCreate OpenFlag = 1 << iota

	// OpenAttach opens another client onto an existing core.
	OpenAttach

	// OpenNewTags gives an attaching client its own tag table instead of
	// sharing the one of the core's first client.
	OpenNewTags
)
