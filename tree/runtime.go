package tree

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/joshuapare/treekit/pkg/types"
	"github.com/joshuapare/treekit/tree/idle"
)

// NamespaceSep separates namespace components of a qualified tree name.
const NamespaceSep = "::"

// autoNamePrefix is used for cores created without a name.
const autoNamePrefix = "tree"

// Runtime owns the cores of one host program: it resolves tree names,
// carries the idle queue used for deferred notification and reports
// background errors.
//
// A Runtime and everything reachable from it must be used from one
// goroutine at a time.
type Runtime struct {
	opts     Options
	log      *slog.Logger
	idle     *idle.Queue
	cores    map[string]*core
	patterns *lru.Cache[string, glob.Glob]
	autoSeq  int
}

// NewRuntime returns a Runtime configured by opts.
func NewRuntime(opts Options) *Runtime {
	opts = opts.withDefaults()
	patterns, err := lru.New[string, glob.Glob](opts.PatternCacheSize)
	if err != nil {
		// Only a non-positive size fails, and withDefaults rules that out.
		panic(err)
	}
	return &Runtime{
		opts:     opts,
		log:      opts.Logger,
		idle:     opts.IdleQueue,
		cores:    make(map[string]*core),
		patterns: patterns,
	}
}

// QualifyName returns name in its fully qualified form ("::name").
func QualifyName(name string) string {
	if strings.HasPrefix(name, NamespaceSep) {
		return name
	}
	return NamespaceSep + name
}

// TailName returns the last component of a qualified name.
func TailName(name string) string {
	if i := strings.LastIndex(name, NamespaceSep); i >= 0 {
		return name[i+len(NamespaceSep):]
	}
	return name
}

// Open returns a new client. With OpenCreate a fresh core holding only a
// root is created under name (an empty name picks an unused "treeN"). With
// OpenAttach the client joins the existing core called name and shares the
// tag table of its first client unless OpenNewTags is also given.
func (rt *Runtime) Open(name string, flags OpenFlag) (*Client, error) {
	var co *core
	switch {
	case flags&OpenCreate != 0:
		if name == "" {
			name = rt.nextAutoName()
		}
		qname := QualifyName(name)
		if _, exists := rt.cores[qname]; exists {
			return nil, types.Errorf(types.ErrKindInvalid, "a tree named %q already exists", qname)
		}
		co = newCore(rt, qname)
		rt.cores[qname] = co
	case flags&OpenAttach != 0:
		qname := QualifyName(name)
		var ok bool
		if co, ok = rt.cores[qname]; !ok {
			return nil, types.Errorf(types.ErrKindNotFound, "can't find a tree named %q", qname)
		}
	default:
		return nil, types.Errorf(types.ErrKindInvalid, "open %q: need OpenCreate or OpenAttach", name)
	}

	c := &Client{rt: rt}
	c.link(co, flags&OpenNewTags != 0)
	return c, nil
}

// Exists reports whether a core named name is open.
func (rt *Runtime) Exists(name string) bool {
	_, ok := rt.cores[QualifyName(name)]
	return ok
}

// Names returns the qualified names of all open cores, sorted.
func (rt *Runtime) Names() []string {
	names := make([]string, 0, len(rt.cores))
	for name := range rt.cores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RunIdle delivers deferred notifications queued so far and returns how
// many callbacks ran. Hosts call it from their event loop when idle.
func (rt *Runtime) RunIdle() int {
	return rt.idle.RunPending()
}

// DrainIdle runs idle passes until nothing is pending.
func (rt *Runtime) DrainIdle() int {
	return rt.idle.Drain(0)
}

// Limits returns the storage bounds applied to every core.
func (rt *Runtime) Limits() types.Limits {
	return rt.opts.Limits
}

func (rt *Runtime) nextAutoName() string {
	for {
		name := autoNamePrefix + strconv.Itoa(rt.autoSeq)
		rt.autoSeq++
		if _, taken := rt.cores[QualifyName(name)]; !taken {
			return name
		}
	}
}

// report hands a callback failure to the configured error reporter.
func (rt *Runtime) report(err error) {
	callbackErrors.Inc()
	rt.opts.ErrorReporter(err)
}

// compilePattern returns the compiled glob for a trace key pattern.
func (rt *Runtime) compilePattern(pattern string) (glob.Glob, error) {
	if g, ok := rt.patterns.Get(pattern); ok {
		return g, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, types.Wrap(types.ErrKindMalformed, err, "bad key pattern "+strconv.Quote(pattern))
	}
	rt.patterns.Add(pattern, g)
	return g, nil
}
