// Package tree implements an embeddable hierarchical node/value store.
//
// # Overview
//
// A tree is a hierarchy of nodes. Every node has a numeric id (unique
// within its tree and never reused), a label, an ordered list of children
// and an open-ended set of named values. Values are scalar strings or
// one-level arrays addressed as "name(elem)".
//
// Storage lives in a core; programs reach it through one or more Clients.
// Clients of the same core see each other's changes, and each has its own
// traces, event handlers and (optionally shared) tag table:
//
//	rt := tree.NewRuntime(tree.DefaultOptions())
//	c, _ := rt.Open("config", tree.OpenCreate)
//	defer c.Close()
//
//	net, _ := c.CreateNode(c.Root(), "network", -1)
//	_ = c.Set(net, "mtu", "1500")
//	_ = c.Set(net, "addr(v4)", "10.0.0.1")
//
// # Children and values
//
// Small child lists and value sets are scanned linearly. Past 20 entries a
// hash index keyed on the interned label is built alongside; it is dropped
// again when the count falls below 40. Lookups return the same results in
// both modes. Value iteration order is unspecified.
//
// # Notification
//
// Traces observe value reads, writes, creations and unsets, filtered by key
// glob, tag and node. Event handlers observe node creation, deletion,
// moves, relabels and sorts. Both run synchronously by default; with
// TraceWhenIdle / EventWhenIdle they are queued, coalesced, and delivered by
// Runtime.RunIdle. Callback errors go to Options.ErrorReporter and never
// fail the mutation that caused them.
//
// # Concurrency
//
// A Runtime and its clients are not safe for concurrent use. Only the key
// interner (package keys) is shared process-wide and is locked.
package tree
