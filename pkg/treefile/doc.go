/*
Package treefile provides a high-level, one-call API over tree dump files.

Each function loads a dump file into a private tree, performs one
operation and, for writes, saves the result back atomically.

# Quick Start

Read a value:

	v, err := treefile.GetValue("config.tree", "network/eth0", "addr")

Write a value, creating missing nodes:

	err := treefile.SetValue("config.tree", "network/eth1", "addr", "10.0.0.2",
	    &treefile.Options{CreateNodes: true})

Compare two files:

	d, err := treefile.DiffFiles("old.tree", "new.tree")
	for _, nd := range d.Changed() {
	    fmt.Println(nd.Status, nd.Path)
	}

# Node Paths

Node paths are labels joined with "/", relative to the root. The empty
path names the root itself. Labels containing "/" can't be addressed this
way; use the tree package directly for those.

# Working With Trees

Load returns a live client for callers that need more than one call:

	c, err := treefile.Load("config.tree", nil)
	if err != nil {
	    log.Fatal(err)
	}
	defer c.Close()
	// ... mutate c ...
	err = treefile.Save(c, "config.tree", nil)
*/
package treefile
