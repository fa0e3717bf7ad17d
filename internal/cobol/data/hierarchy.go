// File path: internal/cobol/data/hierarchy.go
package data

// Node is one member of the record forest arena. Children hold arena
// indices so the builder stack never aliases mutable references.
type Node struct {
	Decl     Declaration
	Children []int
}

// Forest is the reconstructed record hierarchy. Nodes is the arena;
// Roots index the level-01 and level-77 trees in document order.
type Forest struct {
	Nodes    []Node
	Roots    []int
	Warnings []string
}

type stackEntry struct {
	level int
	index int
}

// BuildForest turns the flat document-ordered declaration list into the
// nested record forest implied by COBOL level-number semantics. Single
// left-to-right pass; each node is pushed and popped at most once. The
// pass is strictly sequential: the stack algorithm depends on document
// order.
func BuildForest(items []Declaration) *Forest {
	f := &Forest{Nodes: make([]Node, 0, len(items))}
	var stack []stackEntry

	alloc := func(decl Declaration) int {
		f.Nodes = append(f.Nodes, Node{Decl: decl})
		return len(f.Nodes) - 1
	}
	attach := func(parent, child int) {
		f.Nodes[parent].Children = append(f.Nodes[parent].Children, child)
	}

	for _, decl := range items {
		switch {
		case decl.Level == 88:
			// Condition names hang off the nearest preceding non-88
			// item regardless of numeric level distance.
			idx := alloc(decl)
			if len(stack) == 0 {
				f.Warnings = append(f.Warnings, "condition name "+decl.Name+" with no preceding data item")
				f.Roots = append(f.Roots, idx)
				continue
			}
			attach(stack[len(stack)-1].index, idx)

		case decl.Level == 66:
			// RENAMES entries are leaves; they reference a range of
			// other declarations and never own children.
			idx := alloc(decl)
			if len(stack) == 0 {
				f.Roots = append(f.Roots, idx)
				continue
			}
			attach(stack[len(stack)-1].index, idx)

		case decl.Level == 77:
			// Standalone items are always roots; they may still anchor
			// following condition names.
			idx := alloc(decl)
			stack = stack[:0]
			f.Roots = append(f.Roots, idx)
			stack = append(stack, stackEntry{level: decl.Level, index: idx})

		default:
			for len(stack) > 0 && stack[len(stack)-1].level >= decl.Level {
				stack = stack[:len(stack)-1]
			}
			idx := alloc(decl)
			if len(stack) == 0 {
				f.Roots = append(f.Roots, idx)
			} else {
				attach(stack[len(stack)-1].index, idx)
			}
			stack = append(stack, stackEntry{level: decl.Level, index: idx})
		}
	}
	return f
}

// Flatten reproduces the original document order via a pre-order walk.
func (f *Forest) Flatten() []Declaration {
	out := make([]Declaration, 0, len(f.Nodes))
	var walk func(int)
	walk = func(idx int) {
		out = append(out, f.Nodes[idx].Decl)
		for _, child := range f.Nodes[idx].Children {
			walk(child)
		}
	}
	for _, root := range f.Roots {
		walk(root)
	}
	return out
}

// Walk visits every node pre-order with its depth. Returning false from
// fn stops the walk.
func (f *Forest) Walk(fn func(node Node, depth int) bool) {
	var walk func(idx, depth int) bool
	walk = func(idx, depth int) bool {
		if !fn(f.Nodes[idx], depth) {
			return false
		}
		for _, child := range f.Nodes[idx].Children {
			if !walk(child, depth+1) {
				return false
			}
		}
		return true
	}
	for _, root := range f.Roots {
		if !walk(root, 0) {
			return
		}
	}
}

// Size returns the number of declarations held by the forest.
func (f *Forest) Size() int { return len(f.Nodes) }
