package automaton

import "strings"

const (
	rootIndex int32 = 0
	noOutput  int32 = -1
)

// node is one prefix of the pattern set. Nodes live in a flat arena and
// refer to each other by index; children own their subtree, fail and
// output are plain back references into the same arena.
type node struct {
	children [AlphabetSize]int32 // 0 = no child; the root is never a child
	fail     int32
	output   int32 // nearest terminal node via the failure chain, or noOutput
	patterns []int // ids ending exactly here, in insertion order
	depth    int
}

// trie is the arena plus the diagnostics gathered while building it.
type trie struct {
	nodes    []node
	maxDepth int
	skipped  int
}

func newTrie(capacity int) *trie {
	t := &trie{nodes: make([]node, 1, capacity+1)}
	t.nodes[rootIndex].output = noOutput
	return t
}

// insert adds one normalized pattern. Patterns that normalized to nothing,
// or that span a line break, can never match and are skipped.
func (t *trie) insert(id int, normalized string) {
	if normalized == "" || strings.IndexByte(normalized, '\n') >= 0 {
		t.skipped++
		return
	}
	cur := rootIndex
	for i := 0; i < len(normalized); i++ {
		code := Code(normalized[i])
		next := t.nodes[cur].children[code]
		if next == 0 {
			next = int32(len(t.nodes))
			depth := t.nodes[cur].depth + 1
			t.nodes = append(t.nodes, node{output: noOutput, depth: depth})
			t.nodes[cur].children[code] = next
			if depth > t.maxDepth {
				t.maxDepth = depth
			}
		}
		cur = next
	}
	t.nodes[cur].patterns = append(t.nodes[cur].patterns, id)
}
