package automaton

// link computes failure and output links breadth-first. Every failure link
// points to a strictly shallower node, so visiting nodes in BFS order
// guarantees a node's failure target is fully resolved before its children
// read it.
func (t *trie) link() {
	nodes := t.nodes
	root := &nodes[rootIndex]
	root.fail = rootIndex
	root.output = noOutput

	queue := make([]int32, 0, len(nodes))
	for _, child := range root.children {
		if child == 0 {
			continue
		}
		nodes[child].fail = rootIndex
		nodes[child].output = noOutput
		queue = append(queue, child)
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for code, child := range nodes[cur].children {
			if child == 0 {
				continue
			}
			queue = append(queue, child)

			fail := nodes[cur].fail
			for fail != rootIndex && nodes[fail].children[code] == 0 {
				fail = nodes[fail].fail
			}
			if next := nodes[fail].children[code]; next != 0 {
				nodes[child].fail = next
			} else {
				nodes[child].fail = rootIndex
			}

			target := nodes[child].fail
			if len(nodes[target].patterns) > 0 {
				nodes[child].output = target
			} else {
				nodes[child].output = nodes[target].output
			}
		}
	}
}
