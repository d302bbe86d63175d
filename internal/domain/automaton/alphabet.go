package automaton

// AlphabetSize is the branching factor of the trie: a-z, space and hyphen.
const AlphabetSize = 28

// Unsupported is returned by Code for symbols outside the alphabet.
const Unsupported = -1

const (
	spaceCode  = 26
	hyphenCode = 27
)

// Code maps a symbol to its dense alphabet code. Upper-case letters share
// the code of their lower-case form in every mode.
func Code(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c == ' ':
		return spaceCode
	case c == '-':
		return hyphenCode
	}
	return Unsupported
}
