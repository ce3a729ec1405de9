package text

import (
	"fmt"
	"strconv"
)

// 📖 Grammar is the fixed vocabulary of brand tokens the engine recognizes.
// It is pure data: word sequences for product names and codenames, plus the
// literal version tokens. The engine compiles it once and never mutates it.
type Grammar struct {
	// OSNames are the product name variants as word sequences, longest
	// variant first. Whitespace between words is optional when matching,
	// so {"Mac", "OS", "X"} also covers "MacOSX" and "macOS X".
	OSNames [][]string

	// Codenames are the release names as word sequences, multi-word names
	// first so they win over their single-word suffixes. The words of a
	// two-word codename may be joined by a space, a hyphen, or nothing.
	Codenames [][]string

	// Versions are the literal version tokens recognized after a product
	// name. A version token on its own is never a match.
	Versions []string
}

// 🏭 DefaultGrammar returns the built-in vocabulary: every spelling of the
// product name, every release codename, and the 10.0-10.15 / 11-15 version
// families.
func DefaultGrammar() Grammar {
	versions := make([]string, 0, 21)
	for minor := 0; minor <= 15; minor++ {
		versions = append(versions, fmt.Sprintf("10.%d", minor))
	}
	for major := 11; major <= 15; major++ {
		versions = append(versions, strconv.Itoa(major))
	}

	return Grammar{
		OSNames: [][]string{
			{"Mac", "OS", "X"},
			{"Mac", "OS"},
			{"OS", "X"},
		},
		Codenames: [][]string{
			{"Snow", "Leopard"},
			{"Mountain", "Lion"},
			{"High", "Sierra"},
			{"El", "Capitan"},
			{"Big", "Sur"},
			{"Cheetah"},
			{"Puma"},
			{"Jaguar"},
			{"Panther"},
			{"Tiger"},
			{"Leopard"},
			{"Lion"},
			{"Mavericks"},
			{"Yosemite"},
			{"Sierra"},
			{"Mojave"},
			{"Catalina"},
			{"Monterey"},
			{"Ventura"},
			{"Sonoma"},
			{"Sequoia"},
		},
		Versions: versions,
	}
}
