package bot

import "math/rand"

var (
	adjectives = []string{"Cool", "Amazing", "Fantastic", "Ultra", "Super", "Mega", "Hyper", "Smart", "Eco", "Prime"}
	nouns      = []string{"Widget", "Gadget", "Device", "Item", "Tool", "Gear", "Product", "Instrument", "Module", "System"}
)

// GenerateProductNames returns n distinct random commodity names. n is
// clamped to the number of possible combinations.
func GenerateProductNames(n int) []string {
	if combos := len(adjectives) * len(nouns); n > combos {
		n = combos
	}

	seen := make(map[string]bool, n)
	names := make([]string, 0, n)
	for len(names) < n {
		name := adjectives[rand.Intn(len(adjectives))] + " " + nouns[rand.Intn(len(nouns))]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
