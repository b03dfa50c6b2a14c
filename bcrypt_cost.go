//go:build !race

package zenith

func passwordHashCost() int {
	return 12
}
