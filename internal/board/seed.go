package board

import "fmt"

// Seed adds containers and, to each of them, items through the engine so observers see the
// same transitions a user would produce.
func Seed(e *Engine, containers, items int) error {
	for i := 0; i < containers; i++ {
		c, err := e.AddContainer()
		if err != nil {
			return fmt.Errorf("seed container %d: %w", i+1, err)
		}
		for j := 0; j < items; j++ {
			if _, err := e.AddItem(c); err != nil {
				return fmt.Errorf("seed item in %s: %w", c, err)
			}
		}
	}
	return nil
}
