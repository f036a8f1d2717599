package animal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDog(t *testing.T) {
	var a Animal = Dog{}

	assert.Equal(t, "Woof!", a.ProduceSound())
	assert.Equal(t, "Runs on four legs", a.Move())
}

func TestZeroAnimalHasNoBehaviour(t *testing.T) {
	// The only Animal value that exists without a variant is nil.
	var a Animal
	assert.Nil(t, a)
	assert.Panics(t, func() { _ = a.ProduceSound() })
}
