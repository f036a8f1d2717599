// Package animal is a small example of interface polymorphism.
// It is unrelated to the person service.
package animal

// Animal is any creature that can make a sound and move. There is no
// way to build a bare Animal: the interface has no concrete value.
type Animal interface {
	ProduceSound() string
	Move() string
}

// Dog is the one concrete Animal.
type Dog struct{}

var _ Animal = Dog{}

func (Dog) ProduceSound() string { return "Woof!" }

func (Dog) Move() string { return "Runs on four legs" }
