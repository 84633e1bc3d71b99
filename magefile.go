//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "freestyle"

// Default target to run when none is specified
var Default = Build

// Build compiles the freestyle binary into the repository root
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/freestyle")
}

// Test runs all tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install installs the binary into $GOPATH/bin
func Install() error {
	mg.Deps(Vet)
	return sh.RunV("go", "install", "./cmd/freestyle")
}

// Clean removes the built binary
func Clean() error {
	return os.RemoveAll(binary)
}
