//go:build ignore

package main

import (
	"os"
	"os/exec"
)

func main() {
	targets := []string{"./bin/liftsim"}
	srcs := []string{"./cmd/liftsim"}

	for i := range targets {
		cmd := exec.Command("go", "build", "-o", targets[i], srcs[i])
		cmd.Stderr = os.Stderr
		cmd.Stdout = os.Stdout
		err := cmd.Run()
		if err != nil {
			os.Exit(1)
		}
	}

	os.Exit(0)
}
