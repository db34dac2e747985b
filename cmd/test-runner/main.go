// Package main - test_runner.go
// Executable to run the scripted combat scenarios.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/MRamiBalles/tickmud/server/test"
)

func main() {
	fmt.Println("TICKMUD - COMBAT SCENARIO SUITE")
	fmt.Println(strings.Repeat("=", 60))

	results := test.RunAll()
	passed := 0
	failed := 0

	for _, r := range results {
		mark := "PASS"
		if r.Passed {
			passed++
		} else {
			failed++
			mark = "FAIL"
		}
		fmt.Printf("[%s] %-30s ticks=%-4d %s\n", mark, r.ScenarioName, r.Ticks, r.Reason)
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("   Passed: %d\n", passed)
	fmt.Printf("   Failed: %d\n", failed)

	if failed > 0 {
		os.Exit(1)
	}
}
