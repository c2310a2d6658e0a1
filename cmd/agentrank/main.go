package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if _, werr := fmt.Fprintln(os.Stderr, "Error:", err); werr != nil {
			fmt.Println("Error:", err)
		}
		os.Exit(1)
	}
}
