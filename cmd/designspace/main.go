package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := defaultOptions().execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
