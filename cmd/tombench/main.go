package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Harshitk-cp/tombench/internal/cli"
)

func main() {
	if err := cli.New().Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
