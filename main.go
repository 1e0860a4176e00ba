package main

import (
	"fmt"
	"log"
	"os"

	"codepay/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		if _, err := fmt.Fprintf(os.Stderr, "codepay: %v\n", err); err != nil {
			log.Fatal(err)
		}
		os.Exit(1)
	}
}
