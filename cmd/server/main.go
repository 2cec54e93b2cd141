package main

import (
	"fmt"
	"os"

	_ "golang.org/x/crypto/x509roots/fallback"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
