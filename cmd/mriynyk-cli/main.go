package main

import (
	"log"

	"github.com/mithrel/mriynyk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
