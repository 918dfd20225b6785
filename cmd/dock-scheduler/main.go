package main

import (
	"log"

	"github.com/andeslogistics/dock-scheduler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
