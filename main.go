package main

import (
	"log"
	"os"

	"gather/cmd"
)

func main() {
	app := cmd.NewGather()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
