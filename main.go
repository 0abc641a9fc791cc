package main

import (
	"os"

	"github.com/recipebook/recipebook-web/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
