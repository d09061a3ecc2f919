package main

import (
	"os"

	"github.com/htol/libapi/app"
)

func main() {
	os.Exit(app.CLI(os.Args[1:]))
}
