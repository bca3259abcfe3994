package main

import "github.com/emilpriver/geni/internal/cli"

func main() {
	cli.Execute()
}
