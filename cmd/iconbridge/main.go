package main

import "github.com/johanforsgren/iconbridge/internal/cli"

func main() {
	cli.Execute()
}
