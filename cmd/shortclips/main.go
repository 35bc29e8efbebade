package main

import "github.com/meet1785/shortclips/internal/cli"

func main() {
	cli.Main()
}
