package main

import "github.com/forPelevin/ytpgen/internal/cli"

func main() {
	cli.Main()
}
