package main

import "recsys/internal/cli"

func main() {
	cli.Execute()
}
