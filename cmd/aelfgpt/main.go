package main

import "aelfgpt/cmd/aelfgpt/cli"

func main() {
	cli.Execute()
}
