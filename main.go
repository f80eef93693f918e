package main

import "github.com/msomdec/ekaksh/internal/cli"

func main() {
	cli.Execute()
}
