package main

import "github.com/funvibe/tourte/pkg/cli"

func main() {
	cli.Run()
}
