package main

import "github.com/harrisonrobin/taskplan/pkg/cli"

func main() {
	cli.Execute()
}
