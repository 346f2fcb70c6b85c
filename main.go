package main

import "pipr/internal/cli"

func main() {
	cli.Execute()
}
