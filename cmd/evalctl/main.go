package main

import "github.com/bryanwahyu/image-evaluator/internal/cli"

func main() {
	cli.Execute()
}
