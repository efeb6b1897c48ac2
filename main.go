package main

import "github.com/papapumpkin/montage/cmd"

func main() {
	cmd.Execute()
}
