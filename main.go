package main

import "styleshop/cmd"

func main() {
	cmd.Execute()
}
