package main

import "github.com/vibast-solutions/ms-go-bayarcash/cmd"

func main() {
	cmd.Execute()
}
