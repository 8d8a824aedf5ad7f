package main

import "github.com/cristianadrielbraun/qrforge/cmd"

func main() {
	cmd.Execute()
}
