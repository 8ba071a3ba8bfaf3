package main

import "github.com/kestrelengine/spatial/cmd/recast/cmd"

func main() {
	cmd.Execute()
}
