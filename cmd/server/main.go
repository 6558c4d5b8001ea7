package main

import "github.com/Togather-Foundation/venues/cmd/server/cmd"

func main() {
	cmd.Execute()
}
