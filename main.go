package main

import "gymku_backend/cmd"

func main() {
	cmd.Execute()
}
