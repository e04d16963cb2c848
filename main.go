package main

import "github.com/Belphemur/ShowFinder/cmd"

func main() {
	cmd.Execute()
}
