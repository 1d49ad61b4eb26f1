package main

import "github.com/Johell1NS/StepGenerator/cmd"

func main() {
	cmd.Execute()
}
