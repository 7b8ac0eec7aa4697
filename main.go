package main

import "github.com/CosmoTheDev/tfwatch/cmd"

func main() {
	cmd.Execute()
}
