package main

import "github.com/KaramelBytes/alsobought-cli/cmd"

func main() {
	cmd.Execute()
}
