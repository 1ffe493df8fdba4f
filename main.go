package main

import "github.com/KaramelBytes/sosdash/cmd"

func main() {
	cmd.Execute()
}
