package main

import "github.com/eteb/Smart-File-Tool/cmd"

func main() {
	cmd.Execute()
}
