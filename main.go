package main

import "github.com/tranvantrung27/herbadmin/cmd"

func main() {
	cmd.Execute()
}
