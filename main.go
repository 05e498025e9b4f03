package main

import "github.com/springymate/book-scanner/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
