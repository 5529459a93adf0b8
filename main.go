package main

import "github.com/mabhi256/dltq/cmd"

func main() {
	cmd.Execute()
}
