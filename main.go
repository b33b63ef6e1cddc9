package main

import "github.com/icodeforyou/elpris-go/cmd"

func main() {
	cmd.Execute()
}
