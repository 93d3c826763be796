package main

import "github.com/jsphweid/dombratab/cmd"

func main() {
	cmd.Execute()
}
