package main

import "github.com/sgaunet/s3browse/cmd"

func main() {
	cmd.Execute()
}
