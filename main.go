package main

import "github.com/camden-git/gallerybackend/cmd"

func main() {
	cmd.Execute()
}
