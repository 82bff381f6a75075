package main

import "github.com/sm1l43s/movies/cmd"

func main() {
	cmd.Execute()
}
