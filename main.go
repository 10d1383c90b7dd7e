package main

import "github.com/stayscout/yt-reviews/cmd"

func main() {
	cmd.Execute()
}
