package main

import "github.com/ermolaev/vite-plugin-turbo-reload/cmd"

func main() {
	cmd.Execute()
}
