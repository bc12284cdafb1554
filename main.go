package main

import "ai_copywriter/cmd"

func main() {
	cmd.Execute()
}
