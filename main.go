// main.go
package main

import "experience-market/cmd"

func main() {
	cmd.Execute()
}
