// Command surfer ranks the nodes of a link graph by random-surfer popularity.
package main

import "github.com/papapumpkin/surfer/cmd"

func main() {
	cmd.Execute()
}
