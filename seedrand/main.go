// Seedrand implementation.
package main

import "github.com/nupic-community/seedrand/seedrand/cmd"

func main() {
	cmd.Execute()
}
