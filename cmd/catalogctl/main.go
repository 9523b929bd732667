// Command catalogctl runs the storefront's filter and sort engine against the
// catalog from a terminal.
package main

func main() {
	Execute()
}
