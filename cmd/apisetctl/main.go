// Command apisetctl builds, decompiles and queries Windows API set schemas.
package main

func main() {
	execute()
}
