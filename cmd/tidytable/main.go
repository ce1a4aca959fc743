// cmd/tidytable/main.go
package main

func main() {
	Execute()
}
