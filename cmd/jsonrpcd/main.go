// Command jsonrpcd serves JSON-RPC 2.0 batches over HTTP.
package main

func main() {
	Execute()
}
