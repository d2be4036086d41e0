// cmd/apicall/main.go
package main

import "github.com/deploymenttheory/go-api-token-client/internal/cli"

func main() {
	cli.Execute()
}
