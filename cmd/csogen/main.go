// Command csogen generates the OLM manifests for the container-security-operator.
package main

import "github.com/cameronsjo/csogen/internal/cmd"

func main() {
	cmd.Execute()
}
