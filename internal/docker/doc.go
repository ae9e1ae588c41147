// Package docker resolves image references to content digests.
//
// A Resolver pulls and inspects an image through an ImageRuntime and pins the
// reference to the sha256 digest the runtime records for the repository.
// CLIRuntime shells out to a container runtime binary (docker, podman);
// APIRuntime talks to the Docker Engine API.
//
// # Interface Abstraction
//
// The ImageAPI interface abstracts the Docker SDK and CommandRunner abstracts
// process execution, enabling mock injection for testing.
//
// # Example
//
//	runtime := docker.NewCLIRuntime("docker")
//	defer runtime.Close()
//
//	image, err := docker.NewResolver(runtime, 10*time.Minute).Resolve(ctx, "quay.io/org/app:v1.2.3")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(image) // quay.io/org/app@sha256:...
package docker
