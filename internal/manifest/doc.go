// Package manifest names and writes the generated OLM manifests.
//
// Rendered documents land in a versioned directory:
//
//	<output-dir>/manifests/<package>/<version without v>/
//
// The ClusterServiceVersion file carries the raw version in its name
// (container-security-operator.v1.2.3.clusterserviceversion.yaml); CRD files
// keep their template name minus the template marker.
//
// # Formats
//
// Documents are written as rendered (FormatYAML) or converted to JSON
// (FormatJSON), in which case the .yaml extension becomes .json. Every
// conversion completes before the first file is written, so a document that
// is not valid YAML leaves the output directory untouched.
package manifest
