package manifest

import (
	"path/filepath"
	"strings"

	"github.com/cameronsjo/csogen/internal/version"
)

// OutputDir returns <outputDir>/<manifestRoot>/<version without v>.
func OutputDir(outputDir, manifestRoot, rawVersion string) string {
	return filepath.Join(outputDir, manifestRoot, version.Normalize(rawVersion))
}

// CSVFileName splices rawVersion after the first dot-separated segment of the
// template name and drops the template marker:
//
//	container-security-operator.clusterserviceversion.yaml.tmpl
//	-> container-security-operator.v1.2.3.clusterserviceversion.yaml
func CSVFileName(template, rawVersion, marker string) string {
	name := strings.TrimSuffix(template, marker)
	head, tail, found := strings.Cut(name, ".")
	if !found {
		return name + "." + rawVersion
	}
	return head + "." + rawVersion + "." + tail
}

// CRDFileName drops the template marker from a CRD template name.
func CRDFileName(template, marker string) string {
	return strings.TrimSuffix(template, marker)
}

// jsonName swaps a trailing .yaml (or .yml) extension for .json.
func jsonName(name string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext) + ".json"
		}
	}
	return name + ".json"
}
