// Package config holds the generator configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfigFile = "CSOGEN_CONFIG"
	EnvRuntime    = "CSOGEN_RUNTIME"
)

// Config holds every constant the generator needs: where the templates live,
// how outputs are named, and which image is pinned by default.
type Config struct {
	// PackageName is the OLM package the manifests belong to.
	PackageName string `yaml:"package_name"`

	// RegistryHost, ImageRepo and ImageTag build the default image reference.
	RegistryHost string `yaml:"registry_host"`
	ImageRepo    string `yaml:"image_repo"`
	ImageTag     string `yaml:"image_tag"`

	// TemplateDir is relative to the workdir.
	TemplateDir string `yaml:"template_dir"`

	// TemplateMarker is the suffix stripped from template names to form output names.
	TemplateMarker string `yaml:"template_marker"`

	// CSVTemplate is the single ClusterServiceVersion template.
	CSVTemplate string `yaml:"csv_template"`

	// CRDTemplates lists CRD templates explicitly. When empty, every template
	// matching CRDPattern is rendered.
	CRDTemplates []string `yaml:"crd_templates"`
	CRDPattern   string   `yaml:"crd_pattern"`

	// Logo paths are relative to the workdir.
	UpstreamLogo   string `yaml:"upstream_logo"`
	DownstreamLogo string `yaml:"downstream_logo"`

	// ManifestDir is the segment under the output dir, before the package name.
	ManifestDir string `yaml:"manifest_dir"`

	// K8sAPIVersion is the default for the k8s_api_version template key.
	K8sAPIVersion string `yaml:"k8s_api_version"`

	// Runtime is the container runtime binary used to pull and inspect images.
	Runtime string `yaml:"runtime"`

	// PullTimeout bounds each pull or inspect call.
	PullTimeout time.Duration `yaml:"pull_timeout"`
}

// Default returns the configuration for the container-security-operator.
func Default() *Config {
	const pkg = "container-security-operator"
	return &Config{
		PackageName:    pkg,
		RegistryHost:   "quay.io",
		ImageRepo:      "projectquay/" + pkg,
		ImageTag:       "master",
		TemplateDir:    "templates",
		TemplateMarker: ".tmpl",
		CSVTemplate:    pkg + ".clusterserviceversion.yaml.tmpl",
		CRDTemplates:   []string{"imagemanifestvulns.secscan.quay.redhat.com.crd.yaml.tmpl"},
		CRDPattern:     "*.crd.yaml.tmpl",
		UpstreamLogo:   filepath.Join("img", "upstream_logo.png"),
		DownstreamLogo: filepath.Join("img", "downstream_logo.png"),
		ManifestDir:    "manifests",
		K8sAPIVersion:  "v1alpha1",
		Runtime:        "docker",
		PullTimeout:    10 * time.Minute,
	}
}

// Load returns the defaults overlaid with the YAML file at path (or the file
// named by CSOGEN_CONFIG when path is empty) and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if rt := os.Getenv(EnvRuntime); rt != "" {
		cfg.Runtime = rt
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the pipeline relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.PackageName == "" {
		errs = append(errs, errors.New("package_name is required"))
	}
	if c.TemplateMarker == "" {
		errs = append(errs, errors.New("template_marker is required"))
	}
	if !strings.HasSuffix(c.CSVTemplate, ".clusterserviceversion.yaml"+c.TemplateMarker) {
		errs = append(errs, fmt.Errorf("csv_template %q must end with .clusterserviceversion.yaml%s", c.CSVTemplate, c.TemplateMarker))
	}
	if len(c.CRDTemplates) == 0 && c.CRDPattern == "" {
		errs = append(errs, errors.New("one of crd_templates or crd_pattern is required"))
	}
	if c.Runtime == "" {
		errs = append(errs, errors.New("runtime is required"))
	}
	if c.PullTimeout <= 0 {
		errs = append(errs, errors.New("pull_timeout must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DefaultImage returns the image reference used when none is given.
func (c *Config) DefaultImage() string {
	return c.RegistryHost + "/" + c.ImageRepo + ":" + c.ImageTag
}

// CRDSuffix is the filename suffix that selects CRD templates.
func (c *Config) CRDSuffix() string {
	return ".crd.yaml" + c.TemplateMarker
}

// TemplatePath returns the template root for the given workdir.
func (c *Config) TemplatePath(workdir string) string {
	return filepath.Join(workdir, c.TemplateDir)
}

// LogoPath returns the logo for the selected distribution.
func (c *Config) LogoPath(workdir string, downstream bool) string {
	if downstream {
		return filepath.Join(workdir, c.DownstreamLogo)
	}
	return filepath.Join(workdir, c.UpstreamLogo)
}

// ManifestRoot returns the output subtree shared by every version.
func (c *Config) ManifestRoot() string {
	return filepath.Join(c.ManifestDir, c.PackageName)
}
