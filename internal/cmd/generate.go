package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/csogen/internal/config"
	"github.com/cameronsjo/csogen/internal/docker"
	"github.com/cameronsjo/csogen/internal/fileutil"
	"github.com/cameronsjo/csogen/internal/manifest"
	"github.com/cameronsjo/csogen/internal/params"
	"github.com/cameronsjo/csogen/internal/render"
	"github.com/cameronsjo/csogen/internal/ui"
	"github.com/cameronsjo/csogen/internal/version"
)

// Template parameter keys set by the generator itself.
const (
	keyLogo           = "logo"
	keyContainerImage = "container_image"
	keyK8sAPIVersion  = "k8s_api_version"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	// Acquire logs while parsing, before --verbose is bound.
	ui.SetVerbose(verboseRequested(args))
	ui.DetectColor()

	res, err := params.Acquire(params.BaseSchema(), args)
	if err != nil {
		ui.Error("%v", err)
		return err
	}
	if res.Bool(params.KeyHelp) {
		return cmd.Help()
	}
	ui.SetVerbose(res.Bool(params.KeyVerbose))

	cfg, err := config.Load(res.String(params.KeyConfig))
	if err != nil {
		ui.Error("%v", err)
		return err
	}
	if rt := res.String(params.KeyRuntime); rt != "" {
		cfg.Runtime = rt
	}

	ui.Header("%s %s", cfg.PackageName, res.String(params.KeyVersion))
	written, err := generate(cmd.Context(), cfg, res)
	if err != nil {
		ui.Error("%v", err)
		return err
	}
	for _, path := range written {
		ui.Success("Wrote %s", path)
	}
	return nil
}

// generate runs the pipeline for parsed arguments and returns the files
// written. Every document is rendered before anything touches the disk.
func generate(ctx context.Context, cfg *config.Config, res *params.Result) ([]string, error) {
	current := res.String(params.KeyVersion)
	previous := res.String(params.KeyPreviousVersion)
	if err := version.CheckUpgrade(current, previous); err != nil {
		ui.Warning("%v", err)
	}

	format, err := manifest.ParseFormat(res.String(params.KeyFormat))
	if err != nil {
		return nil, err
	}

	ui.Step(1, "Resolving image")
	data, err := buildParameters(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	ui.Step(2, "Rendering templates")
	docs, err := renderDocuments(cfg, res.String(params.KeyWorkdir), current, data)
	if err != nil {
		return nil, err
	}

	outDir := manifest.OutputDir(res.String(params.KeyOutputDir), cfg.ManifestRoot(), current)
	ui.Step(3, "Writing %d manifests to %s", len(docs), outDir)
	return manifest.NewEmitter(outDir).Write(docs, format)
}

// buildParameters assembles the template parameters: the dynamic flags, then
// the values the generator computes. k8s_api_version keeps a dynamic value
// when one was given.
func buildParameters(ctx context.Context, cfg *config.Config, res *params.Result) (params.ParameterSet, error) {
	downstream := res.Bool(params.KeyDownstream)

	logo, err := fileutil.ReadBase64(cfg.LogoPath(res.String(params.KeyWorkdir), downstream))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}

	image, err := containerImage(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	data := res.DynamicValues()
	data[params.KeyVersion] = res.String(params.KeyVersion)
	if previous := res.String(params.KeyPreviousVersion); previous != "" {
		data[params.KeyPreviousVersion] = previous
	} else {
		data[params.KeyPreviousVersion] = nil
	}
	data[keyLogo] = logo
	data[keyContainerImage] = image
	data[params.KeyDownstream] = downstream
	if _, ok := data[keyK8sAPIVersion]; !ok {
		data[keyK8sAPIVersion] = cfg.K8sAPIVersion
	}

	ui.Debug("Template parameters: %s", strings.Join(sortedKeys(data), ", "))
	return data, nil
}

// containerImage returns the image reference for the CSV: pinned to its
// digest, or as given when pulling is skipped.
func containerImage(ctx context.Context, cfg *config.Config, res *params.Result) (string, error) {
	ref := res.String(params.KeyImage)
	if ref == "" {
		ref = cfg.DefaultImage()
	}

	if res.Bool(params.KeySkipPull) {
		ui.Warning("Skipping pull, using %s unpinned", ref)
		return ref, nil
	}

	var resolved *docker.ResolvedImage
	err := withImageRuntime(cfg, res.Bool(params.KeyRuntimeAPI), func(rt docker.ImageRuntime) error {
		var err error
		resolved, err = docker.NewResolver(rt, cfg.PullTimeout).Resolve(ctx, ref)
		return err
	})
	if err != nil {
		return "", err
	}

	ui.Info("Using image %s", resolved)
	return resolved.String(), nil
}

// renderDocuments renders the CSV template and every CRD template.
func renderDocuments(cfg *config.Config, workdir, rawVersion string, data params.ParameterSet) ([]manifest.Document, error) {
	renderer := render.New(cfg.TemplatePath(workdir))

	csv, err := renderer.Render(cfg.CSVTemplate, data)
	if err != nil {
		return nil, err
	}
	docs := []manifest.Document{{
		Template: cfg.CSVTemplate,
		Name:     manifest.CSVFileName(cfg.CSVTemplate, rawVersion, cfg.TemplateMarker),
		Content:  csv,
	}}

	crds, err := crdTemplates(cfg, renderer.Root())
	if err != nil {
		return nil, err
	}
	for _, name := range crds {
		content, err := renderer.Render(name, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, manifest.Document{
			Template: name,
			Name:     manifest.CRDFileName(name, cfg.TemplateMarker),
			Content:  content,
		})
	}

	return docs, nil
}

// crdTemplates returns the configured CRD templates, or the ones matching
// the CRD pattern when none are configured. Names without the CRD suffix are
// skipped.
func crdTemplates(cfg *config.Config, root string) ([]string, error) {
	names := cfg.CRDTemplates
	if len(names) == 0 {
		discovered, err := render.Discover(root, cfg.CRDPattern)
		if err != nil {
			return nil, err
		}
		if len(discovered) == 0 {
			return nil, fmt.Errorf("no CRD templates in %s match %s", root, cfg.CRDPattern)
		}
		names = discovered
	}

	var out []string
	for _, name := range names {
		if !strings.HasSuffix(name, cfg.CRDSuffix()) {
			ui.Warning("Skipping %s: not a %s template", name, cfg.CRDSuffix())
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// verboseRequested reports whether args ask for verbose output.
func verboseRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}

func sortedKeys(m params.ParameterSet) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
