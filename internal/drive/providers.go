// Package drive wraps the external storage provider's HTTP API and the
// per-user credential plumbing in front of it.
package drive

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed providers.yaml
var providersYAML []byte

// Provider describes one external storage provider's endpoints.
type Provider struct {
	Name           string `yaml:"name"`
	APIBase        string `yaml:"api_base"`
	UploadBase     string `yaml:"upload_base"`
	TokenURL       string `yaml:"token_url"`
	FolderMIMEType string `yaml:"folder_mime_type"`
}

type providerFile struct {
	Providers []Provider `yaml:"providers"`
}

// ProviderRegistry holds the provider profiles shipped with the binary.
type ProviderRegistry struct {
	providers map[string]Provider
}

// NewProviderRegistry loads the embedded provider profiles.
func NewProviderRegistry() (*ProviderRegistry, error) {
	var file providerFile
	if err := yaml.Unmarshal(providersYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider profiles: %w", err)
	}

	r := &ProviderRegistry{providers: make(map[string]Provider, len(file.Providers))}
	for _, p := range file.Providers {
		r.providers[p.Name] = p
	}

	return r, nil
}

// Get returns the named provider profile.
func (r *ProviderRegistry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("unknown drive provider: %s", name)
	}
	return p, nil
}
