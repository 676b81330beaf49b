package sites

import (
	"io/ioutil"

	"github.com/ghodss/yaml"
	"github.com/gr80mcbr/lwfm"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envconfigPrefix = "SITES"

// Site holds what the sentinel needs to reach one site's run driver.
type Site struct {
	// Name is the engine-wide name of the site.
	Name string `json:"name,omitempty"`
	// Endpoint is the base URL of the site's run driver.
	Endpoint string `json:"endpoint"`
	// Token optionally bears credentials for the run driver.
	Token string `json:"token,omitempty"`
}

// Registry resolves site names to run driver endpoints.
type Registry interface {
	// Get returns the named site. If the site isn't registered, implementations
	// MUST return a *lwfm.ErrNotFound error.
	Get(name string) (Site, error)
}

type registry struct {
	sites           map[string]Site
	defaultEndpoint string
	defaultToken    string
}

type config struct {
	RegistryFile    string `envconfig:"REGISTRY_FILE"`
	DefaultEndpoint string `envconfig:"DEFAULT_ENDPOINT"`
	DefaultToken    string `envconfig:"DEFAULT_TOKEN"`
}

type registryFile struct {
	Sites map[string]Site `json:"sites"`
}

// NewRegistryFromEnvironment returns a Registry loaded from the YAML (or
// JSON) file named by SITES_REGISTRY_FILE. Sites absent from the file resolve
// to SITES_DEFAULT_ENDPOINT if one is set.
func NewRegistryFromEnvironment() (Registry, error) {
	c := config{}
	if err := envconfig.Process(envconfigPrefix, &c); err != nil {
		return nil, errors.Wrap(
			err,
			"error getting sites configuration from environment",
		)
	}
	r := &registry{
		sites:           map[string]Site{},
		defaultEndpoint: c.DefaultEndpoint,
		defaultToken:    c.DefaultToken,
	}
	if c.RegistryFile == "" {
		return r, nil
	}
	fileBytes, err := ioutil.ReadFile(c.RegistryFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading site registry file %s",
			c.RegistryFile,
		)
	}
	f := registryFile{}
	if err := yaml.Unmarshal(fileBytes, &f); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing site registry file %s",
			c.RegistryFile,
		)
	}
	for name, site := range f.Sites {
		site.Name = name
		r.sites[name] = site
	}
	return r, nil
}

// NewRegistry returns a Registry over the given sites. It's mostly useful for
// tests.
func NewRegistry(sites []Site) Registry {
	r := &registry{
		sites: map[string]Site{},
	}
	for _, site := range sites {
		r.sites[site.Name] = site
	}
	return r
}

func (r *registry) Get(name string) (Site, error) {
	if site, ok := r.sites[name]; ok {
		return site, nil
	}
	if r.defaultEndpoint != "" {
		return Site{
			Name:     name,
			Endpoint: r.defaultEndpoint,
			Token:    r.defaultToken,
		}, nil
	}
	return Site{}, lwfm.NewErrNotFound("Site", name)
}
