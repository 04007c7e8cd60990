// Package catalog ships built-in mock tool sets: local utilities plus canned
// Slack, Google, and GitHub operations. Mock handlers satisfy the same Handler
// contract as live integrations, so a registry built from this package behaves
// exactly like one wired to real services.
package catalog

import (
	"fmt"
	"time"

	"github.com/toolbus-dev/toolbus"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// Service is a named group of tools installed together.
type Service struct {
	Name  string
	Tools []toolbus.Tool
}

// Install registers every tool of each service under the namespaced name
// "<service>_<tool>", so tools from different services cannot collide.
func Install(reg *toolbus.Registry, services ...Service) error {
	for _, svc := range services {
		for _, t := range svc.Tools {
			t.Name = svc.Name + "_" + t.Name
			if err := reg.Register(t); err != nil {
				return fmt.Errorf("install %s: %w", svc.Name, err)
			}
		}
	}
	return nil
}

// New returns the named built-in service.
func New(name string, cfg Config) (Service, error) {
	switch name {
	case "utility":
		return Utility(cfg), nil
	case "slack":
		return Slack(cfg), nil
	case "google":
		return Google(cfg), nil
	case "github":
		return GitHub(cfg), nil
	default:
		return Service{}, fmt.Errorf("unknown service %q", name)
	}
}

// Build creates a registry populated with the services the config enables.
func Build(cfg Config) (*toolbus.Registry, error) {
	reg := toolbus.NewRegistry()
	for _, name := range cfg.Services {
		svc, err := New(name, cfg)
		if err != nil {
			return nil, err
		}
		if err := Install(reg, svc); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
