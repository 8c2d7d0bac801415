// Package app wires the pieces shared by every entry point.
package app

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/davidbz/shahsearch/internal/config"
	"github.com/davidbz/shahsearch/internal/domain"
	"github.com/davidbz/shahsearch/internal/function"
	"github.com/davidbz/shahsearch/internal/observability"
	"github.com/davidbz/shahsearch/internal/provider/perplexity"
)

// BuildContainer provides configuration, logging, the upstream provider, the search
// service and the invocation handler. Transports add their own constructors on top.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []struct {
		name        string
		constructor interface{}
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},
		{"credentials", config.Credentials},

		// Observability
		{"logger", observability.InitLogger},

		// Upstream
		{"Perplexity provider", func(cfg *perplexity.Config) (domain.Provider, error) {
			return perplexity.NewProvider(*cfg)
		}},

		// Domain Services
		{"search service", domain.NewSearchService},
		{"searcher", func(service *domain.SearchService) function.Searcher {
			return service
		}},

		// Invocation handler
		{"function handler", function.NewHandler},
	}

	for _, c := range constructors {
		if err := container.Provide(c.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", c.name, err)
		}
	}

	return container, nil
}
