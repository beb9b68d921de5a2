package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/depexplorer/pkg/config"
	"github.com/matzehuels/depexplorer/pkg/httputil"
	"github.com/matzehuels/depexplorer/pkg/integrations"
	remote "github.com/matzehuels/depexplorer/pkg/integrations/maven"
	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/maven"
	"github.com/matzehuels/depexplorer/pkg/pom"
)

// project is a loaded Maven reactor with the configuration it was read
// with.
type project struct {
	runID    string
	dir      string
	cfg      config.Config
	licenses *license.Model
	poms     []*pom.Pom
	logger   *log.Logger
}

// loadConfig reads --config, or the configuration found for dir, or the
// defaults.
func (c *CLI) loadConfig(dir string) (config.Config, string, error) {
	path := c.configPath
	if path == "" {
		path = config.Find(dir)
	}
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

// loadProject reads the reactor rooted at dir.
func (c *CLI) loadProject(ctx context.Context, dir string) (*project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := c.Logger.With("run", runID[:8])

	cfg, cfgPath, err := c.loadConfig(abs)
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		logger.Debug("Configuration", "file", cfgPath)
	}
	exploration, err := cfg.Exploration()
	if err != nil {
		return nil, err
	}
	model, err := cfg.LicenseModel(logger)
	if err != nil {
		return nil, err
	}

	repo := maven.DiscoverRepository(cfg.LocalRepository, abs)
	logger.Debug("Local repository", "dir", repo.Dir())

	opts := maven.Options{
		Exploration: exploration,
		Repository:  repo,
		Licenses:    model,
		Logger:      logger,
	}
	if cfg.Remote.Enabled {
		opts.Remote = c.remoteClient(cfg, logger)
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Reading "+abs)
	spinner.Start()
	poms, err := maven.NewLoader(opts).Crawl(ctx, abs)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d modules", len(poms)))

	return &project{
		runID:    runID,
		dir:      abs,
		cfg:      cfg,
		licenses: model,
		poms:     poms,
		logger:   logger,
	}, nil
}

// remoteClient returns the remote repository client. Caching is disabled
// when --no-cache is set or the cache directory is unusable.
func (c *CLI) remoteClient(cfg config.Config, logger *log.Logger) *remote.Client {
	client := remote.NewClient(cfg.Remote.URL, c.remoteCache(cfg, logger))
	return client.Refresh(c.refresh)
}

func (c *CLI) remoteCache(cfg config.Config, logger *log.Logger) *httputil.Cache {
	if c.noCache {
		return nil
	}
	cache, err := integrations.NewCache("", "maven:", cfg.Remote.CacheTTL)
	if err != nil {
		logger.Warn("Remote cache disabled", "err", err)
		return nil
	}
	return cache
}
