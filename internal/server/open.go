package server

import (
	"io"

	"github.com/Aierlanta/luoxu-web-ai/internal/config"
	"github.com/Aierlanta/luoxu-web-ai/internal/store"
	"github.com/Aierlanta/luoxu-web-ai/internal/watcher"
)

// Open validates cfg, opens the configured store and, for the file store,
// a watcher on the config file. The closer releases the store.
func Open(cfg *config.Config) (*Server, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	st, closer, err := store.Open(cfg.Store, cfg.StorePath())
	if err != nil {
		return nil, nil, err
	}

	var events *watcher.Service
	if cfg.Store == store.KindFile {
		events, err = watcher.NewFileWatcher(cfg.ConfigFile)
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
	}
	return New(cfg, st, events), closer, nil
}
