package parsers

import (
	"fmt"
	"plugin"
)

// openShared loads a Go plugin built with -buildmode=plugin
func openShared(path string) (Plugin, error) {
	so, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parser %s: %w", path, err)
	}

	sym, err := so.Lookup("Plugin")
	if err != nil {
		return nil, fmt.Errorf("failed to load parser %s: %w", path, err)
	}

	switch p := sym.(type) {
	case Plugin:
		return p, nil
	case *Plugin:
		if *p != nil {
			return *p, nil
		}
	}
	return nil, fmt.Errorf("parser %s: symbol Plugin does not implement parsers.Plugin", path)
}
