package cli

import (
	"log/slog"

	"github.com/roach88/dendro/internal/store"
)

// openStore opens the archive at path. The returned close function logs
// instead of failing, so it can be deferred.
func openStore(path string) (*store.Store, func(), error) {
	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return st, func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}, nil
}
