package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON slog handler on stdout as the process default. It
// covers startup before the database is reachable; once it is, main swaps
// the default for a MultiHandler that also batches errors into Postgres.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
