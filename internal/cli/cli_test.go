package cli

import "log/slog"

func testCLILogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
