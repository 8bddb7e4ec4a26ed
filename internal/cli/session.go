package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/livesboard/livesboard/internal/backend/rest"
	"github.com/livesboard/livesboard/internal/infra"
)

// storedSession is the on-disk session shape. Expiry lives inside the access
// token, so only the tokens are persisted.
type storedSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func sessionFilePath(cfg *infra.Config) string {
	if cfg.SessionFile != "" {
		return cfg.SessionFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".livesboard/session.json"
	}
	return filepath.Join(home, ".livesboard", "session.json")
}

// restoreSession loads the persisted tokens into the client. A missing or
// unreadable session file means signed out.
func restoreSession(client *rest.Client, cfg *infra.Config, logger *slog.Logger) {
	data, err := os.ReadFile(sessionFilePath(cfg))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("read session file", "error", err)
		}
		return
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("parse session file", "error", err)
		return
	}
	if stored.AccessToken == "" || stored.RefreshToken == "" {
		return
	}

	session, err := rest.SessionFromTokens(stored.AccessToken, stored.RefreshToken)
	if err != nil {
		logger.Warn("restore session", "error", err)
		return
	}
	client.SetSession(session)
}

// persistSession writes the current session tokens to disk, or removes the
// file after sign-out. Tokens refreshed during the command survive to the
// next invocation this way.
func persistSession(ctx context.Context, client *rest.Client, cfg *infra.Config, logger *slog.Logger) {
	if client == nil || cfg == nil {
		return
	}

	path := sessionFilePath(cfg)
	session, err := client.Session(ctx)
	if err != nil {
		logger.Debug("read session for persistence", "error", err)
		return
	}
	if session == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove session file", "error", err)
		}
		return
	}

	data, err := json.Marshal(storedSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
	if err != nil {
		logger.Warn("encode session", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		logger.Warn("create session dir", "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		logger.Warn("write session file", "error", err)
	}
}
