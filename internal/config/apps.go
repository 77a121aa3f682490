package config

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// Application identities known to the API.
const (
	AppTripbotDiscord = "TRIPBOT_DISCORD"
	AppMainWebsite    = "MAIN_WEBSITE"
)

// APITokenBytes is the number of random bytes behind each generated token.
const APITokenBytes = 48

// AppEntry is one row of the app-token table.
type AppEntry struct {
	ID       string `json:"id"`
	APIToken string `json:"apiToken"`
}

// AppsFile is the on-disk shape of the app-token table.
type AppsFile struct {
	Apps []AppEntry `json:"apps"`
}

// Apps resolves bearer tokens to application identities. It is immutable
// after construction and safe for concurrent use.
type Apps struct {
	entries []AppEntry
}

// NewApps builds a lookup from entries.
func NewApps(entries []AppEntry) *Apps {
	cp := make([]AppEntry, len(entries))
	copy(cp, entries)
	return &Apps{entries: cp}
}

// LoadApps reads the app-token table from path.
func LoadApps(path string) (*Apps, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read app table: %w", err)
	}

	var file AppsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse app table %s: %w", path, err)
	}

	for i, app := range file.Apps {
		if app.ID == "" {
			return nil, fmt.Errorf("app table %s: entry %d has no id", path, i)
		}
	}

	return NewApps(file.Apps), nil
}

// FindAppIDByAPIToken returns the application owning token.
func (a *Apps) FindAppIDByAPIToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, app := range a.entries {
		if app.APIToken == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(app.APIToken), []byte(token)) == 1 {
			return app.ID, true
		}
	}
	return "", false
}

// IDs lists the configured application ids.
func (a *Apps) IDs() []string {
	ids := make([]string, 0, len(a.entries))
	for _, app := range a.entries {
		ids = append(ids, app.ID)
	}
	return ids
}

// GenerateTokens returns a copy of example with a fresh random token for every app.
func GenerateTokens(example AppsFile) (AppsFile, error) {
	out := AppsFile{Apps: make([]AppEntry, len(example.Apps))}
	for i, app := range example.Apps {
		buf := make([]byte, APITokenBytes)
		if _, err := rand.Read(buf); err != nil {
			return AppsFile{}, fmt.Errorf("generate token for %s: %w", app.ID, err)
		}
		out.Apps[i] = AppEntry{ID: app.ID, APIToken: hex.EncodeToString(buf)}
	}
	return out, nil
}
