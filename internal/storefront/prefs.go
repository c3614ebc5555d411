package storefront

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Prefs is the durable client-side storage: the last-used phone number and
// the dark-mode flag survive across sessions.
type Prefs interface {
	Phone() string
	SetPhone(phone string) error
	DarkMode() bool
	SetDarkMode(on bool) error
}

type prefsData struct {
	Phone    string `json:"user_phone"`
	DarkMode bool   `json:"dark_mode"`
}

// FilePrefs persists preferences as a small JSON file.
type FilePrefs struct {
	mu   sync.Mutex
	path string
	data prefsData
}

// OpenPrefs loads (or initializes) the preference file at path.
func OpenPrefs(path string) (*FilePrefs, error) {
	p := &FilePrefs{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, errors.Wrap(err, "read prefs")
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		// corrupt file: start fresh rather than failing the page
		p.data = prefsData{}
	}
	return p, nil
}

func (p *FilePrefs) save() error {
	raw, err := json.Marshal(p.data)
	if err != nil {
		return errors.Wrap(err, "encode prefs")
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "prefs dir")
		}
	}
	return errors.Wrap(os.WriteFile(p.path, raw, 0o600), "write prefs")
}

func (p *FilePrefs) Phone() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Phone
}

func (p *FilePrefs) SetPhone(phone string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.Phone = phone
	return p.save()
}

func (p *FilePrefs) DarkMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.DarkMode
}

func (p *FilePrefs) SetDarkMode(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.DarkMode = on
	return p.save()
}
