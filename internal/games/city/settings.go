package city

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/citywalk/internal/config"
	"github.com/vovakirdan/citywalk/internal/sim"
)

// Settings are the collaborators a Game builds its world with.
type Settings struct {
	City     config.CityConfig
	Logger   *log.Logger
	Recorder sim.Recorder
}

// settings used by the registry factory; set once by the CLI before any
// game is created, read by every SSH session afterwards.
var (
	settingsMu sync.RWMutex
	settings   = Settings{City: config.DefaultCityConfig()}
)

// Configure sets the settings used by games created through the registry.
func Configure(s Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = s
}

func configured() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}
