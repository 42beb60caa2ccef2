package predictor

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Section and key of usr_paths.ini holding the netMHCpan executable.
// Lookups are case-insensitive.
const (
	configSection string = "netMHCpan"
	configKey     string = "netMHCpan"
)

// LoadConfig reads the netMHCpan path from a usr_paths.ini file.
func LoadConfig(filename string) (NetMHCpan, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, filename)
	if err != nil {
		return NetMHCpan{}, err
	}
	sec, err := cfg.GetSection(configSection)
	if err != nil {
		return NetMHCpan{}, fmt.Errorf("%s: %w", filename, err)
	}
	key, err := sec.GetKey(configKey)
	if err != nil {
		return NetMHCpan{}, fmt.Errorf("%s: %w", filename, err)
	}
	if key.String() == "" {
		return NetMHCpan{}, fmt.Errorf("%s: empty %s path", filename, configKey)
	}
	return NetMHCpan{Bin: key.String()}, nil
}
