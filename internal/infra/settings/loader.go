package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	domainsettings "homestay/internal/domain/settings"
)

// LoadFile reads site settings from a TOML file. A missing file yields the zero settings
// (no fee, full payment only) so local runs work without one.
func LoadFile(path string) (domainsettings.SiteSettings, error) {
	if strings.TrimSpace(path) == "" {
		return domainsettings.SiteSettings{}, nil
	}
	var raw domainsettings.Raw
	meta, err := toml.DecodeFile(path, &raw)
	if errors.Is(err, fs.ErrNotExist) {
		return domainsettings.SiteSettings{}, nil
	}
	if err != nil {
		return domainsettings.SiteSettings{}, fmt.Errorf("settings: decode %s: %w", path, err)
	}
	if err := rejectUnknown(meta); err != nil {
		return domainsettings.SiteSettings{}, fmt.Errorf("settings: %s: %w", path, err)
	}
	return raw.Normalize(), nil
}

func Decode(data string) (domainsettings.SiteSettings, error) {
	var raw domainsettings.Raw
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return domainsettings.SiteSettings{}, fmt.Errorf("settings: decode: %w", err)
	}
	if err := rejectUnknown(meta); err != nil {
		return domainsettings.SiteSettings{}, err
	}
	return raw.Normalize(), nil
}

func rejectUnknown(meta toml.MetaData) error {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return fmt.Errorf("settings: unknown keys %s", strings.Join(keys, ", "))
}
