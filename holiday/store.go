package holiday

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	appLog "openinghours/internal/log"
)

// DefaultCalendar returns a small built-in calendar: the internationally
// common fixed days plus the Easter-derived ones. It is written out on first
// Load so deployments have a file to edit.
func DefaultCalendar() *Calendar {
	return &Calendar{
		Public: []Def{
			{Name: "New Year's Day", Kind: KindFixed, Month: 1, Day: 1},
			{Name: "Good Friday", Kind: KindEasterOffset, Offset: -2},
			{Name: "Easter Sunday", Kind: KindEasterOffset, Offset: 0},
			{Name: "Easter Monday", Kind: KindEasterOffset, Offset: 1},
			{Name: "Labour Day", Kind: KindFixed, Month: 5, Day: 1},
			{Name: "Christmas Day", Kind: KindFixed, Month: 12, Day: 25},
			{Name: "Boxing Day", Kind: KindFixed, Month: 12, Day: 26},
		},
		School: []Def{},
	}
}

// Normalize fills in defaults so partially-filled calendars still behave:
// names are trimmed, a missing kind on a def with month and day set becomes
// KindFixed, and nil groups become empty slices.
func (c *Calendar) Normalize() {
	for i := range c.Public {
		normalizeDef(&c.Public[i])
	}
	for i := range c.School {
		normalizeDef(&c.School[i])
	}
	if c.Public == nil {
		c.Public = []Def{}
	}
	if c.School == nil {
		c.School = []Def{}
	}
}

func normalizeDef(d *Def) {
	d.Name = strings.TrimSpace(d.Name)
	d.Weekday = strings.ToLower(strings.TrimSpace(d.Weekday))
	if d.Kind == "" && d.Month != 0 && d.Day != 0 {
		d.Kind = KindFixed
	}
}

// Validate checks every def; unknown kinds and out-of-range fields are
// errors.
func (c *Calendar) Validate() error {
	for _, d := range c.Public {
		if err := d.validate(); err != nil {
			return err
		}
	}
	for _, d := range c.School {
		if err := d.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Load loads a holiday calendar from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default calendar is written there (0600)
//     and returned.
//   - Otherwise the YAML is unmarshaled, normalized and validated.
func Load(path string) (*Calendar, error) {
	if path == "" {
		return nil, errors.New("holiday calendar path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cal := DefaultCalendar()
			appLog.Info("holiday calendar missing, writing defaults", "path", path)
			if err := Save(path, cal); err != nil {
				return cal, err
			}
			return cal, nil
		}
		return nil, errors.Wrap(err, "read holiday calendar")
	}

	var cal Calendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, errors.Wrap(err, "parse holiday calendar")
	}
	cal.Normalize()
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &cal, nil
}

// Save writes the calendar to path atomically (temp file + rename), creating
// the parent directory (0700) if needed and leaving the file at 0600.
func Save(path string, cal *Calendar) error {
	if path == "" {
		return errors.New("holiday calendar path is empty")
	}
	if cal == nil {
		return errors.New("holiday calendar is nil")
	}

	cal.Normalize()
	if err := cal.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create holiday calendar dir")
	}

	data, err := yaml.Marshal(cal)
	if err != nil {
		return errors.Wrap(err, "marshal holiday calendar")
	}

	tmp, err := os.CreateTemp(dir, ".holidays-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "rename temp file")
	}
	return nil
}

// Save is a convenience method delegating to the package-level Save.
func (c *Calendar) Save(path string) error {
	return Save(path, c)
}
