package system

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rook-computer/bangasa/internal/clock"
	"github.com/rook-computer/bangasa/internal/watchface"
)

const (
	localtimePath           = "/etc/localtime"
	defaultTimezoneInterval = 5 * time.Second
)

// TimezoneSource watches /etc/localtime. When it changes, the zone is
// reloaded into Clock and TimezoneChanged is posted.
type TimezoneSource struct {
	Path     string
	Interval time.Duration
	Clock    *clock.ZoneClock
	Logger   logger
	// Load reads a location from the watched file.
	Load func(path string) (*time.Location, error)

	poller
}

func NewTimezoneSource(c *clock.ZoneClock) *TimezoneSource {
	return &TimezoneSource{
		Path:     localtimePath,
		Interval: defaultTimezoneInterval,
		Clock:    c,
		Logger:   noopLogger{},
		Load:     LoadLocation,
	}
}

// LoadLocation names the zone after the zoneinfo symlink target when there is one.
func LoadLocation(path string) (*time.Location, error) {
	name := "Local"
	if target, err := os.Readlink(path); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			name = target[i+len("zoneinfo/"):]
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return time.LoadLocationFromTZData(name, data)
}

type zoneStamp struct {
	target  string
	modTime time.Time
	size    int64
}

func stampOf(path string) (zoneStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return zoneStamp{}, err
	}
	target, _ := filepath.EvalSymlinks(path)
	return zoneStamp{target: target, modTime: info.ModTime(), size: info.Size()}, nil
}

func (s *TimezoneSource) Subscribe(post func(watchface.Event) bool) error {
	stamp, err := stampOf(s.Path)
	if err != nil {
		return err
	}
	s.start(post, func(ctx context.Context, post func(watchface.Event) bool) {
		s.loop(ctx, post, stamp)
	})
	return nil
}

func (s *TimezoneSource) Unsubscribe() { s.stop() }

func (s *TimezoneSource) loop(ctx context.Context, post func(watchface.Event) bool, last zoneStamp) {
	interval := s.Interval
	if interval <= 0 {
		interval = defaultTimezoneInterval
	}
	for sleep(ctx, interval) {
		var changed bool
		last, changed = s.check(last)
		if changed && !post(watchface.TimezoneChanged{}) {
			return
		}
	}
}

// check reloads the zone if the file changed since last.
func (s *TimezoneSource) check(last zoneStamp) (zoneStamp, bool) {
	stamp, err := stampOf(s.Path)
	if err != nil || stamp == last {
		return last, false
	}
	load := s.Load
	if load == nil {
		load = LoadLocation
	}
	loc, err := load(s.Path)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Errorf("timezone", "reload %s: %v", s.Path, err)
		}
		return stamp, false
	}
	if s.Clock != nil {
		s.Clock.SetLocation(loc)
	}
	if s.Logger != nil {
		s.Logger.Infof("timezone", "zone now %s", loc)
	}
	return stamp, true
}
