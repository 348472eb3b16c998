package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rook-computer/bangasa/internal/watchface"
)

const (
	powerSupplyRoot        = "/sys/class/power_supply"
	defaultBatteryInterval = 30 * time.Second
)

// FindBattery returns the first power supply whose type is Battery.
func FindBattery() (string, error) {
	dirs, err := filepath.Glob(filepath.Join(powerSupplyRoot, "*"))
	if err != nil {
		return "", err
	}
	for _, dir := range dirs {
		typ, err := os.ReadFile(filepath.Join(dir, "type"))
		if err == nil && strings.TrimSpace(string(typ)) == "Battery" {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no battery under %s", powerSupplyRoot)
}

// ReadBattery reads capacity and status from a sysfs power supply directory.
// A full battery on the charger counts as charging.
func ReadBattery(dir string) (level int, charging bool, err error) {
	raw, err := os.ReadFile(filepath.Join(dir, "capacity"))
	if err != nil {
		return 0, false, fmt.Errorf("read capacity: %w", err)
	}
	level, err = strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, fmt.Errorf("parse capacity %q: %w", strings.TrimSpace(string(raw)), err)
	}
	level = max(0, min(level, 100))

	status, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return level, false, nil
	}
	switch strings.TrimSpace(string(status)) {
	case "Charging", "Full":
		charging = true
	}
	return level, charging, nil
}

// BatterySource polls a sysfs battery and posts BatteryChanged when the
// reading changes, and once right after subscribing.
type BatterySource struct {
	Dir      string
	Interval time.Duration
	Logger   logger

	poller
}

func NewBatterySource(dir string) *BatterySource {
	return &BatterySource{Dir: dir, Interval: defaultBatteryInterval, Logger: noopLogger{}}
}

func (s *BatterySource) Subscribe(post func(watchface.Event) bool) error {
	if s.Dir == "" {
		return fmt.Errorf("battery: no supply directory")
	}
	if _, _, err := ReadBattery(s.Dir); err != nil {
		return fmt.Errorf("battery %s: %w", s.Dir, err)
	}
	s.start(post, s.loop)
	return nil
}

func (s *BatterySource) Unsubscribe() { s.stop() }

func (s *BatterySource) loop(ctx context.Context, post func(watchface.Event) bool) {
	interval := s.Interval
	if interval <= 0 {
		interval = defaultBatteryInterval
	}
	last := watchface.BatteryChanged{Level: -1}
	for {
		level, charging, err := ReadBattery(s.Dir)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Errorf("battery", "%v", err)
			}
		} else if ev := (watchface.BatteryChanged{Level: level, Charging: charging}); ev != last {
			if !post(ev) {
				return
			}
			last = ev
		}
		if !sleep(ctx, interval) {
			return
		}
	}
}
