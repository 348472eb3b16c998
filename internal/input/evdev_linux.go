//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
}

// eviocgabs builds EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo).
func eviocgabs(abs uint) uintptr {
	const iocRead = 2
	return uintptr(iocRead<<30 | uint(unsafe.Sizeof(absInfo{}))<<16 | 'E'<<8 | (0x40 + abs))
}

func readAbs(fd int, abs uint) (absInfo, bool) {
	var info absInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), eviocgabs(abs), uintptr(unsafe.Pointer(&info)))
	return info, errno == 0
}

// EvdevSource reads every /dev/input/event* device. Touch positions are
// scaled to Width x Height when the device reports its axis ranges.
type EvdevSource struct {
	Glob          string
	Width, Height int
	Logger        logger

	ch     chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEvdevSource(width, height int) *EvdevSource {
	return &EvdevSource{Glob: "/dev/input/event*", Width: width, Height: height, ch: make(chan Event, 16)}
}

func (s *EvdevSource) Events() <-chan Event { return s.ch }

// Start is best-effort: without input devices it logs and returns nil.
func (s *EvdevSource) Start(ctx context.Context) error {
	paths, err := filepath.Glob(s.Glob)
	if err != nil || len(paths) == 0 {
		if s.Logger != nil {
			s.Logger.Infof("input", "no evdev devices under %s", s.Glob)
		}
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	for _, path := range paths {
		s.wg.Add(1)
		go func(p string) {
			defer s.wg.Done()
			s.read(ctx, p)
		}(path)
	}
	return nil
}

func (s *EvdevSource) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}

func (s *EvdevSource) read(ctx context.Context, path string) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	tvSize := binary.Size(unix.Timeval{})
	dec := &Decoder{}
	if xi, ok := readAbs(fd, absX); ok {
		if yi, ok := readAbs(fd, absY); ok && s.Width > 0 && s.Height > 0 {
			mx := AxisMap(xi.Minimum, xi.Maximum, s.Width)
			my := AxisMap(yi.Minimum, yi.Maximum, s.Height)
			dec.Map = func(x, y int32) (int, int) { return mx(x), my(y) }
		}
	}

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, ev := range dec.Decode(buf[:n], tvSize) {
			select {
			case s.ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
