// Package osinfo exposes information about the operating system the shell
// runs on: platform, architecture, family, version, hostname and locale.
package osinfo

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/shirou/gopsutil/v4/host"
	"golang.org/x/text/language"
)

// Name is the plugin name commands are namespaced under.
const Name = "os"

// HostInfoFunc returns the host description. Swappable for tests.
type HostInfoFunc func(ctx context.Context) (*host.InfoStat, error)

// Plugin is the OS information capability.
type Plugin struct {
	info   HostInfoFunc
	getenv func(string) string

	mu     sync.Mutex
	cached *host.InfoStat
}

// Option configures the plugin.
type Option func(*Plugin)

// WithHostInfo overrides the host information source.
func WithHostInfo(fn HostInfoFunc) Option {
	return func(p *Plugin) {
		p.info = fn
	}
}

// WithGetenv overrides environment lookups (locale detection).
func WithGetenv(fn func(string) string) Option {
	return func(p *Plugin) {
		p.getenv = fn
	}
}

// New creates the OS plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		info:   host.InfoWithContext,
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements bootstrap.Plugin.
func (p *Plugin) Name() string { return Name }

// Register implements bootstrap.Plugin.
func (p *Plugin) Register(c *bootstrap.Context) error {
	commands := []struct {
		name string
		fn   func(ctx context.Context) (any, error)
	}{
		{"platform", func(ctx context.Context) (any, error) { return Platform(), nil }},
		{"arch", func(ctx context.Context) (any, error) { return Arch(), nil }},
		{"family", func(ctx context.Context) (any, error) { return Family(), nil }},
		{"exe_extension", func(ctx context.Context) (any, error) { return ExeExtension(), nil }},
		{"locale", func(ctx context.Context) (any, error) { return p.Locale(), nil }},
		{"version", p.version},
		{"hostname", p.hostname},
	}
	for _, cmd := range commands {
		fn := cmd.fn
		err := c.AddCommand(cmd.name, func(ctx context.Context, _ map[string]any) (any, error) {
			return fn(ctx)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Platform returns the operating system name in the frontend's vocabulary
// ("linux", "macos", "windows", "ios", "android", ...).
func Platform() string {
	if runtime.GOOS == "darwin" {
		return "macos"
	}
	return runtime.GOOS
}

// Arch returns the CPU architecture ("x86_64", "aarch64", ...).
func Arch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "aarch64"
	default:
		return runtime.GOARCH
	}
}

// Family returns "windows" or "unix".
func Family() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}
	return "unix"
}

// ExeExtension returns the executable file extension without the dot.
func ExeExtension() string {
	if runtime.GOOS == "windows" {
		return "exe"
	}
	return ""
}

// Locale returns the user locale as a BCP-47 tag, or an empty string when it
// cannot be determined.
func (p *Plugin) Locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw := p.getenv(key)
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		// en_US.UTF-8 -> en-US
		raw, _, _ = strings.Cut(raw, ".")
		raw, _, _ = strings.Cut(raw, "@")
		tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
		if err != nil {
			continue
		}
		return tag.String()
	}
	return ""
}

// hostInfo resolves the host description once. Failed lookups are not
// cached, so a request cancelled by its caller does not poison later ones.
func (p *Plugin) hostInfo(ctx context.Context) (*host.InfoStat, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached != nil {
		return p.cached, nil
	}
	info, err := p.info(ctx)
	if err != nil {
		return nil, err
	}
	p.cached = info
	return info, nil
}

func (p *Plugin) version(ctx context.Context) (any, error) {
	info, err := p.hostInfo(ctx)
	if err != nil {
		return nil, err
	}
	return info.PlatformVersion, nil
}

func (p *Plugin) hostname(ctx context.Context) (any, error) {
	info, err := p.hostInfo(ctx)
	if err != nil {
		return nil, err
	}
	return info.Hostname, nil
}

var _ bootstrap.Plugin = (*Plugin)(nil)
