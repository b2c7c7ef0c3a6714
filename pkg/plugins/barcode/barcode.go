// Package barcode is the mobile barcode scanning capability. Frames captured
// by the device camera are handed to the "scan" command as base64 encoded
// images and decoded against the requested symbologies.
package barcode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/domain"
	"github.com/aretw0/appshell/pkg/registry"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Name is the plugin name commands are namespaced under.
const Name = "barcode-scanner"

// Format is a barcode symbology.
type Format string

const (
	QRCode     Format = "QR_CODE"
	DataMatrix Format = "DATA_MATRIX"
	EAN13      Format = "EAN_13"
	EAN8       Format = "EAN_8"
	UPCA       Format = "UPC_A"
	Code128    Format = "CODE_128"
	Code39     Format = "CODE_39"
)

var readers = map[Format]func() gozxing.Reader{
	QRCode:     func() gozxing.Reader { return qrcode.NewQRCodeReader() },
	DataMatrix: func() gozxing.Reader { return datamatrix.NewDataMatrixReader() },
	EAN13:      func() gozxing.Reader { return oned.NewEAN13Reader() },
	EAN8:       func() gozxing.Reader { return oned.NewEAN8Reader() },
	UPCA:       func() gozxing.Reader { return oned.NewUPCAReader() },
	Code128:    func() gozxing.Reader { return oned.NewCode128Reader() },
	Code39:     func() gozxing.Reader { return oned.NewCode39Reader() },
}

// ErrNotFound is returned when no barcode of the requested formats is in the image.
var ErrNotFound = errors.New("no barcode found")

// Scanned is the result of a successful scan.
type Scanned struct {
	Content string `json:"content"`
	Format  Format `json:"format"`
}

// Plugin is the barcode scanning capability.
type Plugin struct {
	formats     []Format
	permissions Permissions

	mu       sync.Mutex
	inflight map[int]context.CancelFunc
	nextID   int
}

// Option configures the plugin.
type Option func(*Plugin)

// WithFormats sets the formats scanned when a request does not name any.
func WithFormats(formats ...Format) Option {
	return func(p *Plugin) {
		p.formats = formats
	}
}

// WithPermissions sets the camera permission provider.
func WithPermissions(perms Permissions) Option {
	return func(p *Plugin) {
		p.permissions = perms
	}
}

// New creates the barcode plugin. By default it scans QR codes and asks for
// camera permission on first use.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		formats:     []Format{QRCode},
		permissions: NewPromptPermissions(),
		inflight:    make(map[int]context.CancelFunc),
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
	if len(p.formats) == 0 {
		return fmt.Errorf("%w: no barcode formats enabled", domain.ErrPluginUnavailable)
	}
	for _, f := range p.formats {
		if _, ok := readers[f]; !ok {
			return fmt.Errorf("unsupported barcode format %q", f)
		}
	}

	commands := []struct {
		name string
		fn   domain.Command
	}{
		{"scan", p.scanCommand},
		{"cancel", p.cancelCommand},
		{"check_permissions", p.checkPermissionsCommand},
		{"request_permissions", p.requestPermissionsCommand},
	}
	for _, cmd := range commands {
		if err := c.AddCommand(cmd.name, cmd.fn); err != nil {
			return err
		}
	}
	c.OnShutdown(func(ctx context.Context) error {
		p.Cancel()
		return nil
	})
	return nil
}

type scanArgs struct {
	Image   string   `mapstructure:"image"`
	Formats []string `mapstructure:"formats"`
}

func (p *Plugin) scanCommand(ctx context.Context, args map[string]any) (any, error) {
	var in scanArgs
	if err := registry.Decode(args, &in); err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, errors.New("scan: image is required")
	}
	raw, err := base64.StdEncoding.DecodeString(in.Image)
	if err != nil {
		return nil, fmt.Errorf("scan: image is not valid base64: %w", err)
	}

	formats := p.formats
	if len(in.Formats) > 0 {
		formats = make([]Format, 0, len(in.Formats))
		for _, f := range in.Formats {
			formats = append(formats, Format(f))
		}
	}

	if err := p.ensurePermission(ctx); err != nil {
		return nil, err
	}
	scanned, err := p.Scan(ctx, raw, formats...)
	if err != nil {
		return nil, err
	}
	return scanned, nil
}

// Scan decodes the first barcode of one of formats found in an encoded image.
func (p *Plugin) Scan(ctx context.Context, encoded []byte, formats ...Format) (*Scanned, error) {
	ctx, done := p.track(ctx)
	defer done()

	img, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("scan: decoding image: %w", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	for _, f := range formats {
		if ctx.Err() != nil {
			return nil, domain.ErrScanCancelled
		}
		newReader, ok := readers[f]
		if !ok {
			return nil, fmt.Errorf("unsupported barcode format %q", f)
		}
		result, err := newReader().Decode(bmp, nil)
		if err != nil {
			continue
		}
		return &Scanned{Content: result.GetText(), Format: f}, nil
	}
	if ctx.Err() != nil {
		return nil, domain.ErrScanCancelled
	}
	return nil, ErrNotFound
}

// Cancel aborts every in-flight scan.
func (p *Plugin) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, cancel := range p.inflight {
		cancel()
		delete(p.inflight, id)
	}
}

func (p *Plugin) track(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.inflight[id] = cancel
	p.mu.Unlock()

	return ctx, func() {
		p.mu.Lock()
		delete(p.inflight, id)
		p.mu.Unlock()
		cancel()
	}
}

func (p *Plugin) cancelCommand(ctx context.Context, _ map[string]any) (any, error) {
	p.Cancel()
	return nil, nil
}

func (p *Plugin) ensurePermission(ctx context.Context) error {
	state, err := p.permissions.Check(ctx)
	if err != nil {
		return err
	}
	if state == PermissionPrompt {
		if state, err = p.permissions.Request(ctx); err != nil {
			return err
		}
	}
	if state != PermissionGranted {
		return fmt.Errorf("camera: %w", domain.ErrPermissionDenied)
	}
	return nil
}

func (p *Plugin) checkPermissionsCommand(ctx context.Context, _ map[string]any) (any, error) {
	state, err := p.permissions.Check(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]PermissionState{"camera": state}, nil
}

func (p *Plugin) requestPermissionsCommand(ctx context.Context, _ map[string]any) (any, error) {
	state, err := p.permissions.Request(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]PermissionState{"camera": state}, nil
}

var _ bootstrap.Plugin = (*Plugin)(nil)
