package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// Connection kinds a printer can be configured with.
const (
	ConnUSB     = "usb"
	ConnNetwork = "network"
	ConnNone    = "none"
)

var ErrNotConfigured = errors.New("printer: no device configured")

// Printer sends raw ESC/POS bytes to a device.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	Connected(ctx context.Context) bool
}

// Config describes how to reach a device.
type Config struct {
	Connection string
	DevicePath string
	Address    string
}

// Open returns the Printer for cfg.
func Open(cfg Config) (Printer, error) {
	switch cfg.Connection {
	case ConnUSB:
		if cfg.DevicePath == "" {
			return nil, errors.New("printer: device_path is required for usb printers")
		}
		return &usbPrinter{path: cfg.DevicePath}, nil
	case ConnNetwork:
		if cfg.Address == "" {
			return nil, errors.New("printer: address is required for network printers")
		}
		return &networkPrinter{address: withDefaultPort(cfg.Address), dialTimeout: 5 * time.Second}, nil
	case ConnNone, "":
		return nullPrinter{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown connection %q", cfg.Connection)
	}
}

// Raw port 9100 is the de facto default for networked thermal printers.
func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, "9100")
}

type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Connected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

type networkPrinter struct {
	address     string
	dialTimeout time.Duration
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.dialTimeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Connected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// nullPrinter accepts nothing: a "none" connection has no device to print on.
type nullPrinter struct{}

func (nullPrinter) Print(context.Context, []byte) error { return ErrNotConfigured }
func (nullPrinter) Connected(context.Context) bool      { return false }
