package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Kind names a printer transport
type Kind string

const (
	KindUSB     Kind = "usb"
	KindNetwork Kind = "network"
	KindNone    Kind = "none"
)

// Printer sends raw ESC/POS data to a thermal printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	IsConnected(ctx context.Context) bool
	Kind() Kind
	Close() error
}

// usbPrinter writes to a device file such as /dev/usb/lp0.
// The device is opened per job.
type usbPrinter struct {
	path string
}

func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
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

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() Kind { return KindUSB }

func (p *usbPrinter) Close() error { return nil }

// networkPrinter dials a raw TCP port, usually 9100, per job.
type networkPrinter struct {
	address string
	dialer  net.Dialer
}

func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address: address,
		dialer:  net.Dialer{Timeout: 5 * time.Second},
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
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

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() Kind { return KindNetwork }

func (p *networkPrinter) Close() error { return nil }

// nullPrinter discards jobs. Used when no hardware is configured.
type nullPrinter struct{}

func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }

func (nullPrinter) IsConnected(context.Context) bool { return false }

func (nullPrinter) Kind() Kind { return KindNone }

func (nullPrinter) Close() error { return nil }

// NewPrinterFromConfig creates the printer for a configured kind:
// "usb" needs usbPath, "network" needs address, "none" or empty gives a null printer.
func NewPrinterFromConfig(kind, usbPath, address string) (Printer, error) {
	switch Kind(kind) {
	case KindUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: usb path is required for usb printers")
		}
		return NewUSBPrinter(usbPath), nil
	case KindNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return NewNetworkPrinter(address), nil
	case KindNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", kind)
	}
}
