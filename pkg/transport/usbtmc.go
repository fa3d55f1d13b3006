package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
)

// USBTMC bulk message constants (USB Test & Measurement Class rev 1.0).
const (
	// msgDevDepMsgOut carries a device-dependent command to the instrument.
	msgDevDepMsgOut = 1

	// msgRequestDevDepMsgIn asks the instrument to send a reply.
	// The reply transfer carries the same message ID.
	msgRequestDevDepMsgIn = 2

	// usbtmcHeaderSize is the fixed bulk header size in bytes.
	usbtmcHeaderSize = 12

	// transferAttrEOM marks the transfer as the end of a message.
	transferAttrEOM = 0x01

	// maxTransferSize is the largest reply requested per transfer.
	maxTransferSize = 65536
)

// usbtmcConn speaks USBTMC over a pair of bulk endpoints.
type usbtmcConn struct {
	usbCtx  *gousb.Context
	dev     *gousb.Device
	release func()
	in      *gousb.InEndpoint
	out     *gousb.OutEndpoint

	mu     sync.Mutex
	bTag   uint8
	closed bool
}

// openUSB claims the instrument's USBTMC interface.
func openUSB(res Resource) (Conn, error) {
	usbCtx := gousb.NewContext()

	dev, err := findUSBDevice(usbCtx, res)
	if err != nil {
		usbCtx.Close()
		return nil, err
	}

	// Take the interface from a kernel driver if one has claimed it.
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		usbCtx.Close()
		return nil, fmt.Errorf("usb auto-detach: %w", err)
	}

	intf, release, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		usbCtx.Close()
		return nil, fmt.Errorf("claim usb interface: %w", err)
	}

	c := &usbtmcConn{
		usbCtx:  usbCtx,
		dev:     dev,
		release: release,
	}

	for _, ep := range intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionIn {
			c.in, err = intf.InEndpoint(ep.Number)
		} else {
			c.out, err = intf.OutEndpoint(ep.Number)
		}
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("open usb endpoint %d: %w", ep.Number, err)
		}
	}
	if c.in == nil || c.out == nil {
		c.Close()
		return nil, fmt.Errorf("usb device %04x:%04x has no bulk endpoint pair", res.VendorID, res.ProductID)
	}

	return c, nil
}

// findUSBDevice opens the device matching the resource's vendor and
// product IDs, narrowed by serial number when the resource carries one.
func findUSBDevice(usbCtx *gousb.Context, res Resource) (*gousb.Device, error) {
	devs, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(res.VendorID) && desc.Product == gousb.ID(res.ProductID)
	})
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		return nil, fmt.Errorf("open usb device %04x:%04x: %w", res.VendorID, res.ProductID, err)
	}
	if len(devs) == 0 {
		return nil, fmt.Errorf("usb device %04x:%04x not found", res.VendorID, res.ProductID)
	}

	if res.Serial == "" {
		for _, d := range devs[1:] {
			d.Close()
		}
		return devs[0], nil
	}

	var picked *gousb.Device
	for _, d := range devs {
		if picked == nil {
			if sn, err := d.SerialNumber(); err == nil && sn == res.Serial {
				picked = d
				continue
			}
		}
		d.Close()
	}
	if picked == nil {
		return nil, fmt.Errorf("usb device %04x:%04x with serial %q not found", res.VendorID, res.ProductID, res.Serial)
	}
	return picked, nil
}

// nextTag returns the next bTag value, skipping zero as the class requires.
func (c *usbtmcConn) nextTag() uint8 {
	c.bTag++
	if c.bTag == 0 {
		c.bTag = 1
	}
	return c.bTag
}

// Send transmits one command in a DEV_DEP_MSG_OUT transfer.
func (c *usbtmcConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	buf := data
	if len(data) == 0 || data[len(data)-1] != '\n' {
		buf = make([]byte, 0, len(data)+1)
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}

	if _, err := c.out.Write(devDepMsgOut(c.nextTag(), buf)); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Receive requests and reads one reply transfer.
func (c *usbtmcConn) Receive(timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	if _, err := c.out.Write(requestDevDepMsgIn(c.nextTag(), maxTransferSize)); err != nil {
		return nil, fmt.Errorf("request reply: %w", err)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	buf := make([]byte, usbtmcHeaderSize+maxTransferSize)
	n, err := c.in.ReadContext(ctx, buf)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrReceiveTimeout, timeout)
		}
		return nil, fmt.Errorf("read failed: %w", err)
	}

	payload, err := parseDevDepMsgIn(buf[:n])
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Close releases the interface and the device.
func (c *usbtmcConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.release != nil {
		c.release()
	}
	var err error
	if c.dev != nil {
		err = c.dev.Close()
	}
	if c.usbCtx != nil {
		if cerr := c.usbCtx.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// devDepMsgOut builds a DEV_DEP_MSG_OUT bulk transfer carrying data.
// The payload is padded to a 4-byte boundary as the class requires.
func devDepMsgOut(tag uint8, data []byte) []byte {
	padded := (len(data) + 3) &^ 3
	msg := make([]byte, usbtmcHeaderSize+padded)
	msg[0] = msgDevDepMsgOut
	msg[1] = tag
	msg[2] = ^tag
	binary.LittleEndian.PutUint32(msg[4:8], uint32(len(data)))
	msg[8] = transferAttrEOM
	copy(msg[usbtmcHeaderSize:], data)
	return msg
}

// requestDevDepMsgIn builds the bulk-out transfer asking for up to size
// reply bytes. Termination by character is left disabled; the instrument
// marks message boundaries with EOM.
func requestDevDepMsgIn(tag uint8, size uint32) []byte {
	msg := make([]byte, usbtmcHeaderSize)
	msg[0] = msgRequestDevDepMsgIn
	msg[1] = tag
	msg[2] = ^tag
	binary.LittleEndian.PutUint32(msg[4:8], size)
	return msg
}

// parseDevDepMsgIn extracts the payload from a DEV_DEP_MSG_IN transfer.
func parseDevDepMsgIn(buf []byte) ([]byte, error) {
	if len(buf) < usbtmcHeaderSize {
		return nil, fmt.Errorf("usbtmc reply too short: %d bytes", len(buf))
	}
	if buf[0] != msgRequestDevDepMsgIn {
		return nil, fmt.Errorf("unexpected usbtmc message ID %d", buf[0])
	}
	size := binary.LittleEndian.Uint32(buf[4:8])
	if int(size) > len(buf)-usbtmcHeaderSize {
		return nil, fmt.Errorf("usbtmc payload truncated: header says %d, got %d", size, len(buf)-usbtmcHeaderSize)
	}
	return buf[usbtmcHeaderSize : usbtmcHeaderSize+int(size)], nil
}

// Compile-time interface satisfaction check.
var _ Conn = (*usbtmcConn)(nil)
