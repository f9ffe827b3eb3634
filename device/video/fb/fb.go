// Package fb provides a driver for the linear framebuffer handed over by the
// firmware graphics output protocol. Pixels are 32 bits wide; the stride may
// exceed the visible width on hardware with padded scanlines.
package fb

import (
	"io"
	"unsafe"

	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/kfmt"
)

// Window is a filled rectangle drawn onto the framebuffer.
type Window struct {
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
	Color  uint32
}

// Device drives a 32bpp linear framebuffer.
type Device struct {
	fb     []uint32
	width  uint32
	height uint32
	stride uint32
}

// NewDevice maps the framebuffer at physAddr. The firmware identity-maps the
// framebuffer so the physical address is directly usable.
func NewDevice(physAddr uintptr, width, height, stride uint32) *Device {
	return &Device{
		fb:     unsafe.Slice((*uint32)(unsafe.Pointer(physAddr)), int(stride)*int(height)),
		width:  width,
		height: height,
		stride: stride,
	}
}

// NewDeviceForBuffer drives an in-memory buffer instead of hardware.
func NewDeviceForBuffer(buf []uint32, width, height, stride uint32) *Device {
	return &Device{fb: buf, width: width, height: height, stride: stride}
}

// DriverName returns the name of the driver.
func (dev *Device) DriverName() string { return "framebuffer" }

// DriverVersion returns the driver version.
func (dev *Device) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }

// DriverInit clears the display.
func (dev *Device) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "framebuffer: %dx%d, stride %d pixels\n", dev.width, dev.height, dev.stride)
	dev.Clear(0)
	return nil
}

// Dimensions returns the visible width and height in pixels.
func (dev *Device) Dimensions() (uint32, uint32) {
	return dev.width, dev.height
}

// DrawPixel plots a single pixel. Out of range coordinates are ignored.
func (dev *Device) DrawPixel(x, y, color uint32) {
	if x >= dev.width || y >= dev.height {
		return
	}
	dev.fb[y*dev.stride+x] = color
}

// Clear fills the visible area with a solid color. Clears whose color bytes
// are uniform and whose scanlines have no padding cover the buffer with a
// single memset.
func (dev *Device) Clear(color uint32) {
	if b := uint8(color); dev.stride == dev.width &&
		color == uint32(b)|uint32(b)<<8|uint32(b)<<16|uint32(b)<<24 {
		kernel.Memset(uintptr(unsafe.Pointer(&dev.fb[0])), b, uintptr(len(dev.fb))*4)
		return
	}

	for y := uint32(0); y < dev.height; y++ {
		row := dev.fb[y*dev.stride : y*dev.stride+dev.width]
		for x := range row {
			row[x] = color
		}
	}
}

// DrawWindow fills a rectangle, clipping it to the visible area.
func (dev *Device) DrawWindow(win Window) {
	yEnd := win.Y + win.Height
	if yEnd > dev.height {
		yEnd = dev.height
	}
	xEnd := win.X + win.Width
	if xEnd > dev.width {
		xEnd = dev.width
	}

	for y := win.Y; y < yEnd; y++ {
		for x := win.X; x < xEnd; x++ {
			dev.fb[y*dev.stride+x] = win.Color
		}
	}
}
