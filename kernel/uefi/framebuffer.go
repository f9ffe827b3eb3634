package uefi

import (
	"unsafe"

	"github.com/ameysawant1/os/kernel"
)

// graphicsOutputGUID identifies EFI_GRAPHICS_OUTPUT_PROTOCOL.
var graphicsOutputGUID = [16]byte{
	0xde, 0xa9, 0x42, 0x90, 0xdc, 0x23, 0x38, 0x4a,
	0x96, 0xfb, 0x7a, 0xde, 0xd0, 0x80, 0x51, 0x6a,
}

const bootSvcLocateProtocol = 0x140

// EFI_GRAPHICS_OUTPUT_PROTOCOL layout.
const (
	gopModePtr = 24

	gopModeInfoPtr         = 8
	gopModeFrameBufferBase = 24
	gopModeFrameBufferSize = 32

	gopInfoHorizontalRes     = 4
	gopInfoVerticalRes       = 8
	gopInfoPixelsPerScanLine = 32
)

var errNoFramebuffer = &kernel.Error{Module: "uefi", Message: "graphics output protocol not available"}

// FramebufferInfo describes the linear framebuffer negotiated by the
// firmware graphics output protocol. The physical address stays valid after
// boot services are exited.
type FramebufferInfo struct {
	PhysAddr uintptr
	Size     uint64

	// Width and height in pixels; Pitch in pixels per scan line.
	Width, Height, Pitch uint32
}

var framebufferInfo FramebufferInfo

// QueryFramebuffer locates the graphics output protocol and captures the
// active mode's framebuffer layout. Must be called before boot services are
// exited; the captured info is retained afterwards via GetFramebufferInfo.
func (s *Services) QueryFramebuffer() *kernel.Error {
	var ifc uintptr
	status := s.call(bootSvcLocateProtocol,
		ptrval(unsafe.Pointer(&graphicsOutputGUID[0])),
		0,
		ptrval(unsafe.Pointer(&ifc)),
		0,
	)
	if err := status.Err(); err != nil {
		return err
	}
	if ifc == 0 {
		return errNoFramebuffer
	}

	mode := deref(ifc + gopModePtr)
	if mode == 0 {
		return errNoFramebuffer
	}
	info := deref(mode + gopModeInfoPtr)

	framebufferInfo = FramebufferInfo{
		PhysAddr: deref(mode + gopModeFrameBufferBase),
		Size:     uint64(deref(mode + gopModeFrameBufferSize)),
		Width:    *(*uint32)(unsafe.Pointer(info + gopInfoHorizontalRes)),
		Height:   *(*uint32)(unsafe.Pointer(info + gopInfoVerticalRes)),
		Pitch:    *(*uint32)(unsafe.Pointer(info + gopInfoPixelsPerScanLine)),
	}

	return nil
}

// GetFramebufferInfo returns the captured framebuffer layout. The zero value
// indicates that no framebuffer was negotiated.
func GetFramebufferInfo() FramebufferInfo {
	return framebufferInfo
}
