package uefi

import "unsafe"

// loadedImageGUID identifies EFI_LOADED_IMAGE_PROTOCOL.
var loadedImageGUID = [16]byte{
	0xa1, 0x31, 0x1b, 0x5b, 0x62, 0x95, 0xd2, 0x11,
	0x8e, 0x3f, 0x00, 0xa0, 0xc9, 0x69, 0x72, 0x3b,
}

// EFI_LOADED_IMAGE_PROTOCOL field offsets.
const (
	loadedImageOptionsSize = 48
	loadedImageOptions     = 56
)

const (
	maxCmdLineOptions = 16
	maxCmdLineBytes   = 256
)

// optionPair is a single key=value entry from the boot command line.
type optionPair struct {
	key, value string
}

var (
	cmdLineBuf     [maxCmdLineBytes]byte
	cmdLineOptions [maxCmdLineOptions]optionPair
	cmdLineCount   int
	cmdLineParsed  bool
)

// ParseCmdLine fetches the image load options from the firmware and splits
// them into key=value pairs. Flags without a value are stored with an empty
// value. Must be called before boot services are exited; afterwards the
// parsed options remain available via CmdLineOption.
func (s *Services) ParseCmdLine() {
	if cmdLineParsed {
		return
	}
	cmdLineParsed = true

	var ifc uintptr
	status := s.call(bootSvcHandleProtocol,
		uintptr(s.imageHandle),
		ptrval(unsafe.Pointer(&loadedImageGUID[0])),
		ptrval(unsafe.Pointer(&ifc)),
		0,
	)
	if status.Err() != nil || ifc == 0 {
		return
	}

	optLen := *(*uint32)(unsafe.Pointer(ifc + loadedImageOptionsSize))
	optPtr := deref(ifc + loadedImageOptions)
	if optLen == 0 || optPtr == 0 {
		return
	}

	// Load options are UCS-2; narrow to ASCII, dropping anything wider.
	n := 0
	for off := uintptr(0); off+1 < uintptr(optLen) && n < maxCmdLineBytes; off += 2 {
		ch := *(*uint16)(unsafe.Pointer(optPtr + off))
		if ch == 0 {
			break
		}
		if ch < 0x80 {
			cmdLineBuf[n] = byte(ch)
			n++
		}
	}

	parseCmdLineBytes(cmdLineBuf[:n])
}

// parseCmdLineBytes tokenizes a space-separated option string. Split out
// from ParseCmdLine for testing.
func parseCmdLineBytes(raw []byte) {
	cmdLineCount = 0

	start := -1
	flush := func(end int) {
		if start == -1 || cmdLineCount == maxCmdLineOptions {
			return
		}
		token := string(raw[start:end])
		start = -1

		for i := 0; i < len(token); i++ {
			if token[i] == '=' {
				cmdLineOptions[cmdLineCount] = optionPair{key: token[:i], value: token[i+1:]}
				cmdLineCount++
				return
			}
		}
		cmdLineOptions[cmdLineCount] = optionPair{key: token}
		cmdLineCount++
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] == ' ' || raw[i] == '\t' {
			flush(i)
			continue
		}
		if start == -1 {
			start = i
		}
	}
	flush(len(raw))
}

// CmdLineOption looks up a boot command-line option by key. The second
// return value indicates whether the key was present.
func CmdLineOption(key string) (string, bool) {
	for i := 0; i < cmdLineCount; i++ {
		if cmdLineOptions[i].key == key {
			return cmdLineOptions[i].value, true
		}
	}
	return "", false
}
