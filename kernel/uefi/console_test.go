package uefi

import (
	"testing"
	"unsafe"
)

// installConsole extends the fake firmware with a text output protocol that
// captures everything the console emits.
func installConsole(t *testing.T, captured *[]uint16, resets *int) {
	callServiceFn = func(fn uintptr, a1, a2, a3, a4 uintptr) Status {
		switch fn {
		case fakeConOut + conOutReset:
			*resets++
			return StatusSuccess
		case fakeConOut + conOutOutputString:
			if a1 != fakeConOut {
				t.Fatalf("expected protocol pointer as first argument; got %x", a1)
			}
			for p := a2; ; p += 2 {
				ch := *(*uint16)(unsafe.Pointer(p))
				if ch == 0 {
					break
				}
				*captured = append(*captured, ch)
			}
			return StatusSuccess
		default:
			t.Fatalf("unexpected service call through slot %x", fn)
			return StatusUnsupported
		}
	}
}

func TestConsoleResetFailure(t *testing.T) {
	var s Services
	f := &fakeFirmware{t: t}
	f.install(&s)
	defer restoreFirmwareStubs()

	callServiceFn = func(fn uintptr, a1, a2, a3, a4 uintptr) Status {
		if fn != fakeConOut+conOutReset {
			t.Fatalf("unexpected service call through slot %x", fn)
		}
		return StatusDeviceError
	}

	if err := s.Console().Reset(); err != StatusDeviceError.Err() {
		t.Fatalf("expected device error from reset; got %v", err)
	}
}

func TestConsoleWrite(t *testing.T) {
	var s Services
	f := &fakeFirmware{t: t}
	f.install(&s)
	defer restoreFirmwareStubs()

	var captured []uint16
	var resets int
	installConsole(t, &captured, &resets)

	cons := s.Console()
	if err := cons.Reset(); err != nil {
		t.Fatal(err)
	}
	if resets != 1 {
		t.Fatalf("expected one reset call; got %d", resets)
	}

	n, err := cons.Write([]byte("ab\ncd"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("expected write to report 5 bytes; got %d", n)
	}

	exp := []uint16{'a', 'b', '\r', '\n', 'c', 'd'}
	if len(captured) != len(exp) {
		t.Fatalf("expected %d UCS-2 code units; got %d", len(exp), len(captured))
	}
	for i, ch := range exp {
		if captured[i] != ch {
			t.Errorf("code unit %d: expected %x; got %x", i, ch, captured[i])
		}
	}
}

func TestConsoleWriteSplitsLongOutput(t *testing.T) {
	var s Services
	f := &fakeFirmware{t: t}
	f.install(&s)
	defer restoreFirmwareStubs()

	var captured []uint16
	var resets int
	installConsole(t, &captured, &resets)

	long := make([]byte, 3*utf16BufLen)
	for i := range long {
		long[i] = 'a' + byte(i%26)
	}

	n, err := s.Console().Write(long)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(long) {
		t.Fatalf("expected write to report %d bytes; got %d", len(long), n)
	}
	if len(captured) != len(long) {
		t.Fatalf("expected %d code units across split calls; got %d", len(long), len(captured))
	}
	for i := range long {
		if captured[i] != uint16(long[i]) {
			t.Fatalf("code unit %d: expected %x; got %x", i, long[i], captured[i])
		}
	}
}

func TestConsoleWriteAfterExitPanics(t *testing.T) {
	var s Services
	f := &fakeFirmware{t: t}
	f.install(&s)
	defer restoreFirmwareStubs()

	cons := s.Console()
	s.invalidate()

	defer func() {
		if got := recover(); got != errServicesDead {
			t.Fatalf("expected errServicesDead panic; got %v", got)
		}
		if f.panicsCaught != 1 {
			t.Fatalf("expected one caught panic; got %d", f.panicsCaught)
		}
	}()
	cons.Write([]byte("too late"))
}
