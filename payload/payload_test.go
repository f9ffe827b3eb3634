package payload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ameysawant1/os/device/video/fb"
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/kfmt"
	"github.com/ameysawant1/os/kernel/mem"
	"github.com/ameysawant1/os/kernel/mem/alloc"
)

func installPayloadStubs() {
	allocateFn = func(size, align mem.Size) (alloc.Region, *kernel.Error) {
		return alloc.Region{Start: 0x100000, Size: size}, nil
	}
	allocStatsFn = func() (alloc.Stats, *kernel.Error) {
		return alloc.Stats{Used: 4096, Total: 1048576}, nil
	}
	framebufferFn = func() *fb.Device { return nil }
	timerTicksFn = func() uint64 { return 42 }
	intsReadyFn = func() bool { return true }
}

func restorePayloadStubs() {
	allocateFn = alloc.Allocate
	allocStatsFn = alloc.AllocStats
	framebufferFn = origFramebufferFn
	timerTicksFn = origTimerTicksFn
	intsReadyFn = origIntsReadyFn
	kfmt.SetOutputSink(nil)
}

var (
	origFramebufferFn = framebufferFn
	origTimerTicksFn  = timerTicksFn
	origIntsReadyFn   = intsReadyFn
)

func TestRunRequiresInterrupts(t *testing.T) {
	installPayloadStubs()
	defer restorePayloadStubs()

	intsReadyFn = func() bool { return false }
	if err := Run(); err != errNotServing {
		t.Fatalf("expected errNotServing; got %v", err)
	}
}

func TestRunDegradesOnAllocationFailure(t *testing.T) {
	installPayloadStubs()
	defer restorePayloadStubs()

	allocateFn = func(size, align mem.Size) (alloc.Region, *kernel.Error) {
		return alloc.Region{}, &kernel.Error{Module: "alloc", Message: "out of memory"}
	}
	drew := false
	buf := make([]uint32, 64*48)
	dev := fb.NewDeviceForBuffer(buf, 64, 48, 64)
	framebufferFn = func() *fb.Device { drew = true; return dev }

	var out bytes.Buffer
	kfmt.SetOutputSink(&out)

	if err := Run(); err != nil {
		t.Fatalf("expected exhaustion to be survivable; got %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "running reduced demo") {
		t.Errorf("expected the reduced demo notice; got %q", got)
	}
	if !strings.Contains(got, "spam") || !strings.Contains(got, "ham") {
		t.Errorf("expected classification to still run; got %q", got)
	}
	if drew {
		t.Error("expected the graphics demo to be shed under exhaustion")
	}
	for _, px := range buf {
		if px != 0 {
			t.Fatal("expected the framebuffer to stay untouched")
		}
	}
}

func TestRunHeadless(t *testing.T) {
	installPayloadStubs()
	defer restorePayloadStubs()

	var out bytes.Buffer
	kfmt.SetOutputSink(&out)

	if err := Run(); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	if !strings.Contains(got, "spam") || !strings.Contains(got, "claim your free prize now") {
		t.Errorf("expected the spam sample to be flagged; got %q", got)
	}
	if !strings.Contains(got, "ham") || !strings.Contains(got, "quarterly meeting report") {
		t.Errorf("expected the ham sample to pass; got %q", got)
	}
	if !strings.Contains(got, "skipping graphics demo") {
		t.Errorf("expected the graphics demo to be skipped; got %q", got)
	}
	if !strings.Contains(got, "42 timer ticks") {
		t.Errorf("expected the tick count to be reported; got %q", got)
	}
	if !strings.Contains(got, "allocator 4096/1048576 bytes used") {
		t.Errorf("expected allocator stats; got %q", got)
	}
}

func TestRunWithFramebuffer(t *testing.T) {
	installPayloadStubs()
	defer restorePayloadStubs()

	buf := make([]uint32, 64*48)
	dev := fb.NewDeviceForBuffer(buf, 64, 48, 64)
	framebufferFn = func() *fb.Device { return dev }

	var out bytes.Buffer
	kfmt.SetOutputSink(&out)

	if err := Run(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "graphics demo on 64x48 framebuffer") {
		t.Errorf("expected the graphics demo to run; got %q", out.String())
	}

	// The desktop paint must touch the background and both windows.
	colors := make(map[uint32]bool)
	for _, px := range buf {
		colors[px] = true
	}
	for _, c := range []uint32{0x1a1a2e, 0x3460a0, 0x60a034} {
		if !colors[c] {
			t.Errorf("expected color %x on the framebuffer", c)
		}
	}
}
