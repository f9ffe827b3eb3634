package desc

import (
	"testing"
	"unsafe"

	"github.com/ameysawant1/os/kernel"
)

func testConfig() Config {
	return Config{
		KernelStackTop: 0xa0000,
		FaultStackTop:  0x90000,
		SegmentLimit:   FlatSegmentLimit,
		GateEntry:      func(vector uint8) uintptr { return 0x100000 + uintptr(vector)*16 },
		GateIST: func(vector uint8) uint8 {
			if vector == 8 {
				return 1
			}
			return 0
		},
	}
}

type loadRecorder struct {
	gdtLoads, idtLoads, trLoads, segReloads int
	lastGDT, lastIDT                        uintptr
}

func (r *loadRecorder) install() {
	loadGDTFn = func(d uintptr) { r.gdtLoads++; r.lastGDT = d }
	loadIDTFn = func(d uintptr) { r.idtLoads++; r.lastIDT = d }
	loadTaskRegFn = func(sel uint16) { r.trLoads++ }
	reloadSegmentsFn = func(code, data uint16) { r.segReloads++ }
	interruptsOffFn = func() bool { return true }
}

func restoreLoadStubs() {
	loadGDTFn = origLoadGDT
	loadIDTFn = origLoadIDT
	loadTaskRegFn = origLoadTaskReg
	reloadSegmentsFn = origReloadSegments
	interruptsOffFn = origInterruptsOff
}

var (
	origLoadGDT        = loadGDTFn
	origLoadIDT        = loadIDTFn
	origLoadTaskReg    = loadTaskRegFn
	origReloadSegments = reloadSegmentsFn
	origInterruptsOff  = interruptsOffFn
)

func TestSegmentDescriptorEncoding(t *testing.T) {
	specs := []struct {
		limit  uint32
		expErr *kernel.Error
	}{
		{0, errZeroLimit},
		{FlatSegmentLimit + 1, errLimitTooHigh},
		{FlatSegmentLimit, nil},
	}

	for specIndex, spec := range specs {
		d, err := newSegmentDescriptor(0, spec.limit, segFlagCode|segFlagSystem|segFlagLong|segFlagGranule, 0)
		if err != spec.expErr {
			t.Errorf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
			continue
		}
		if spec.expErr != nil {
			if d != 0 {
				t.Errorf("[spec %d] expected zero descriptor on error; got %x", specIndex, d)
			}
			continue
		}

		if d&(1<<47) == 0 {
			t.Errorf("[spec %d] expected present bit to be set", specIndex)
		}
		if got := uint32(d) & 0xffff; got != 0xffff {
			t.Errorf("[spec %d] expected low limit bits 0xffff; got %x", specIndex, got)
		}
	}
}

func TestGateDescriptorEncoding(t *testing.T) {
	if _, err := newGateDescriptor(0, 0); err != errGateUnmapped {
		t.Fatalf("expected errGateUnmapped for nil entry point; got %v", err)
	}

	pc := uintptr(0xdeadc0de)
	g, err := newGateDescriptor(pc, 1)
	if err != nil {
		t.Fatal(err)
	}

	gotPC := uintptr(g[0]&0xffff) | uintptr(g[0]>>32&0xffff0000) | uintptr(g[1])<<32
	if gotPC != pc {
		t.Errorf("expected gate target %x; got %x", pc, gotPC)
	}
	if sel := uint16(g[0] >> 16); sel != SelectorKernelCode {
		t.Errorf("expected gate selector %x; got %x", SelectorKernelCode, sel)
	}
	if ist := uint8(g[0] >> 32 & 0x7); ist != 1 {
		t.Errorf("expected IST index 1; got %d", ist)
	}
	if typ := uint8(g[0] >> 40); typ != gateTypeInterrupt {
		t.Errorf("expected interrupt gate type %x; got %x", gateTypeInterrupt, typ)
	}
}

func TestBuildAndLoad(t *testing.T) {
	var rec loadRecorder
	rec.install()
	defer restoreLoadStubs()

	var set Set
	if err := set.Build(testConfig()); err != nil {
		t.Fatal(err)
	}
	if err := set.Load(); err != nil {
		t.Fatal(err)
	}

	if rec.gdtLoads != 1 || rec.idtLoads != 1 || rec.trLoads != 1 || rec.segReloads != 1 {
		t.Fatalf("expected each register load to happen exactly once; got gdt=%d idt=%d tr=%d seg=%d",
			rec.gdtLoads, rec.idtLoads, rec.trLoads, rec.segReloads)
	}
	if !set.Loaded() {
		t.Error("expected set to report loaded")
	}

	gdtDesc := (*tableDescriptor)(unsafe.Pointer(rec.lastGDT))
	if exp := uint16(segCount*8 - 1); gdtDesc.limit != exp {
		t.Errorf("expected GDT limit %d; got %d", exp, gdtDesc.limit)
	}
	if gdtDesc.base != uintptr(unsafe.Pointer(&set.gdt[0])) {
		t.Error("expected GDT base to point at the set's table")
	}

	idtDesc := (*tableDescriptor)(unsafe.Pointer(rec.lastIDT))
	if exp := uint16(numVectors*16 - 1); idtDesc.limit != exp {
		t.Errorf("expected IDT limit %d; got %d", exp, idtDesc.limit)
	}

	if set.tss.rsp[0][0] != 0xa0000 {
		t.Errorf("expected TSS RSP0 low word 0xa0000; got %x", set.tss.rsp[0][0])
	}
	if set.tss.ist[0][0] != 0x90000 {
		t.Errorf("expected TSS IST1 low word 0x90000; got %x", set.tss.ist[0][0])
	}
}

func TestBuildFailureBlocksLoad(t *testing.T) {
	var rec loadRecorder
	rec.install()
	defer restoreLoadStubs()

	cfg := testConfig()
	cfg.GateEntry = func(vector uint8) uintptr {
		if vector == 42 {
			return 0
		}
		return 0x100000
	}

	var set Set
	if err := set.Build(cfg); err != errGateUnmapped {
		t.Fatalf("expected errGateUnmapped; got %v", err)
	}
	if err := set.Load(); err != errNotBuilt {
		t.Fatalf("expected errNotBuilt; got %v", err)
	}
	if rec.gdtLoads != 0 || rec.idtLoads != 0 || rec.trLoads != 0 || rec.segReloads != 0 {
		t.Fatal("expected no register loads after a failed build")
	}
	if set.Loaded() {
		t.Error("expected set to report not loaded")
	}
}

func TestBuildZeroLimitBlocksLoad(t *testing.T) {
	var rec loadRecorder
	rec.install()
	defer restoreLoadStubs()

	cfg := testConfig()
	cfg.SegmentLimit = 0

	var set Set
	if err := set.Build(cfg); err != errZeroLimit {
		t.Fatalf("expected errZeroLimit; got %v", err)
	}
	if err := set.Load(); err != errNotBuilt {
		t.Fatalf("expected errNotBuilt; got %v", err)
	}
	if rec.gdtLoads != 0 || rec.idtLoads != 0 || rec.trLoads != 0 || rec.segReloads != 0 {
		t.Fatal("expected no register loads after a failed build")
	}
}

func TestConfigValidation(t *testing.T) {
	var set Set

	cfg := testConfig()
	cfg.GateEntry = nil
	if err := set.Build(cfg); err != errNoEntryFn {
		t.Errorf("expected errNoEntryFn; got %v", err)
	}

	cfg = testConfig()
	cfg.KernelStackTop = 0
	if err := set.Build(cfg); err != errNoKernelStack {
		t.Errorf("expected errNoKernelStack; got %v", err)
	}
}

func TestLoadWithInterruptsEnabled(t *testing.T) {
	var rec loadRecorder
	rec.install()
	defer restoreLoadStubs()

	var set Set
	if err := set.Build(testConfig()); err != nil {
		t.Fatal(err)
	}

	interruptsOffFn = func() bool { return false }
	if err := set.Load(); err != errInterruptsEnabled {
		t.Fatalf("expected errInterruptsEnabled; got %v", err)
	}
	if rec.gdtLoads != 0 {
		t.Fatal("expected no register loads while interrupts are enabled")
	}
}

func TestRemapGate(t *testing.T) {
	var rec loadRecorder
	rec.install()
	defer restoreLoadStubs()

	var set Set
	if err := set.Build(testConfig()); err != nil {
		t.Fatal(err)
	}

	if err := set.RemapGate(33, 0x200000, 0); err != errNotBuilt {
		t.Fatalf("expected errNotBuilt before load; got %v", err)
	}

	if err := set.Load(); err != nil {
		t.Fatal(err)
	}
	if err := set.RemapGate(33, 0x200000, 0); err != nil {
		t.Fatal(err)
	}

	g := set.idt[33]
	gotPC := uintptr(g[0]&0xffff) | uintptr(g[0]>>32&0xffff0000) | uintptr(g[1])<<32
	if gotPC != 0x200000 {
		t.Errorf("expected remapped gate target 0x200000; got %x", gotPC)
	}

	if err := set.RemapGate(34, 0, 0); err != errGateUnmapped {
		t.Errorf("expected errGateUnmapped; got %v", err)
	}

	interruptsOffFn = func() bool { return false }
	if err := set.RemapGate(35, 0x200000, 0); err != errBadVector {
		t.Errorf("expected errBadVector while unmasked; got %v", err)
	}
}
