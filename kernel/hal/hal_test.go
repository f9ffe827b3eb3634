package hal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/ameysawant1/os/device"
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/kfmt"
)

type testDriver struct {
	name    string
	initErr *kernel.Error
}

func (d *testDriver) DriverName() string                      { return d.name }
func (d *testDriver) DriverVersion() (uint16, uint16, uint16) { return 1, 2, 3 }
func (d *testDriver) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "probing\n")
	return d.initErr
}

func TestProbe(t *testing.T) {
	defer func() {
		devices = managedDevices{}
		kfmt.SetOutputSink(nil)
	}()

	var out bytes.Buffer
	kfmt.SetOutputSink(&out)

	good := &testDriver{name: "good_dev"}
	bad := &testDriver{name: "bad_dev", initErr: &kernel.Error{Module: "test", Message: "no hardware"}}

	probe(device.DriverInfoList{
		{Order: device.DetectOrderNormal, Probe: func() device.Driver { return nil }},
		{Order: device.DetectOrderNormal, Probe: func() device.Driver { return good }},
		{Order: device.DetectOrderNormal, Probe: func() device.Driver { return bad }},
	})

	if len(devices.activeDrivers) != 1 || devices.activeDrivers[0] != good {
		t.Fatalf("expected exactly the good driver to be active; got %v", devices.activeDrivers)
	}

	got := out.String()
	if !strings.Contains(got, "[hal] good_dev(1.2.3): probing") {
		t.Errorf("expected prefixed probe output; got %q", got)
	}
	if !strings.Contains(got, "[hal] good_dev(1.2.3): initialized") {
		t.Errorf("expected init confirmation; got %q", got)
	}
	if !strings.Contains(got, "[hal] bad_dev(1.2.3): init failed: no hardware") {
		t.Errorf("expected init failure report; got %q", got)
	}
}
