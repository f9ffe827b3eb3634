// Package payload runs the workload the kernel boots into: it trains the
// text classifier, scores a few documents and, when a framebuffer is
// present, paints a demo desktop. The payload is the consumer that proves
// the allocator, the interrupt bridge and the device layer work together.
package payload

import (
	"github.com/ameysawant1/os/device/video/fb"
	"github.com/ameysawant1/os/kernel"
	"github.com/ameysawant1/os/kernel/hal"
	"github.com/ameysawant1/os/kernel/irq"
	"github.com/ameysawant1/os/kernel/kfmt"
	"github.com/ameysawant1/os/kernel/mem"
	"github.com/ameysawant1/os/kernel/mem/alloc"
	"github.com/ameysawant1/os/payload/textclass"
)

// Package dependencies reached through function variables so tests can run
// the payload without booted hardware behind it.
var (
	allocateFn    = alloc.Allocate
	allocStatsFn  = alloc.AllocStats
	framebufferFn = hal.ActiveFramebuffer
	timerTicksFn  = irq.TimerTicks
	intsReadyFn   = irq.InterruptsReady
)

var errNotServing = &kernel.Error{Module: "payload", Message: "interrupts not enabled"}

// scratchSize is allocated up front as working memory for the demo, proving
// the allocator serves real requests before the classifier leans on it.
const scratchSize = 64 * mem.Kb

var trainingDocs = []string{
	"win free money now",
	"free prize claim now",
	"win a free cruise",
	"meeting notes attached",
	"lunch at noon tomorrow",
	"quarterly report attached",
}

var trainingLabels = []float64{1, 1, 1, 0, 0, 0}

var sampleDocs = []string{
	"claim your free prize now",
	"the quarterly meeting report is attached",
}

// Run executes the demo workload. Classification is mandatory; graphics are
// skipped on headless machines or when memory for the demo runs out.
func Run() *kernel.Error {
	if !intsReadyFn() {
		return errNotServing
	}

	// Exhaustion is recoverable: the demo sheds its extras and keeps
	// classifying instead of taking the kernel down.
	scratch, err := allocateFn(scratchSize, mem.PageSize)
	if err != nil {
		kfmt.Printf("payload: no memory for demo extras (%s), running reduced demo\n", err.Message)
	} else {
		kfmt.Printf("payload: scratch region at %x (%d bytes)\n", scratch.Start, scratch.Size)
	}

	classifier := textclass.NewClassifier(256)
	classifier.Train(trainingDocs, trainingLabels, 0.5, 200)

	models := textclass.NewManager()
	models.Register("spamfilter", "v1", classifier)

	model, _ := models.Lookup("spamfilter", "v1")
	for _, doc := range sampleDocs {
		score := model.Predict(doc)
		verdict := "ham"
		if score > 0.5 {
			verdict = "spam"
		}
		kfmt.Printf("payload: %s (%d%%): %s\n", verdict, int(score*100), doc)
	}

	if err == nil {
		drawDesktop(framebufferFn())
	} else {
		kfmt.Printf("payload: skipping graphics demo\n")
	}

	if stats, serr := allocStatsFn(); serr == nil {
		kfmt.Printf("payload: allocator %d/%d bytes used\n", uint64(stats.Used), uint64(stats.Total))
	}
	kfmt.Printf("payload: %d timer ticks since boot\n", timerTicksFn())
	return nil
}

// drawDesktop paints a background and a couple of windows. A nil device
// means a headless machine; the demo simply stays textual.
func drawDesktop(dev *fb.Device) {
	if dev == nil {
		kfmt.Printf("payload: no framebuffer, skipping graphics demo\n")
		return
	}

	width, height := dev.Dimensions()
	dev.Clear(0x1a1a2e)
	dev.DrawWindow(fb.Window{X: width / 8, Y: height / 8, Width: width / 2, Height: height / 2, Color: 0x3460a0})
	dev.DrawWindow(fb.Window{X: width / 2, Y: height / 4, Width: width / 3, Height: height / 3, Color: 0x60a034})
	kfmt.Printf("payload: graphics demo on %dx%d framebuffer\n", width, height)
}
