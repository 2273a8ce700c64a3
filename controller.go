package pagestack

import (
	"context"
	"errors"
	"sync"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/export"
	"github.com/pagestack/pagestack/notify"
	"github.com/pagestack/pagestack/observability"
	"github.com/pagestack/pagestack/permission"
	"github.com/pagestack/pagestack/picker"
)

type State string

const (
	StateIdle         State = "IDLE"
	StatePicking      State = "PICKING"
	StateExtracting   State = "EXTRACTING"
	StateExportingPdf State = "EXPORTING_PDF"
)

// ErrBusy is returned when a trigger arrives while another operation is
// still running. Nothing happens in that case, no collaborator is called.
var ErrBusy = errors.New("another operation is already running")

// SessionState is a point in time copy of what a session holds. Texts is
// either empty or index aligned with Images.
type SessionState struct {
	Images []asset.Image
	Texts  []string
	Busy   bool
}

// Controller owns the session and drives every transition through it. All
// triggers are mutually exclusive, a second one while busy is refused with
// ErrBusy. Failures inside a transition become notices and the controller
// always returns to idle.
type Controller struct {
	gate      permission.Gate
	picker    picker.Picker
	extractor TextExtractor
	exporter  PDFExporter
	notifier  notify.Notifier
	logger    observability.Logger

	lock   sync.Mutex
	state  State
	images []asset.Image
	texts  []string
}

// Pick acquires images from the configured source and runs text recognition
// over them. On success the whole session is replaced with the new batch. A
// denied gate, a cancelled selection and an empty selection leave the
// session as it was.
func (c *Controller) Pick(ctx context.Context) error {
	if err := c.begin(StatePicking); err != nil {
		return err
	}
	defer c.finish()

	if !c.gate.Acquire(ctx) {
		c.logger.Warn("storage permission denied, pick aborted")
		c.notify(notify.LevelError, "Permission denied", "Storage access was not granted")
		return nil
	}

	images, err := c.picker.Pick(ctx)
	if err != nil {
		c.logger.Error("failed to pick images", observability.Error("error", err))
		c.notify(notify.LevelError, "Processing error", "Could not load the selected images")
		return errors.Join(errors.New("failed to pick images"), err)
	}
	if len(images) == 0 {
		c.logger.Debug("nothing picked, session unchanged")
		return nil
	}

	c.transition(StateExtracting)
	texts, err := c.extractor.All(ctx, images)
	if err != nil {
		c.logger.Error("failed to extract text from picked images", observability.Error("error", err))
		c.notify(notify.LevelError, "Processing error", "Could not read text from the selected images")
		return errors.Join(errors.New("failed to extract text from picked images"), err)
	}

	c.replaceSession(images, texts)
	c.logger.Info("session replaced", observability.Int("images", len(images)))
	return nil
}

// Export renders the session images into a PDF document. With nothing
// picked it refuses with export.ErrEmptySelection before touching the
// exporter.
func (c *Controller) Export(ctx context.Context) (string, error) {
	if err := c.begin(StateExportingPdf); err != nil {
		return "", err
	}
	defer c.finish()

	images := c.sessionImages()
	if len(images) == 0 {
		c.notify(notify.LevelInfo, "Nothing to export", "No images selected")
		return "", export.ErrEmptySelection
	}

	path, err := c.exporter.Export(ctx, images)
	if err != nil {
		c.logger.Error("failed to export pdf", observability.Error("error", err))
		c.notify(notify.LevelError, "Processing error", "Could not export the PDF document")
		return "", errors.Join(errors.New("failed to export pdf"), err)
	}

	return path, nil
}

// Clear drops the session images and texts. Clearing an empty session is
// fine and does nothing.
func (c *Controller) Clear() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.state != StateIdle {
		return ErrBusy
	}
	c.images = nil
	c.texts = nil
	return nil
}

// Snapshot returns a copy of the session. Mutating the copy does not touch
// the controller.
func (c *Controller) Snapshot() SessionState {
	c.lock.Lock()
	defer c.lock.Unlock()

	snapshot := SessionState{
		Images: make([]asset.Image, len(c.images)),
		Texts:  make([]string, len(c.texts)),
		Busy:   c.state != StateIdle,
	}
	copy(snapshot.Images, c.images)
	copy(snapshot.Texts, c.texts)
	return snapshot
}

func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *Controller) begin(next State) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.state != StateIdle {
		return ErrBusy
	}
	c.state = next
	return nil
}

func (c *Controller) transition(next State) {
	c.lock.Lock()
	c.state = next
	c.lock.Unlock()
}

func (c *Controller) finish() {
	c.transition(StateIdle)
}

func (c *Controller) replaceSession(images []asset.Image, texts []string) {
	c.lock.Lock()
	c.images = images
	c.texts = texts
	c.lock.Unlock()
}

func (c *Controller) sessionImages() []asset.Image {
	c.lock.Lock()
	defer c.lock.Unlock()

	images := make([]asset.Image, len(c.images))
	copy(images, c.images)
	return images
}

func (c *Controller) notify(level notify.Level, title string, message string) {
	if err := c.notifier.Notify(notify.Notice{Level: level, Title: title, Message: message}); err != nil {
		c.logger.Warn("failed to deliver notice", observability.Error("error", err))
	}
}
