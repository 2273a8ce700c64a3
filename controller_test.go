package pagestack

import (
	"context"
	"errors"
	"testing"

	"github.com/pagestack/pagestack/asset"
	"github.com/pagestack/pagestack/export"
	"github.com/pagestack/pagestack/notify"
)

type fakeGate struct {
	granted bool
	calls   int
}

func (f *fakeGate) Acquire(ctx context.Context) bool {
	f.calls += 1
	return f.granted
}

type fakePicker struct {
	images []asset.Image
	err    error
	calls  int
}

func (f *fakePicker) Pick(ctx context.Context) ([]asset.Image, error) {
	f.calls += 1
	if f.err != nil {
		return nil, f.err
	}
	return f.images, nil
}

type fakeExtractor struct {
	err   error
	calls int
}

func (f *fakeExtractor) All(ctx context.Context, images []asset.Image) ([]string, error) {
	f.calls += 1
	if f.err != nil {
		return nil, f.err
	}
	texts := make([]string, len(images))
	for i, img := range images {
		texts[i] = "text of " + img.URI
	}
	return texts, nil
}

type fakeExporter struct {
	path   string
	err    error
	calls  int
	images []asset.Image
}

func (f *fakeExporter) Export(ctx context.Context, images []asset.Image) (string, error) {
	f.calls += 1
	f.images = images
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

func newController(t *testing.T, config *Config) *Controller {
	t.Helper()

	ctrl, err := New(config)
	if err != nil {
		t.Fatalf("failed to build controller: %v", err)
	}
	return ctrl
}

func twoImages() []asset.Image {
	return []asset.Image{
		{URI: "a.png", MimeType: "image/png", Base64Payload: "QQ=="},
		{URI: "b.png", MimeType: "image/png", Base64Payload: "Qg=="},
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected an error for a nil config")
	}
	if _, err := New(&Config{Extractor: &fakeExtractor{}, Exporter: &fakeExporter{}}); err == nil {
		t.Error("expected an error for a missing picker")
	}
	if _, err := New(&Config{Picker: &fakePicker{}, Exporter: &fakeExporter{}}); err == nil {
		t.Error("expected an error for a missing extractor")
	}
	if _, err := New(&Config{Picker: &fakePicker{}, Extractor: &fakeExtractor{}}); err == nil {
		t.Error("expected an error for a missing exporter")
	}

	// Gate, notifier and logger are optional.
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{images: twoImages()},
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{},
	})
	if err := ctrl.Pick(context.Background()); err != nil {
		t.Errorf("expected defaults to carry a pick, got %v", err)
	}
}

func TestController_PickReplacesSession(t *testing.T) {
	notifier := &notify.Memory{}
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{images: twoImages()},
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{},
		Notifier:  notifier,
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from Pick: %v", err)
	}

	snapshot := ctrl.Snapshot()
	if snapshot.Busy {
		t.Error("expected busy to be false after Pick returned")
	}
	if len(snapshot.Images) != 2 || len(snapshot.Texts) != 2 {
		t.Fatalf("expected 2 images and 2 texts, got %d and %d", len(snapshot.Images), len(snapshot.Texts))
	}
	for i, img := range snapshot.Images {
		if snapshot.Texts[i] != "text of "+img.URI {
			t.Errorf("text %d is not aligned with its image: %q", i, snapshot.Texts[i])
		}
	}
	if len(notifier.Notices()) != 0 {
		t.Errorf("expected no notices on success, got %v", notifier.Notices())
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected state %s, got %s", StateIdle, ctrl.State())
	}
}

func TestController_GateDenial(t *testing.T) {
	notifier := &notify.Memory{}
	imagePicker := &fakePicker{images: twoImages()}
	ctrl := newController(t, &Config{
		Gate:      &fakeGate{granted: false},
		Picker:    imagePicker,
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{},
		Notifier:  notifier,
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("a denied gate is not a failure, got %v", err)
	}

	if imagePicker.calls != 0 {
		t.Errorf("expected no picker call after denial, got %d", imagePicker.calls)
	}
	notices := notifier.Notices()
	if len(notices) != 1 {
		t.Fatalf("expected exactly one notice, got %d", len(notices))
	}
	if notices[0].Level != notify.LevelError || notices[0].Title != "Permission denied" {
		t.Errorf("unexpected notice: %+v", notices[0])
	}
	if snapshot := ctrl.Snapshot(); len(snapshot.Images) != 0 || snapshot.Busy {
		t.Errorf("expected an untouched idle session, got %+v", snapshot)
	}
}

func TestController_PickerFailureKeepsSession(t *testing.T) {
	notifier := &notify.Memory{}
	imagePicker := &fakePicker{images: twoImages()}
	ctrl := newController(t, &Config{
		Picker:    imagePicker,
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{},
		Notifier:  notifier,
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from first Pick: %v", err)
	}

	cause := errors.New("picker broke")
	imagePicker.err = cause
	err := ctrl.Pick(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("expected the picker error in the chain, got %v", err)
	}

	snapshot := ctrl.Snapshot()
	if len(snapshot.Images) != 2 || snapshot.Images[0].URI != "a.png" {
		t.Errorf("expected the previous session to survive, got %+v", snapshot.Images)
	}
	notices := notifier.Notices()
	if len(notices) != 1 || notices[0].Title != "Processing error" {
		t.Errorf("expected one processing error notice, got %v", notices)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected state %s, got %s", StateIdle, ctrl.State())
	}
}

func TestController_ExtractionFailureKeepsSession(t *testing.T) {
	notifier := &notify.Memory{}
	extractor := &fakeExtractor{}
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{images: twoImages()},
		Extractor: extractor,
		Exporter:  &fakeExporter{},
		Notifier:  notifier,
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from first Pick: %v", err)
	}

	cause := errors.New("ocr broke")
	extractor.err = cause
	err := ctrl.Pick(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("expected the extraction error in the chain, got %v", err)
	}

	snapshot := ctrl.Snapshot()
	if len(snapshot.Images) != 2 || len(snapshot.Texts) != 2 {
		t.Errorf("expected the previous session to survive, got %d images and %d texts", len(snapshot.Images), len(snapshot.Texts))
	}
	if snapshot.Texts[0] != "text of a.png" {
		t.Errorf("expected the previous texts to survive, got %q", snapshot.Texts[0])
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected state %s, got %s", StateIdle, ctrl.State())
	}
}

func TestController_EmptyPickIsNoOp(t *testing.T) {
	notifier := &notify.Memory{}
	imagePicker := &fakePicker{images: twoImages()}
	extractor := &fakeExtractor{}
	ctrl := newController(t, &Config{
		Picker:    imagePicker,
		Extractor: extractor,
		Exporter:  &fakeExporter{},
		Notifier:  notifier,
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from first Pick: %v", err)
	}

	imagePicker.images = nil
	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("a cancelled selection is not a failure, got %v", err)
	}

	if extractor.calls != 1 {
		t.Errorf("expected no extraction for an empty pick, got %d calls", extractor.calls)
	}
	if snapshot := ctrl.Snapshot(); len(snapshot.Images) != 2 {
		t.Errorf("expected the previous session to survive, got %d images", len(snapshot.Images))
	}
	if len(notifier.Notices()) != 0 {
		t.Errorf("expected no notices, got %v", notifier.Notices())
	}
}

func TestController_Export(t *testing.T) {
	exporter := &fakeExporter{path: "/tmp/pagestack.pdf"}
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{images: twoImages()},
		Extractor: &fakeExtractor{},
		Exporter:  exporter,
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from Pick: %v", err)
	}

	path, err := ctrl.Export(context.Background())
	if err != nil {
		t.Fatalf("unexpected error from Export: %v", err)
	}
	if path != "/tmp/pagestack.pdf" {
		t.Errorf("expected the exporter path, got %s", path)
	}
	if len(exporter.images) != 2 || exporter.images[0].URI != "a.png" {
		t.Errorf("expected the session images, got %+v", exporter.images)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected state %s, got %s", StateIdle, ctrl.State())
	}
}

func TestController_ExportWithoutImages(t *testing.T) {
	notifier := &notify.Memory{}
	exporter := &fakeExporter{path: "/tmp/pagestack.pdf"}
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{},
		Extractor: &fakeExtractor{},
		Exporter:  exporter,
		Notifier:  notifier,
	})

	_, err := ctrl.Export(context.Background())
	if !errors.Is(err, export.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}

	if exporter.calls != 0 {
		t.Errorf("expected no exporter call, got %d", exporter.calls)
	}
	notices := notifier.Notices()
	if len(notices) != 1 || notices[0].Level != notify.LevelInfo {
		t.Fatalf("expected one info notice, got %v", notices)
	}
	if notices[0].Message != "No images selected" {
		t.Errorf("unexpected notice message: %q", notices[0].Message)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected state %s, got %s", StateIdle, ctrl.State())
	}
}

func TestController_ExportFailure(t *testing.T) {
	notifier := &notify.Memory{}
	cause := errors.New("converter broke")
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{images: twoImages()},
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{err: cause},
		Notifier:  notifier,
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from Pick: %v", err)
	}

	_, err := ctrl.Export(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("expected the exporter error in the chain, got %v", err)
	}

	notices := notifier.Notices()
	if len(notices) != 1 || notices[0].Title != "Processing error" {
		t.Errorf("expected one processing error notice, got %v", notices)
	}
	if snapshot := ctrl.Snapshot(); snapshot.Busy {
		t.Error("expected busy to be false after a failed export")
	}
}

type blockingPicker struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPicker) Pick(ctx context.Context) ([]asset.Image, error) {
	close(p.entered)
	<-p.release
	return nil, nil
}

func TestController_BusyRefusesTriggers(t *testing.T) {
	imagePicker := &blockingPicker{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	extractor := &fakeExtractor{}
	exporter := &fakeExporter{}
	ctrl := newController(t, &Config{
		Picker:    imagePicker,
		Extractor: extractor,
		Exporter:  exporter,
	})

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Pick(context.Background())
	}()
	<-imagePicker.entered

	if !ctrl.Snapshot().Busy {
		t.Error("expected busy while a pick is running")
	}
	if err := ctrl.Pick(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy from a second pick, got %v", err)
	}
	if _, err := ctrl.Export(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy from export, got %v", err)
	}
	if err := ctrl.Clear(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy from clear, got %v", err)
	}
	if exporter.calls != 0 || extractor.calls != 0 {
		t.Error("expected no collaborator calls while busy")
	}

	close(imagePicker.release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from the running pick: %v", err)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected state %s after the pick finished, got %s", StateIdle, ctrl.State())
	}
}

func TestController_ClearIsIdempotent(t *testing.T) {
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{images: twoImages()},
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{},
	})

	if err := ctrl.Clear(); err != nil {
		t.Fatalf("clearing an empty session failed: %v", err)
	}

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from Pick: %v", err)
	}
	if err := ctrl.Clear(); err != nil {
		t.Fatalf("unexpected error from Clear: %v", err)
	}
	if snapshot := ctrl.Snapshot(); len(snapshot.Images) != 0 || len(snapshot.Texts) != 0 {
		t.Errorf("expected an empty session after Clear, got %+v", snapshot)
	}
	if err := ctrl.Clear(); err != nil {
		t.Fatalf("clearing twice failed: %v", err)
	}
}

func TestController_SnapshotIsACopy(t *testing.T) {
	ctrl := newController(t, &Config{
		Picker:    &fakePicker{images: twoImages()},
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{},
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Fatalf("unexpected error from Pick: %v", err)
	}

	snapshot := ctrl.Snapshot()
	snapshot.Images[0].URI = "tampered.png"
	snapshot.Texts[1] = "tampered"

	fresh := ctrl.Snapshot()
	if fresh.Images[0].URI != "a.png" || fresh.Texts[1] != "text of b.png" {
		t.Error("expected the session to be isolated from snapshot mutation")
	}
}

func TestController_NotifierFailureDoesNotBreakTriggers(t *testing.T) {
	ctrl := newController(t, &Config{
		Gate:      &fakeGate{granted: false},
		Picker:    &fakePicker{images: twoImages()},
		Extractor: &fakeExtractor{},
		Exporter:  &fakeExporter{},
		Notifier:  &notify.Memory{Err: errors.New("notification center down")},
	})

	if err := ctrl.Pick(context.Background()); err != nil {
		t.Errorf("expected a failing notifier to be swallowed, got %v", err)
	}
	if ctrl.State() != StateIdle {
		t.Errorf("expected state %s, got %s", StateIdle, ctrl.State())
	}
}
