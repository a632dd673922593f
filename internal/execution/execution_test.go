package execution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	resp     *model.RunResponse
	err      error
	captured model.ExecutionRequest

	// When set, Run signals started and then waits for release.
	started chan struct{}
	release chan struct{}
}

func (m *mockRunner) Run(ctx context.Context, req model.ExecutionRequest) (*model.RunResponse, error) {
	m.captured = req
	if m.started != nil {
		close(m.started)
		<-m.release
	}
	return m.resp, m.err
}

type region struct {
	text string
	key  string
}

// fakeView records regions and the order of every write.
type fakeView struct {
	mu      sync.Mutex
	regions map[string]region
	events  []string
}

func newFakeView() *fakeView {
	return &fakeView{regions: map[string]region{}}
}

func (v *fakeView) SetRegionText(name, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.regions[name] = region{text: text}
	v.events = append(v.events, "set:"+name)
}

func (v *fakeView) SetRegionKey(name, key, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.regions[name] = region{text: text, key: key}
	v.events = append(v.events, "set:"+name)
}

func (v *fakeView) record(event string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, event)
}

type fakeEditor struct{ text string }

func (e fakeEditor) Text() string { return e.text }

type fakeControls struct{ main model.RunControls }

func (c fakeControls) MainControls() model.RunControls { return c.main }

type fakeRefresher struct {
	view  *fakeView
	calls int
}

func (r *fakeRefresher) Refresh(ctx context.Context) error {
	r.calls++
	r.view.record("refresh")
	return nil
}

type keyTranslator struct{}

func (keyTranslator) T(key string) string { return "<" + key + ">" }

type note struct {
	text  string
	error bool
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *fakeNotifier) Info(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{text: text})
}

func (n *fakeNotifier) Error(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{text: text, error: true})
}

func (n *fakeNotifier) last() note {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return note{}
	}
	return n.notes[len(n.notes)-1]
}

type fixture struct {
	runner    *mockRunner
	view      *fakeView
	refresher *fakeRefresher
	notifier  *fakeNotifier
	ctrl      *Controller
}

func newFixture(runner *mockRunner, controls model.RunControls) *fixture {
	view := newFakeView()
	f := &fixture{
		runner:    runner,
		view:      view,
		refresher: &fakeRefresher{view: view},
		notifier:  &fakeNotifier{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.ctrl = New(runner, view, fakeEditor{text: "print(1)"}, fakeControls{main: controls},
		f.refresher, keyTranslator{}, f.notifier, logger)
	return f
}

func intPtr(i int) *int { return &i }

func TestController_Run_Success(t *testing.T) {
	runner := &mockRunner{resp: &model.RunResponse{
		OK:      true,
		Result:  &model.RunOutput{Stdout: "1\n", Stderr: "", ReturnCode: intPtr(0)},
		Imports: []string{},
		Missing: []string{},
	}}
	f := newFixture(runner, model.RunControls{Timeout: "5", TimeoutEnabled: true})

	require.NoError(t, f.ctrl.Run(context.Background()))

	assert.Equal(t, model.ExecutionRequest{Code: "print(1)", TimeoutSeconds: 5, TimeoutEnabled: true}, runner.captured)
	assert.Equal(t, region{text: "1\n"}, f.view.regions[RegionStdout])
	assert.Equal(t, region{text: "<no_error>", key: "no_error"}, f.view.regions[RegionStderr])
	assert.Equal(t, region{text: "<no_import>", key: "no_import"}, f.view.regions[RegionModules])
	assert.Equal(t, 1, f.refresher.calls)
	assert.Equal(t, note{text: "<msg_done>"}, f.notifier.last())
	assert.False(t, f.ctrl.Running())
}

func TestController_Run_PanelsBeforeRefresh(t *testing.T) {
	runner := &mockRunner{resp: &model.RunResponse{OK: true, Result: &model.RunOutput{Stdout: "x"}}}
	f := newFixture(runner, model.RunControls{Timeout: "5"})

	require.NoError(t, f.ctrl.Run(context.Background()))

	events := f.view.events
	require.NotEmpty(t, events)
	assert.Equal(t, "refresh", events[len(events)-1])
	assert.Contains(t, events[:len(events)-1], "set:"+RegionModules)
}

func TestController_Run_ImportOrder(t *testing.T) {
	runner := &mockRunner{resp: &model.RunResponse{
		OK:      true,
		Result:  &model.RunOutput{},
		Imports: []string{"a", "b", "c"},
		Missing: []string{"b"},
	}}
	f := newFixture(runner, model.RunControls{Timeout: "5"})

	require.NoError(t, f.ctrl.Run(context.Background()))

	assert.Equal(t, "✔ a\n❌ b\n✔ c", f.view.regions[RegionModules].text)
}

func TestController_Run_StderrFallbacks(t *testing.T) {
	tb := "Traceback (most recent call last): ..."
	tests := []struct {
		name   string
		output model.RunOutput
		want   region
	}{
		{
			name:   "stderr wins",
			output: model.RunOutput{Stderr: "warn", Traceback: &tb},
			want:   region{text: "warn"},
		},
		{
			name:   "traceback when stderr empty",
			output: model.RunOutput{Traceback: &tb},
			want:   region{text: tb},
		},
		{
			name:   "placeholder when both empty",
			output: model.RunOutput{},
			want:   region{text: "<no_error>", key: "no_error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.output
			f := newFixture(&mockRunner{resp: &model.RunResponse{OK: true, Result: &out}}, model.RunControls{Timeout: "5"})

			require.NoError(t, f.ctrl.Run(context.Background()))

			assert.Equal(t, tt.want, f.view.regions[RegionStderr])
			assert.Equal(t, region{text: "<no_output>", key: "no_output"}, f.view.regions[RegionStdout])
		})
	}
}

func TestController_Run_ApplicationFailure(t *testing.T) {
	runner := &mockRunner{resp: &model.RunResponse{OK: false, Error: "SyntaxError: ..."}}
	f := newFixture(runner, model.RunControls{Timeout: "5"})

	err := f.ctrl.Run(context.Background())

	assert.ErrorIs(t, err, apperror.ErrRemote)
	assert.Equal(t, region{}, f.view.regions[RegionStdout])
	assert.Equal(t, region{text: "SyntaxError: ..."}, f.view.regions[RegionStderr])
	assert.Equal(t, note{text: "<msg_error>", error: true}, f.notifier.last())
	assert.Equal(t, 0, f.refresher.calls)
}

func TestController_Run_NetworkFailure(t *testing.T) {
	runner := &mockRunner{err: apperror.Network("POST /run", errors.New("connection refused"))}
	f := newFixture(runner, model.RunControls{Timeout: "5"})

	err := f.ctrl.Run(context.Background())

	assert.ErrorIs(t, err, apperror.ErrNetwork)
	assert.Equal(t, "<request_failed>: POST /run: connection refused", f.view.regions[RegionStderr].text)
	assert.Equal(t, note{text: "<msg_network>", error: true}, f.notifier.last())
	assert.Equal(t, 0, f.refresher.calls)
	assert.False(t, f.ctrl.Running())
}

func TestController_Request_TimeoutFallback(t *testing.T) {
	for _, text := range []string{"", "0", "-3", "abc", "NaN", "Inf"} {
		f := newFixture(&mockRunner{}, model.RunControls{Timeout: text, TimeoutEnabled: false})
		req := f.ctrl.Request()
		assert.Equal(t, 5.0, req.TimeoutSeconds, "timeout text %q", text)
		assert.False(t, req.TimeoutEnabled)
	}

	f := newFixture(&mockRunner{}, model.RunControls{Timeout: "2.5", TimeoutEnabled: true})
	assert.Equal(t, 2.5, f.ctrl.Request().TimeoutSeconds)
}

func TestController_Run_RefusesOverlap(t *testing.T) {
	runner := &mockRunner{
		resp:    &model.RunResponse{OK: true, Result: &model.RunOutput{Stdout: "first"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := newFixture(runner, model.RunControls{Timeout: "5"})

	done := make(chan error, 1)
	go func() { done <- f.ctrl.Run(context.Background()) }()
	<-runner.started

	assert.True(t, f.ctrl.Running())
	err := f.ctrl.Run(context.Background())
	assert.ErrorIs(t, err, apperror.ErrBusy)
	assert.Equal(t, note{text: "<msg_busy>", error: true}, f.notifier.last())

	close(runner.release)
	require.NoError(t, <-done)
	assert.Equal(t, "first", f.view.regions[RegionStdout].text)
	assert.False(t, f.ctrl.Running())
}
