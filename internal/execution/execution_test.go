package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specline/internal/domain"
	"specline/internal/parser"
	"specline/internal/reporter"
)

func eventStream(frames ...string) string {
	var b strings.Builder
	b.WriteString(`{"kind":"seed","seed":7}` + "\n")
	b.WriteString(`{"kind":"passed","description":"ok"}` + "\n")
	for i, frame := range frames {
		fmt.Fprintf(&b, `{"kind":"failed","description":"case %d","failure":{"message":"failure %d\nmore","backtrace":["/gems/lib/x.rb:1",%q]}}`+"\n", i, i, frame)
	}
	b.WriteString(`{"kind":"summary","text":"done"}` + "\n")
	return b.String()
}

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRunner(buf *bytes.Buffer) *Runner {
	return NewRunner(parser.FormatAuto, reporter.New(nil, reporter.NewSink(buf)), nil)
}

func TestRunner_RunReader(t *testing.T) {
	var buf bytes.Buffer
	runner := newRunner(&buf)

	stream := eventStream("/spec/a_spec.rb:3:in 'block'", "/lib/no_spec_here.rb:9")
	result := runner.RunReader(context.Background(), StdinName, strings.NewReader(stream))

	require.NoError(t, result.Err)
	assert.Equal(t, StdinName, result.Path)
	assert.Equal(t, 5, result.Events)
	assert.Equal(t, 2, result.Failures)
	assert.Equal(t, 1, result.Lines)
	assert.Equal(t, "/spec/a_spec.rb:3: failure 0 more\n", buf.String())
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		result := newRunner(&buf).Run(context.Background(), filepath.Join(dir, "missing.json"))
		assert.Error(t, result.Err)
		assert.False(t, result.Success())
	})

	t.Run("undecodable report", func(t *testing.T) {
		var buf bytes.Buffer
		path := writeReport(t, dir, "bad.json", "not json at all")
		result := newRunner(&buf).Run(context.Background(), path)
		require.Error(t, result.Err)
		assert.Contains(t, result.Err.Error(), path)
		assert.Empty(t, buf.String())
	})

	t.Run("explicit format", func(t *testing.T) {
		var buf bytes.Buffer
		path := writeReport(t, dir, "events.jsonl", eventStream("/spec/b_spec.rb:8"))
		runner := NewRunner(parser.FormatEvents, reporter.New(nil, reporter.NewSink(&buf)), nil)
		result := runner.Run(context.Background(), path)
		require.NoError(t, result.Err)
		assert.Equal(t, "/spec/b_spec.rb:8: failure 0 more\n", buf.String())
	})

	t.Run("cancelled context", func(t *testing.T) {
		var buf bytes.Buffer
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := writeReport(t, dir, "cancel.jsonl", eventStream("/spec/b_spec.rb:8"))
		result := newRunner(&buf).Run(ctx, path)
		assert.ErrorIs(t, result.Err, context.Canceled)
	})
}

func TestRoundRobinScheduler_Schedule(t *testing.T) {
	scheduler := NewRoundRobinScheduler()

	distribution := scheduler.Schedule([]string{"a", "b", "c", "d", "e"}, 2)
	require.Len(t, distribution, 2)
	assert.Equal(t, []Job{{0, "a"}, {2, "c"}, {4, "e"}}, distribution[0])
	assert.Equal(t, []Job{{1, "b"}, {3, "d"}}, distribution[1])

	distribution = scheduler.Schedule([]string{"a"}, 0)
	require.Len(t, distribution, 1)
	assert.Equal(t, []Job{{0, "a"}}, distribution[0])
}

type recordingProgress struct {
	mu       sync.Mutex
	updates  int
	lines    int
	finished bool
}

func (p *recordingProgress) Update(completed, lines int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates++
	p.lines = lines
}

func (p *recordingProgress) Finish() {
	p.finished = true
}

func TestWorkerPool_Execute(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 6; i++ {
		paths = append(paths, writeReport(t, dir, fmt.Sprintf("r%d.jsonl", i), eventStream(fmt.Sprintf("/spec/r%d_spec.rb:%d", i, i+1))))
	}

	var buf bytes.Buffer
	pool := NewWorkerPool(3, newRunner(&buf), NewRoundRobinScheduler())
	progress := &recordingProgress{}
	pool.SetProgress(progress)

	results, _, err := pool.Execute(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, result := range results {
		assert.Equal(t, paths[i], result.Path, "results keep input order")
		assert.NoError(t, result.Err)
		assert.Equal(t, 1, result.Lines)
	}

	assert.Equal(t, 6, progress.updates)
	assert.Equal(t, 6, progress.lines)
	assert.True(t, progress.finished)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	sort.Strings(lines)
	expected := make([]string, 0, len(paths))
	for i := range paths {
		expected = append(expected, fmt.Sprintf("/spec/r%d_spec.rb:%d: failure 0 more", i, i+1))
	}
	assert.Equal(t, expected, lines)
}

func TestWorkerPool_FailFast(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeReport(t, dir, "bad.json", "garbage")}
	for i := 0; i < 5; i++ {
		paths = append(paths, writeReport(t, dir, fmt.Sprintf("r%d.jsonl", i), eventStream("/spec/a_spec.rb:1")))
	}

	var buf bytes.Buffer
	pool := NewWorkerPool(1, newRunner(&buf), NewRoundRobinScheduler())

	results, _, err := pool.ExecuteWithOptions(context.Background(), paths, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Empty(t, buf.String())
}

// blockingRunner fails "bad" once "slow" is running; "slow" blocks until cancelled
type blockingRunner struct {
	started chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context, path string) domain.ReportResult {
	switch path {
	case "slow":
		close(r.started)
		<-ctx.Done()
		return domain.ReportResult{Path: path, Lines: 1, Err: fmt.Errorf("%s: %w", path, ctx.Err())}
	case "bad":
		<-r.started
		return domain.ReportResult{Path: path, Err: errors.New("bad: invalid character")}
	}
	return domain.ReportResult{Path: path}
}

func TestWorkerPool_FailFastDropsInterruptedReports(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{})}
	pool := NewWorkerPool(2, runner, NewRoundRobinScheduler())

	results, _, err := pool.ExecuteWithOptions(context.Background(), []string{"bad", "slow"}, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "bad", results[0].Path)
	assert.NotErrorIs(t, results[0].Err, context.Canceled)
}

func TestWorkerPool_CallerCancelKeepsResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &blockingRunner{started: make(chan struct{})}
	go func() {
		<-runner.started
		cancel()
	}()

	results, _, err := NewWorkerPool(1, runner, NewRoundRobinScheduler()).ExecuteWithOptions(ctx, []string{"slow"}, true)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestWorkerPool_NoFailFastKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeReport(t, dir, "bad.json", "garbage"),
		writeReport(t, dir, "good.jsonl", eventStream("/spec/a_spec.rb:1")),
	}

	var buf bytes.Buffer
	results, _, err := NewWorkerPool(1, newRunner(&buf), NewRoundRobinScheduler()).Execute(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "/spec/a_spec.rb:1: failure 0 more\n", buf.String())
}

func TestWorkerPool_Empty(t *testing.T) {
	var buf bytes.Buffer
	results, duration, err := NewWorkerPool(2, newRunner(&buf), NewRoundRobinScheduler()).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Zero(t, duration)
}
