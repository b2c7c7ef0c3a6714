package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/appshell/pkg/domain"
	"github.com/aretw0/appshell/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlugin records its registration attempts into a shared journal.
type fakePlugin struct {
	name    string
	err     error
	journal *[]string
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Register(c *Context) error {
	*p.journal = append(*p.journal, p.name)
	if p.err != nil {
		return p.err
	}
	return c.AddCommand("ping", func(ctx context.Context, args map[string]any) (any, error) {
		return p.name, nil
	})
}

// countingHost counts run loop invocations.
type countingHost struct {
	runs int
	err  error
	seen *Context
}

func (h *countingHost) Run(ctx context.Context, c *Context) error {
	h.runs++
	h.seen = c
	if err := c.Begin(); err != nil {
		return err
	}
	return h.err
}

// table mirrors the default application: mobile, unconditional, debug.
func table(journal *[]string, failing map[string]error) []Entry {
	mk := func(name string) *fakePlugin {
		return &fakePlugin{name: name, err: failing[name], journal: journal}
	}
	return []Entry{
		{Plugin: mk("barcode-scanner"), Include: IfMobile},
		{Plugin: mk("os"), Include: Always},
		{Plugin: mk("log"), Include: IfDebug},
	}
}

func TestCompose_AttemptedSetMatchesPredicates(t *testing.T) {
	tests := []struct {
		cls  platform.Classification
		want []string
	}{
		{platform.Classification{}, []string{"os"}},
		{platform.Classification{Debug: true}, []string{"os", "log"}},
		{platform.Classification{Mobile: true}, []string{"barcode-scanner", "os"}},
		{platform.Classification{Mobile: true, Debug: true}, []string{"barcode-scanner", "os", "log"}},
	}
	for _, tt := range tests {
		t.Run(tt.cls.String(), func(t *testing.T) {
			var journal []string
			host := &countingHost{}

			err := Compose(context.Background(), tt.cls, table(&journal, nil), host)
			require.NoError(t, err)

			assert.Equal(t, tt.want, journal)
			assert.Equal(t, 1, host.runs)

			var planned []string
			for _, e := range Plan(tt.cls, table(&[]string{}, nil)) {
				planned = append(planned, e.Plugin.Name())
			}
			assert.Equal(t, tt.want, planned, "Plan must agree with Compose")
		})
	}
}

func TestCompose_ScenarioA_DesktopRelease(t *testing.T) {
	var journal []string
	host := &countingHost{}

	err := Compose(context.Background(), platform.Classification{}, table(&journal, nil), host)
	require.NoError(t, err)

	assert.Equal(t, []string{"os"}, journal)
	assert.Equal(t, 1, host.runs)
	require.NotNil(t, host.seen)
	assert.Equal(t, StateRunning, host.seen.State())
	assert.True(t, host.seen.Commands().Has("plugin:os|ping"))
}

func TestCompose_ScenarioB_MobileDebugOrder(t *testing.T) {
	var journal []string
	host := &countingHost{}

	err := Compose(context.Background(), platform.Classification{Mobile: true, Debug: true}, table(&journal, nil), host)
	require.NoError(t, err)

	assert.Equal(t, []string{"barcode-scanner", "os", "log"}, journal)
	assert.Equal(t, 1, host.runs)

	handles := host.seen.Plugins()
	require.Len(t, handles, 3)
	for i, h := range handles {
		assert.Equal(t, journal[i], h.Name)
		assert.Equal(t, i, h.Position)
	}
}

func TestCompose_HandlePositionIsDeclaredIndex(t *testing.T) {
	var journal []string
	host := &countingHost{}

	err := Compose(context.Background(), platform.Classification{Debug: true}, table(&journal, nil), host)
	require.NoError(t, err)

	handles := host.seen.Plugins()
	require.Len(t, handles, 2)
	assert.Equal(t, "os", handles[0].Name)
	assert.Equal(t, 1, handles[0].Position)
	assert.Equal(t, "log", handles[1].Name)
	assert.Equal(t, 2, handles[1].Position)
}

func TestCompose_ScenarioC_FailureStopsPrefix(t *testing.T) {
	var journal []string
	host := &countingHost{}
	boom := errors.New("os bridge unavailable")

	err := Compose(context.Background(), platform.Classification{Debug: true}, table(&journal, map[string]error{"os": boom}), host)
	require.Error(t, err)

	assert.Equal(t, []string{"os"}, journal, "log must never be attempted")
	assert.Equal(t, 0, host.runs, "run loop must never be invoked")

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "os", regErr.Plugin)
	assert.Equal(t, 1, regErr.Position)
	assert.ErrorIs(t, err, boom)
}

func TestCompose_PrefixStopForEveryPosition(t *testing.T) {
	const n = 6
	for failAt := 0; failAt < n; failAt++ {
		t.Run(fmt.Sprintf("fail_at_%d", failAt), func(t *testing.T) {
			var journal []string
			entries := make([]Entry, n)
			for i := range entries {
				p := &fakePlugin{name: fmt.Sprintf("p%d", i), journal: &journal}
				if i == failAt {
					p.err = errors.New("nope")
				}
				entries[i] = Entry{Plugin: p}
			}
			host := &countingHost{}

			err := Compose(context.Background(), platform.Classification{}, entries, host)
			require.Error(t, err)
			assert.Len(t, journal, failAt+1)
			assert.Equal(t, 0, host.runs)
		})
	}
}

func TestCompose_RunLoopFailureIsFatal(t *testing.T) {
	var journal []string
	crash := errors.New("window server gone")
	host := &countingHost{err: crash}

	err := Compose(context.Background(), platform.Classification{}, table(&journal, nil), host)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.ErrorIs(t, err, crash)
	assert.Equal(t, 1, host.runs)
}

func TestCompose_NilHost(t *testing.T) {
	var journal []string
	err := Compose(context.Background(), platform.Classification{}, table(&journal, nil), nil)
	var runErr *RunError
	assert.ErrorAs(t, err, &runErr)
}

func TestContext_FailedNeverAcceptsAgain(t *testing.T) {
	var journal []string
	c := NewContext()
	err := c.Apply(platform.Classification{}, table(&journal, map[string]error{"os": errors.New("x")}))
	require.Error(t, err)
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, err, c.Err())

	err = c.Register(&fakePlugin{name: "late", journal: &journal})
	assert.ErrorIs(t, err, domain.ErrContextClosed)
	assert.ErrorIs(t, c.Begin(), domain.ErrContextClosed)

	host := &countingHost{}
	assert.Error(t, Launch(context.Background(), c, host))
	assert.Equal(t, 0, host.runs)
}

func TestContext_BeginOnlyOnce(t *testing.T) {
	c := NewContext()
	require.NoError(t, c.Begin())
	assert.Equal(t, StateRunning, c.State())
	assert.ErrorIs(t, c.Begin(), domain.ErrContextClosed)

	var journal []string
	assert.ErrorIs(t, c.Register(&fakePlugin{name: "late", journal: &journal}), domain.ErrContextClosed)
	assert.Empty(t, journal)
}

func TestContext_DuplicatePluginIsAttemptedOnce(t *testing.T) {
	var journal []string
	c := NewContext()
	require.NoError(t, c.Register(&fakePlugin{name: "os", journal: &journal}))

	err := c.Register(&fakePlugin{name: "os", journal: &journal})
	assert.ErrorIs(t, err, domain.ErrDuplicatePlugin)
	assert.Equal(t, []string{"os"}, journal)
}

func TestContext_AddCommandOutsideRegistration(t *testing.T) {
	c := NewContext()
	err := c.AddCommand("ping", func(ctx context.Context, args map[string]any) (any, error) { return nil, nil })
	assert.Error(t, err)
}

func TestContext_ManageConflict(t *testing.T) {
	c := NewContext()
	require.NoError(t, c.Manage("log.sink", 1))
	assert.Error(t, c.Manage("log.sink", 2))

	v, ok := c.Managed("log.sink")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestContext_ShutdownReverseOrder(t *testing.T) {
	c := NewContext()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		c.OnShutdown(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}
	c.OnShutdown(func(ctx context.Context) error { return errors.New("flush failed") })

	err := c.Shutdown(context.Background())
	assert.EqualError(t, err, "flush failed")
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestContext_EmitReachesSubscribers(t *testing.T) {
	c := NewContext()
	ch, cancel := c.Events().Subscribe("")
	defer cancel()

	c.Emit(context.Background(), "hello", "world")
	ev := <-ch
	assert.Equal(t, "hello", ev.Name)
	assert.Equal(t, "world", ev.Payload)
}

func TestContext_InvokeRecordsMetrics(t *testing.T) {
	var journal []string
	c := NewContext()
	require.NoError(t, c.Register(&fakePlugin{name: "os", journal: &journal}))

	res, err := c.Invoke(context.Background(), "plugin:os|ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "os", res)

	_, err = c.Invoke(context.Background(), "plugin:os|missing", nil)
	assert.ErrorIs(t, err, domain.ErrCommandNotFound)
}

func TestEntry_Describe(t *testing.T) {
	p := &fakePlugin{name: "x", journal: &[]string{}}
	assert.Equal(t, "debug builds", Entry{Plugin: p, Include: IfDebug, Condition: "debug builds"}.Describe())
	assert.Equal(t, "always", Entry{Plugin: p}.Describe())
	assert.Equal(t, "custom", Entry{Plugin: p, Include: IfMobile}.Describe())
}
