package maestro_test

import (
	"context"
	"encoding/hex"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrokit/maestro"
	"github.com/macrokit/maestro/pkg/domain"
)

// fakeBridge answers commands from a table of substring → raw result,
// recording every source it sees. Unmatched commands return an empty
// result, like an engine with nothing to report.
type fakeBridge struct {
	responses map[string]string
	failWith  map[string]error
	sources   []string
}

func (f *fakeBridge) Run(ctx context.Context, source string) (string, error) {
	return f.answer(source)
}

func (f *fakeBridge) RunFile(ctx context.Context, source string) (string, error) {
	return f.answer(source)
}

func (f *fakeBridge) answer(source string) (string, error) {
	f.sources = append(f.sources, source)
	for marker, err := range f.failWith {
		if strings.Contains(source, marker) {
			return "", err
		}
	}
	for marker, raw := range f.responses {
		if strings.Contains(source, marker) {
			return raw, nil
		}
	}
	return "", nil
}

func newTestClient(t *testing.T, bridge *fakeBridge, opts ...maestro.Option) *maestro.Client {
	t.Helper()
	client, err := maestro.New(append([]maestro.Option{maestro.WithBridge(bridge)}, opts...)...)
	require.NoError(t, err)
	return client
}

func TestListMacros(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"repeat with g in macro groups": "Open Mail%%%A1-001%%%true%%%Utilities@@@Paste Date%%%A1-002%%%false%%%Text@@@",
	}}
	client := newTestClient(t, bridge)

	macros, err := client.ListMacros(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.MacroRecord{
		{Name: "Open Mail", UID: "A1-001", Enabled: true, Group: "Utilities"},
		{Name: "Paste Date", UID: "A1-002", Enabled: false, Group: "Text"},
	}, macros)
}

func TestSearchMacros_BuildsCaseSensitiveQuery(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		`whose name contains "Mail"`: "Open Mail%%%A1-001%%%true%%%Utilities@@@",
	}}
	client := newTestClient(t, bridge)

	macros, err := client.SearchMacros(context.Background(), "Mail")
	require.NoError(t, err)
	require.Len(t, macros, 1)
	assert.Equal(t, "Open Mail", macros[0].Name)

	require.Len(t, bridge.sources, 1)
	assert.Contains(t, bridge.sources[0], "considering case")
}

func TestGetMacro_NotFoundOnEmptyResult(t *testing.T) {
	client := newTestClient(t, &fakeBridge{})

	_, err := client.GetMacro(context.Background(), "Ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorContains(t, err, "get macro")
}

func TestCreateMacro_WithPayload(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"make new macro":  "NEW-UID-42",
		"make new action": `Added action to macro "NEW-UID-42"`,
	}}
	client := newTestClient(t, bridge)

	out, err := client.CreateMacro(context.Background(), "Test Macro", maestro.CreateMacroOptions{
		Payload: "<dict><key>MacroActionType</key><string>Notification</string></dict>",
	})
	require.NoError(t, err)
	assert.Equal(t, `Created macro "Test Macro" with id NEW-UID-42`, out)

	// Two round trips: create, then add the initial action against the
	// freshly returned uid.
	require.Len(t, bridge.sources, 2)
	assert.Contains(t, bridge.sources[0], `make new macro with properties {name:"Test Macro"}`)
	assert.Contains(t, bridge.sources[1], `id is "NEW-UID-42"`)
}

func TestCreateMacro_PayloadFailureKeepsMacro(t *testing.T) {
	bridge := &fakeBridge{
		responses: map[string]string{"make new macro": "NEW-UID-42"},
		failWith:  map[string]error{"make new action": &domain.EngineError{Message: "bad xml"}},
	}
	client := newTestClient(t, bridge)

	_, err := client.CreateMacro(context.Background(), "Test Macro", maestro.CreateMacroOptions{
		Payload: "<dict/>",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "macro NEW-UID-42 created")
	assert.True(t, domain.IsEngineError(err))
}

func TestAddAction_TransferFileLifecycle(t *testing.T) {
	pathRe := regexp.MustCompile(`POSIX file "([^"]+)"`)

	t.Run("released on success", func(t *testing.T) {
		bridge := &fakeBridge{}
		client := newTestClient(t, bridge)

		_, err := client.AddAction(context.Background(), "Mail", "<dict/>")
		require.NoError(t, err)

		require.Len(t, bridge.sources, 1)
		m := pathRe.FindStringSubmatch(bridge.sources[0])
		require.Len(t, m, 2)

		_, statErr := os.Stat(m[1])
		assert.True(t, os.IsNotExist(statErr), "transfer file should be released")
	})

	t.Run("released on failure", func(t *testing.T) {
		bridge := &fakeBridge{failWith: map[string]error{
			"make new action": &domain.EngineError{Message: "rejected"},
		}}
		client := newTestClient(t, bridge)

		_, err := client.AddAction(context.Background(), "Mail", "<dict/>")
		require.Error(t, err)

		require.Len(t, bridge.sources, 1)
		m := pathRe.FindStringSubmatch(bridge.sources[0])
		require.Len(t, m, 2)

		_, statErr := os.Stat(m[1])
		assert.True(t, os.IsNotExist(statErr), "transfer file should be released on failure too")
	})
}

func TestAddAction_FileExistsDuringCommand(t *testing.T) {
	pathRe := regexp.MustCompile(`POSIX file "([^"]+)"`)

	var existedDuringRun bool
	probe := &probeBridge{inner: &fakeBridge{}, onSource: func(source string) {
		if m := pathRe.FindStringSubmatch(source); len(m) == 2 {
			_, err := os.Stat(m[1])
			existedDuringRun = err == nil
		}
	}}
	client, err := maestro.New(maestro.WithBridge(probe))
	require.NoError(t, err)

	_, err = client.AddAction(context.Background(), "Mail", "<dict/>")
	require.NoError(t, err)
	assert.True(t, existedDuringRun, "transfer file must exist while the command runs")
}

// probeBridge observes each source before delegating.
type probeBridge struct {
	inner    *fakeBridge
	onSource func(source string)
}

func (p *probeBridge) Run(ctx context.Context, source string) (string, error) {
	p.onSource(source)
	return p.inner.Run(ctx, source)
}

func (p *probeBridge) RunFile(ctx context.Context, source string) (string, error) {
	p.onSource(source)
	return p.inner.RunFile(ctx, source)
}

func TestPayloadOperations_RejectEmptyPayload(t *testing.T) {
	bridge := &fakeBridge{}
	client := newTestClient(t, bridge)
	ctx := context.Background()

	_, err := client.AddAction(ctx, "Mail", "   \n")
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)

	_, err = client.AddTrigger(ctx, "Mail", "")
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)

	_, err = client.SetAction(ctx, "Mail", 1, "")
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)

	assert.Empty(t, bridge.sources, "no engine round trip for an empty payload")
}

func TestIndexValidation(t *testing.T) {
	bridge := &fakeBridge{}
	client := newTestClient(t, bridge)
	ctx := context.Background()

	cases := map[string]func() error{
		"get action zero":      func() error { _, err := client.GetAction(ctx, "m", 0); return err },
		"delete action neg":    func() error { _, err := client.DeleteAction(ctx, "m", -3); return err },
		"set trigger zero":     func() error { _, err := client.SetTrigger(ctx, "m", 0, "<dict/>"); return err },
		"move action bad dest": func() error { _, err := client.MoveAction(ctx, "m", 1, 0); return err },
		"move trigger zero":    func() error { _, err := client.MoveTrigger(ctx, "m", 0, 2); return err },
	}
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), domain.ErrInvalidIndex)
		})
	}
	assert.Empty(t, bridge.sources, "invalid indices never reach the engine")
}

func TestListActions_EmptyMacro(t *testing.T) {
	client := newTestClient(t, &fakeBridge{})

	actions, err := client.ListActions(context.Background(), "Empty Macro")
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestSearchReplaceAction_RejectsEmptySearch(t *testing.T) {
	bridge := &fakeBridge{}
	client := newTestClient(t, bridge)

	_, err := client.SearchReplaceAction(context.Background(), "Mail", 1, "", "new")
	require.Error(t, err)
	assert.Empty(t, bridge.sources)
}

func TestErrorsCarryOperationName(t *testing.T) {
	bridge := &fakeBridge{failWith: map[string]error{
		"do script": &domain.EngineError{Message: "macro is disabled"},
	}}
	client := newTestClient(t, bridge)

	_, err := client.ExecuteMacro(context.Background(), "Mail", "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "execute macro")
	assert.ErrorContains(t, err, "macro is disabled")
}

func TestGetMacroDefinition_ExtractsFromExport(t *testing.T) {
	blob := hex.EncodeToString([]byte(`<plist version="1.0"><array><dict>
	<key>Name</key><string>Open Mail</string>
	<key>UID</key><string>A1-001</string>
</dict></array></plist>`))
	bridge := &fakeBridge{responses: map[string]string{
		"getmacros with asstring": blob,
	}}
	client := newTestClient(t, bridge)

	def, err := client.GetMacroDefinition(context.Background(), "Open Mail")
	require.NoError(t, err)
	assert.Contains(t, def, "<string>A1-001</string>")

	_, err = client.GetMacroDefinition(context.Background(), "Ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// fakeCache is an in-memory ports.ListingCache.
type fakeCache struct {
	entries map[string]string
	gets    int
	sets    int
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	f.gets++
	raw, ok := f.entries[key]
	return raw, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key, raw string) error {
	f.sets++
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.entries = map[string]string{}
	return nil
}

func TestListings_ReadThroughCache(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"repeat with g in macro groups": "Open Mail%%%A1-001%%%true%%%Utilities@@@",
	}}
	cache := &fakeCache{entries: map[string]string{}}
	client := newTestClient(t, bridge, maestro.WithListingCache(cache))
	ctx := context.Background()

	first, err := client.ListMacros(ctx)
	require.NoError(t, err)
	second, err := client.ListMacros(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, bridge.sources, 1, "second listing served from cache")
	assert.Equal(t, 1, cache.sets)

	require.NoError(t, client.InvalidateListings(ctx))
	_, err = client.ListMacros(ctx)
	require.NoError(t, err)
	assert.Len(t, bridge.sources, 2, "listing refetched after invalidation")
}
