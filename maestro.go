package maestro

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/macrokit/maestro/internal/plist"
	"github.com/macrokit/maestro/internal/script"
	"github.com/macrokit/maestro/internal/transfer"
	"github.com/macrokit/maestro/pkg/adapters/osascript"
	"github.com/macrokit/maestro/pkg/domain"
	"github.com/macrokit/maestro/pkg/ports"
)

// Cache keys of the raw listing results, when a ListingCache is installed.
const (
	cacheKeyMacros = "macros"
	cacheKeyGroups = "groups"
)

// Client is the operation facade. Each public method builds exactly one
// engine command (CreateMacro with an initial payload composes two),
// runs it through the bridge, and decodes the raw result. The Client
// holds no state between calls; the engine is the single source of
// truth.
type Client struct {
	bridge  ports.Bridge
	builder *script.Builder
	cache   ports.ListingCache
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBridge injects a custom Bridge, bypassing the default osascript
// adapter. Used by hosts with their own transport and by tests.
func WithBridge(b ports.Bridge) Option {
	return func(c *Client) { c.bridge = b }
}

// WithBuilder injects a command builder, e.g. one targeting renamed
// engine applications.
func WithBuilder(b *script.Builder) Option {
	return func(c *Client) { c.builder = b }
}

// WithListingCache installs an explicit read-through cache for the
// macro and group listings. Reads consult the cache first; staleness is
// the caller's to resolve via InvalidateListings.
func WithListingCache(cache ports.ListingCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLifecycleHooks registers observability hooks invoked around every
// engine round trip.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) { c.hooks = hooks }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client. By default it talks to the stock engine
// applications through osascript.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		builder: script.NewBuilder(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bridge == nil {
		c.bridge = osascript.New(osascript.WithLogger(c.logger))
	}
	return c, nil
}

// run submits a short command and wraps any failure with the operation
// name, per the error taxonomy: engine rejections keep the engine's own
// message, transport failures stay generic.
func (c *Client) run(ctx context.Context, op, source string) (string, error) {
	return c.submit(ctx, op, source, c.bridge.Run)
}

// runFile submits a long-lived (multi-line, repeat-loop) command via
// file-based invocation.
func (c *Client) runFile(ctx context.Context, op, source string) (string, error) {
	return c.submit(ctx, op, source, c.bridge.RunFile)
}

func (c *Client) submit(ctx context.Context, op, source string, via func(context.Context, string) (string, error)) (string, error) {
	if c.hooks.OnCommand != nil {
		c.hooks.OnCommand(ctx, &domain.CommandEvent{Op: op})
	}
	start := time.Now()
	raw, err := via(ctx, source)
	if c.hooks.OnResult != nil {
		c.hooks.OnResult(ctx, &domain.ResultEvent{Op: op, Duration: time.Since(start), Err: err})
	}
	if err != nil {
		c.logger.Debug("engine command failed", "op", op, "error", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// listRaw serves a listing through the cache when one is installed.
func (c *Client) listRaw(ctx context.Context, op, key, source string) (string, error) {
	if c.cache != nil {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("listing cache read failed, falling back to engine", "key", key, "error", err)
		} else if ok {
			return raw, nil
		}
	}
	raw, err := c.runFile(ctx, op, source)
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, raw); err != nil {
			c.logger.Warn("listing cache write failed", "key", key, "error", err)
		}
	}
	return raw, nil
}

// InvalidateListings drops every cached listing. It is a no-op without a
// cache. Mutating operations never invalidate implicitly; callers decide
// when a refresh is worth a round trip.
func (c *Client) InvalidateListings(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Invalidate(ctx)
}

// ListMacros returns every macro known to the engine.
func (c *Client) ListMacros(ctx context.Context) ([]domain.MacroRecord, error) {
	raw, err := c.listRaw(ctx, "list macros", cacheKeyMacros, c.builder.ListMacros())
	if err != nil {
		return nil, err
	}
	return script.DecodeMacros(raw), nil
}

// SearchMacros returns the macros whose name contains query. The
// substring match is performed by the engine and is case-sensitive.
func (c *Client) SearchMacros(ctx context.Context, query string) ([]domain.MacroRecord, error) {
	raw, err := c.runFile(ctx, "search macros", c.builder.SearchMacros(query))
	if err != nil {
		return nil, err
	}
	return script.DecodeMacros(raw), nil
}

// GetMacro resolves one macro by name or id.
func (c *Client) GetMacro(ctx context.Context, identifier string) (domain.MacroRecord, error) {
	raw, err := c.run(ctx, "get macro", c.builder.GetMacro(domain.ByNameOrID(identifier)))
	if err != nil {
		return domain.MacroRecord{}, err
	}
	rec, err := script.DecodeMacro(raw)
	if err != nil {
		return domain.MacroRecord{}, fmt.Errorf("get macro %q: %w", identifier, err)
	}
	return rec, nil
}

// GetMacroDefinition returns one macro's full XML definition, extracted
// from a fresh engine export. The export is fetched per call and never
// cached: the engine may mutate between calls.
func (c *Client) GetMacroDefinition(ctx context.Context, identifier string) (string, error) {
	blob, err := c.run(ctx, "get macro definition", c.builder.ExportAllMacros())
	if err != nil {
		return "", err
	}
	fragment, err := plist.Extract(blob, domain.ByNameOrID(identifier))
	if err != nil {
		return "", fmt.Errorf("get macro definition: %w", err)
	}
	return fragment, nil
}

// CreateMacroOptions carries the optional parts of CreateMacro.
type CreateMacroOptions struct {
	// Payload is an optional initial action definition (XML fragment or
	// complete plist document).
	Payload string
	// Group places the macro in a specific group, resolved by name or id.
	Group string
}

// CreateMacro makes a new macro and returns a confirmation containing
// the new id. With a payload, the initial action is added in a second
// command; if that second command fails, the created macro is not
// rolled back.
func (c *Client) CreateMacro(ctx context.Context, name string, opts CreateMacroOptions) (string, error) {
	var group domain.Identifier
	if opts.Group != "" {
		group = domain.ByNameOrID(opts.Group)
	}
	uid, err := c.run(ctx, "create macro", c.builder.CreateMacro(name, group))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(opts.Payload) != "" {
		if _, err := c.AddAction(ctx, uid, opts.Payload); err != nil {
			return "", fmt.Errorf("create macro: macro %s created, adding initial action: %w", uid, err)
		}
	}
	return fmt.Sprintf("Created macro %q with id %s", name, uid), nil
}

// DuplicateMacro copies a macro, optionally renaming the copy, and
// returns a confirmation containing the new id.
func (c *Client) DuplicateMacro(ctx context.Context, identifier, newName string) (string, error) {
	uid, err := c.run(ctx, "duplicate macro", c.builder.DuplicateMacro(domain.ByNameOrID(identifier), newName))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Duplicated macro %q into id %s", identifier, uid), nil
}

// DeleteMacro removes a macro.
func (c *Client) DeleteMacro(ctx context.Context, identifier string) (string, error) {
	return c.run(ctx, "delete macro", c.builder.DeleteMacro(domain.ByNameOrID(identifier)))
}

// SetMacroEnable enables or disables a macro.
func (c *Client) SetMacroEnable(ctx context.Context, identifier string, enabled bool) (string, error) {
	return c.run(ctx, "set macro enable", c.builder.SetMacroEnable(domain.ByNameOrID(identifier), enabled))
}

// ListGroups returns every macro group. Groups with empty names are
// filtered out.
func (c *Client) ListGroups(ctx context.Context) ([]domain.GroupRecord, error) {
	raw, err := c.listRaw(ctx, "list groups", cacheKeyGroups, c.builder.ListGroups())
	if err != nil {
		return nil, err
	}
	return script.DecodeGroups(raw), nil
}

// CreateGroup makes a new macro group and returns a confirmation
// containing the new id.
func (c *Client) CreateGroup(ctx context.Context, name string) (string, error) {
	uid, err := c.run(ctx, "create group", c.builder.CreateGroup(name))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created group %q with id %s", name, uid), nil
}

// DeleteGroup removes a macro group.
func (c *Client) DeleteGroup(ctx context.Context, identifier string) (string, error) {
	return c.run(ctx, "delete group", c.builder.DeleteGroup(domain.ByNameOrID(identifier)))
}

// SetGroupEnable enables or disables a macro group.
func (c *Client) SetGroupEnable(ctx context.Context, identifier string, enabled bool) (string, error) {
	return c.run(ctx, "set group enable", c.builder.SetGroupEnable(domain.ByNameOrID(identifier), enabled))
}

// ExecuteMacro runs a macro, blocking until the engine confirms
// completion or reports failure. There is no fire-and-forget variant.
func (c *Client) ExecuteMacro(ctx context.Context, identifier, parameter string) (string, error) {
	return c.run(ctx, "execute macro", c.builder.ExecuteMacro(domain.ByNameOrID(identifier), parameter))
}

// ListActions returns the actions of a macro as indexed records. A
// macro with zero actions yields an empty slice, not an error.
func (c *Client) ListActions(ctx context.Context, macro string) ([]domain.ActionRecord, error) {
	raw, err := c.runFile(ctx, "list actions", c.builder.ListActions(domain.ByNameOrID(macro)))
	if err != nil {
		return nil, err
	}
	return script.DecodeActions(raw), nil
}

// GetAction returns one action's raw XML definition.
func (c *Client) GetAction(ctx context.Context, macro string, index int) (string, error) {
	if err := validIndex("get action", index); err != nil {
		return "", err
	}
	return c.run(ctx, "get action", c.builder.GetAction(domain.ByNameOrID(macro), index))
}

// AddAction appends an action to a macro. The payload travels through a
// transfer file, which is released on every exit path.
func (c *Client) AddAction(ctx context.Context, macro, payload string) (string, error) {
	return c.withPayload(ctx, "add action", payload, func(path string) string {
		return c.builder.AddAction(domain.ByNameOrID(macro), path)
	})
}

// SetAction replaces one action's definition.
func (c *Client) SetAction(ctx context.Context, macro string, index int, payload string) (string, error) {
	if err := validIndex("set action", index); err != nil {
		return "", err
	}
	return c.withPayload(ctx, "set action", payload, func(path string) string {
		return c.builder.SetAction(domain.ByNameOrID(macro), index, path)
	})
}

// DeleteAction removes one action by index.
func (c *Client) DeleteAction(ctx context.Context, macro string, index int) (string, error) {
	if err := validIndex("delete action", index); err != nil {
		return "", err
	}
	return c.run(ctx, "delete action", c.builder.DeleteAction(domain.ByNameOrID(macro), index))
}

// MoveAction repositions an action. A destination beyond the action
// count means tail placement; otherwise the action lands immediately
// before the destination index.
func (c *Client) MoveAction(ctx context.Context, macro string, index, dest int) (string, error) {
	if err := validIndex("move action", index); err != nil {
		return "", err
	}
	if err := validIndex("move action", dest); err != nil {
		return "", err
	}
	return c.run(ctx, "move action", c.builder.MoveAction(domain.ByNameOrID(macro), index, dest))
}

// SearchReplaceAction rewrites one action's XML by literal,
// case-sensitive substring replacement, performed by the engine itself.
func (c *Client) SearchReplaceAction(ctx context.Context, macro string, index int, search, replace string) (string, error) {
	if err := validIndex("search replace action", index); err != nil {
		return "", err
	}
	if search == "" {
		return "", fmt.Errorf("search replace action: search text must not be empty")
	}
	return c.runFile(ctx, "search replace action",
		c.builder.SearchReplaceAction(domain.ByNameOrID(macro), index, search, replace))
}

// ListTriggers returns the triggers of a macro as indexed records.
func (c *Client) ListTriggers(ctx context.Context, macro string) ([]domain.TriggerRecord, error) {
	raw, err := c.runFile(ctx, "list triggers", c.builder.ListTriggers(domain.ByNameOrID(macro)))
	if err != nil {
		return nil, err
	}
	return script.DecodeTriggers(raw), nil
}

// GetTrigger returns one trigger's raw XML definition.
func (c *Client) GetTrigger(ctx context.Context, macro string, index int) (string, error) {
	if err := validIndex("get trigger", index); err != nil {
		return "", err
	}
	return c.run(ctx, "get trigger", c.builder.GetTrigger(domain.ByNameOrID(macro), index))
}

// AddTrigger appends a trigger to a macro.
func (c *Client) AddTrigger(ctx context.Context, macro, payload string) (string, error) {
	return c.withPayload(ctx, "add trigger", payload, func(path string) string {
		return c.builder.AddTrigger(domain.ByNameOrID(macro), path)
	})
}

// SetTrigger replaces one trigger's definition.
func (c *Client) SetTrigger(ctx context.Context, macro string, index int, payload string) (string, error) {
	if err := validIndex("set trigger", index); err != nil {
		return "", err
	}
	return c.withPayload(ctx, "set trigger", payload, func(path string) string {
		return c.builder.SetTrigger(domain.ByNameOrID(macro), index, path)
	})
}

// DeleteTrigger removes one trigger by index.
func (c *Client) DeleteTrigger(ctx context.Context, macro string, index int) (string, error) {
	if err := validIndex("delete trigger", index); err != nil {
		return "", err
	}
	return c.run(ctx, "delete trigger", c.builder.DeleteTrigger(domain.ByNameOrID(macro), index))
}

// MoveTrigger repositions a trigger with the same gap-tolerant
// semantics as MoveAction.
func (c *Client) MoveTrigger(ctx context.Context, macro string, index, dest int) (string, error) {
	if err := validIndex("move trigger", index); err != nil {
		return "", err
	}
	if err := validIndex("move trigger", dest); err != nil {
		return "", err
	}
	return c.run(ctx, "move trigger", c.builder.MoveTrigger(domain.ByNameOrID(macro), index, dest))
}

// withPayload wraps the payload into a complete document, writes it to a
// transfer file, runs the command built against that file, and releases
// the file whether the command succeeded or not.
func (c *Client) withPayload(ctx context.Context, op, payload string, build func(path string) string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", fmt.Errorf("%s: %w", op, domain.ErrEmptyPayload)
	}
	path, err := transfer.Acquire(plist.Wrap(payload))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer transfer.Release(path)
	return c.run(ctx, op, build(path))
}

func validIndex(op string, index int) error {
	if index < 1 {
		return fmt.Errorf("%s: %w, got %d", op, domain.ErrInvalidIndex, index)
	}
	return nil
}
