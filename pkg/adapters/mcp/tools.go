package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.registerMacroTools()
	s.registerGroupTools()
	s.registerElementTools()
}

func (s *Server) registerMacroTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_macros",
		mcp.WithDescription("List every macro the engine knows, with name, uid, enabled state and group."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		macros, err := s.svc.ListMacros(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(macros)
	})

	s.mcpServer.AddTool(mcp.NewTool("search_macros",
		mcp.WithDescription("List the macros whose name contains the query (case-sensitive substring)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Substring to search for in macro names")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		macros, err := s.svc.SearchMacros(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(macros)
	})

	s.mcpServer.AddTool(mcp.NewTool("get_macro",
		mcp.WithDescription("Get one macro by name or uid."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("macro")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rec, err := s.svc.GetMacro(ctx, identifier)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(rec)
	})

	s.mcpServer.AddTool(mcp.NewTool("get_macro_definition",
		mcp.WithDescription("Get one macro's full XML definition, extracted from a fresh engine export."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("macro")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		xml, err := s.svc.GetMacroDefinition(ctx, identifier)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(xml), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("create_macro",
		mcp.WithDescription("Create a macro, optionally with an initial action and a target group."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new macro")),
		mcp.WithString("payload", mcp.Description("Optional initial action XML (fragment or complete plist)")),
		mcp.WithString("group", mcp.Description("Optional group name or uid")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Name    string `mapstructure:"name"`
			Payload string `mapstructure:"payload"`
			Group   string `mapstructure:"group"`
		}
		if err := decodeArgs(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if args.Name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}
		confirm, err := s.create(ctx, args.Name, args.Payload, args.Group)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(confirm), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("duplicate_macro",
		mcp.WithDescription("Duplicate a macro, optionally renaming the copy."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithString("new_name", mcp.Description("Optional name for the copy")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Macro   string `mapstructure:"macro"`
			NewName string `mapstructure:"new_name"`
		}
		if err := decodeArgs(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.confirm(s.svc.DuplicateMacro(ctx, args.Macro, args.NewName))
	})

	s.mcpServer.AddTool(mcp.NewTool("delete_macro",
		mcp.WithDescription("Delete a macro."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("macro")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.confirm(s.svc.DeleteMacro(ctx, identifier))
	})

	s.mcpServer.AddTool(mcp.NewTool("set_macro_enable",
		mcp.WithDescription("Enable or disable a macro."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("Desired enabled state")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Macro   string `mapstructure:"macro"`
			Enabled bool   `mapstructure:"enabled"`
		}
		if err := decodeArgs(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.confirm(s.svc.SetMacroEnable(ctx, args.Macro, args.Enabled))
	})

	s.mcpServer.AddTool(mcp.NewTool("execute_macro",
		mcp.WithDescription("Execute a macro, blocking until the engine confirms completion."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithString("parameter", mcp.Description("Optional parameter passed to the macro")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Macro     string `mapstructure:"macro"`
			Parameter string `mapstructure:"parameter"`
		}
		if err := decodeArgs(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.confirm(s.svc.ExecuteMacro(ctx, args.Macro, args.Parameter))
	})
}

func (s *Server) registerGroupTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List every macro group with name, uid and macro count."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups, err := s.svc.ListGroups(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(groups)
	})

	s.mcpServer.AddTool(mcp.NewTool("create_group",
		mcp.WithDescription("Create a macro group."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new group")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.confirm(s.svc.CreateGroup(ctx, name))
	})

	s.mcpServer.AddTool(mcp.NewTool("delete_group",
		mcp.WithDescription("Delete a macro group."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Group name or uid")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("group")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.confirm(s.svc.DeleteGroup(ctx, identifier))
	})

	s.mcpServer.AddTool(mcp.NewTool("set_group_enable",
		mcp.WithDescription("Enable or disable a macro group."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Group name or uid")),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("Desired enabled state")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Group   string `mapstructure:"group"`
			Enabled bool   `mapstructure:"enabled"`
		}
		if err := decodeArgs(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.confirm(s.svc.SetGroupEnable(ctx, args.Group, args.Enabled))
	})
}

// elementArgs is the shared argument shape for index-addressed action
// and trigger tools.
type elementArgs struct {
	Macro   string `mapstructure:"macro"`
	Index   int    `mapstructure:"index"`
	To      int    `mapstructure:"to"`
	Payload string `mapstructure:"payload"`
	Search  string `mapstructure:"search"`
	Replace string `mapstructure:"replace"`
}

func (s *Server) registerElementTools() {
	indexCaveat := "Indices are 1-based and only valid until the macro is next mutated."

	s.mcpServer.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("List a macro's actions with their current indices. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("macro")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		actions, err := s.svc.ListActions(ctx, identifier)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(actions)
	})

	s.mcpServer.AddTool(mcp.NewTool("get_action",
		mcp.WithDescription("Get one action's raw XML definition. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based action index")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.GetAction(ctx, a.Macro, a.Index)
	}))

	s.mcpServer.AddTool(mcp.NewTool("add_action",
		mcp.WithDescription("Append an action to a macro from an XML definition."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("Action XML (fragment or complete plist)")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.AddAction(ctx, a.Macro, a.Payload)
	}))

	s.mcpServer.AddTool(mcp.NewTool("set_action",
		mcp.WithDescription("Replace one action's definition. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based action index")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("Action XML (fragment or complete plist)")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.SetAction(ctx, a.Macro, a.Index, a.Payload)
	}))

	s.mcpServer.AddTool(mcp.NewTool("delete_action",
		mcp.WithDescription("Delete one action. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based action index")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.DeleteAction(ctx, a.Macro, a.Index)
	}))

	s.mcpServer.AddTool(mcp.NewTool("move_action",
		mcp.WithDescription("Move an action to before the destination index, or to the tail when the destination exceeds the action count. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based index of the action to move")),
		mcp.WithNumber("to", mcp.Required(), mcp.Description("1-based destination index")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.MoveAction(ctx, a.Macro, a.Index, a.To)
	}))

	s.mcpServer.AddTool(mcp.NewTool("search_replace_action",
		mcp.WithDescription("Rewrite one action's XML by literal, case-sensitive substring replacement. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based action index")),
		mcp.WithString("search", mcp.Required(), mcp.Description("Literal text to find")),
		mcp.WithString("replace", mcp.Required(), mcp.Description("Literal replacement text")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.SearchReplaceAction(ctx, a.Macro, a.Index, a.Search, a.Replace)
	}))

	s.mcpServer.AddTool(mcp.NewTool("list_triggers",
		mcp.WithDescription("List a macro's triggers with their current indices. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := req.RequireString("macro")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		triggers, err := s.svc.ListTriggers(ctx, identifier)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(triggers)
	})

	s.mcpServer.AddTool(mcp.NewTool("get_trigger",
		mcp.WithDescription("Get one trigger's raw XML definition. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based trigger index")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.GetTrigger(ctx, a.Macro, a.Index)
	}))

	s.mcpServer.AddTool(mcp.NewTool("add_trigger",
		mcp.WithDescription("Append a trigger to a macro from an XML definition."),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("Trigger XML (fragment or complete plist)")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.AddTrigger(ctx, a.Macro, a.Payload)
	}))

	s.mcpServer.AddTool(mcp.NewTool("set_trigger",
		mcp.WithDescription("Replace one trigger's definition. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based trigger index")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("Trigger XML (fragment or complete plist)")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.SetTrigger(ctx, a.Macro, a.Index, a.Payload)
	}))

	s.mcpServer.AddTool(mcp.NewTool("delete_trigger",
		mcp.WithDescription("Delete one trigger. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based trigger index")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.DeleteTrigger(ctx, a.Macro, a.Index)
	}))

	s.mcpServer.AddTool(mcp.NewTool("move_trigger",
		mcp.WithDescription("Move a trigger, with the same tail-tolerant destination semantics as move_action. "+indexCaveat),
		mcp.WithString("macro", mcp.Required(), mcp.Description("Macro name or uid")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based index of the trigger to move")),
		mcp.WithNumber("to", mcp.Required(), mcp.Description("1-based destination index")),
	), s.elementHandler(func(ctx context.Context, a elementArgs) (string, error) {
		return s.svc.MoveTrigger(ctx, a.Macro, a.Index, a.To)
	}))
}

// elementHandler decodes the shared argument shape and runs op.
func (s *Server) elementHandler(op func(context.Context, elementArgs) (string, error)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args elementArgs
		if err := decodeArgs(req, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := op(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

func (s *Server) confirm(confirmation string, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(confirmation), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
