// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hylla/laneboard/internal/adapters/server/common"
	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the board tools.
func NewHandler(cfg Config, boardService common.BoardService) (*Handler, error) {
	if boardService == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerBoardTools(mcpSrv, boardService)
	registerGestureTools(mcpSrv, boardService)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "laneboard"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerBoardTools registers read, rename and delete tools.
func registerBoardTools(srv *mcpserver.MCPServer, boardService common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"laneboard.get_board",
			mcp.WithDescription("Return the ordered lanes, ordered items and current drag state."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res, err := boardService.Board(app.WithSource(ctx, app.SourceMCP))
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("get_board", res)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"laneboard.list_lane_items",
			mcp.WithDescription("List the items of one lane in board order."),
			mcp.WithString("lane_id", mcp.Required(), mcp.Description("Lane identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawLaneID, err := req.RequireString("lane_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			laneID, err := common.ParseLaneID(rawLaneID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			items, err := boardService.LaneItems(app.WithSource(ctx, app.SourceMCP), laneID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("list_lane_items", map[string]any{
				"lane_id": laneID,
				"items":   items,
			})
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"laneboard.rename_lane",
			mcp.WithDescription("Set the title of one lane."),
			mcp.WithString("lane_id", mcp.Required(), mcp.Description("Lane identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("New lane title")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawLaneID, err := req.RequireString("lane_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			laneID, err := common.ParseLaneID(rawLaneID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			res, err := boardService.RenameLane(app.WithSource(ctx, app.SourceMCP), laneID, common.RenameLaneRequest{Title: title})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("rename_lane", res)
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"laneboard.delete_lane",
			mcp.WithDescription("Delete one lane together with every item in it. Unknown lanes are a no-op."),
			mcp.WithString("lane_id", mcp.Required(), mcp.Description("Lane identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawLaneID, err := req.RequireString("lane_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			laneID, err := common.ParseLaneID(rawLaneID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			res, err := boardService.DeleteLane(app.WithSource(ctx, app.SourceMCP), laneID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("delete_lane", res)
		},
	)
}

// registerGestureTools registers drag_start, drag_over and drag_end.
func registerGestureTools(srv *mcpserver.MCPServer, boardService common.BoardService) {
	descriptions := map[common.GesturePhase]string{
		common.PhaseStart: "Begin dragging a lane or item.",
		common.PhaseOver:  "Report the element under a dragged item. Items are reordered live.",
		common.PhaseEnd:   "Release the drag. Lanes are reordered on release; drag state is cleared.",
	}
	for _, phase := range []common.GesturePhase{common.PhaseStart, common.PhaseOver, common.PhaseEnd} {
		opts := []mcp.ToolOption{
			mcp.WithDescription(descriptions[phase]),
			mcp.WithString("active_type", mcp.Required(), mcp.Description("Dragged entity type"), mcp.Enum(common.SupportedEntityTypes()...)),
			mcp.WithString("active_id", mcp.Required(), mcp.Description("Dragged entity id")),
		}
		if phase != common.PhaseStart {
			opts = append(opts,
				mcp.WithString("over_type", mcp.Description("Target entity type; omit when nothing is under the pointer"), mcp.Enum(common.SupportedEntityTypes()...)),
				mcp.WithString("over_id", mcp.Description("Target entity id")),
			)
		}
		srv.AddTool(
			mcp.NewTool("laneboard.drag_"+string(phase), opts...),
			gestureHandler(boardService, phase),
		)
	}
}

// gestureHandler builds the tool handler for one gesture phase.
func gestureHandler(boardService common.BoardService, phase common.GesturePhase) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		activeType, err := req.RequireString("active_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		activeID, err := req.RequireString("active_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		active, err := common.PayloadFromRef(activeType, activeID)
		if err != nil {
			return toolResultFromError(err), nil
		}
		gesture := common.GestureRequest{Active: active}

		if overType := strings.TrimSpace(req.GetString("over_type", "")); overType != "" {
			var over board.Payload
			over, err = common.PayloadFromRef(overType, req.GetString("over_id", ""))
			if err != nil {
				return toolResultFromError(err), nil
			}
			gesture.Over = &over
		}

		res, err := boardService.Gesture(app.WithSource(ctx, app.SourceMCP), phase, gesture)
		if err != nil {
			return toolResultFromError(err), nil
		}
		return jsonResult("drag_"+string(phase), res)
	}
}

// jsonResult encodes one structured tool result.
func jsonResult(tool string, payload any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return result, nil
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
