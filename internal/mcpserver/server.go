// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Pinboard tools for LLM integration via stdio transport.
//
// Every tool takes the tenant token as an explicit argument: MCP clients
// hold their token the same way browser clients do, and all data access
// is scoped by it.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/pinboard/internal/boardservice"
	"github.com/starford/pinboard/internal/store"
)

// Server wraps the MCP server with Pinboard tools.
type Server struct {
	mcp *server.MCPServer
	svc *boardservice.Service
}

// New creates a new MCP server with all Pinboard tools registered.
func New(svc *boardservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Pinboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("generate_token",
		mcp.WithDescription("Mint a fresh tenant token that owns no existing data."),
	), s.generateToken)

	s.mcp.AddTool(mcp.NewTool("list_boards",
		mcp.WithDescription("List all boards owned by the given tenant token."),
		mcp.WithString("token", mcp.Required(), mcp.Description("Tenant token")),
	), s.listBoards)

	s.mcp.AddTool(mcp.NewTool("create_board",
		mcp.WithDescription("Create a new board owned by the given tenant token."),
		mcp.WithString("token", mcp.Required(), mcp.Description("Tenant token")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Board name")),
	), s.createBoard)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the notes on a board owned by the given tenant token."),
		mcp.WithString("token", mcp.Required(), mcp.Description("Tenant token")),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board id")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note on a board. All fields are required; "+
			"content may carry rich-text HTML."),
		mcp.WithString("token", mcp.Required(), mcp.Description("Tenant token")),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board id")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
		mcp.WithString("color", mcp.Required(), mcp.Description("Style tag, e.g. a color name")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Free-form category")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("export_data",
		mcp.WithDescription("Export the full board and note graph owned by the given tenant token."),
		mcp.WithString("token", mcp.Required(), mcp.Description("Tenant token")),
	), s.exportData)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func requireBoardID(req mcp.CallToolRequest) (int64, error) {
	raw, err := req.RequireString("board_id")
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("board_id must be an integer: %q", raw)
	}
	return id, nil
}

func (s *Server) generateToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tok, err := s.svc.GenerateToken(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(tok), nil
}

func (s *Server) listBoards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	boards, err := s.svc.ListBoards(ctx, token)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(boards, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	board, err := s.svc.CreateBoard(ctx, token, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created board %d: %s", board.ID, board.Name)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	boardID, err := requireBoardID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.svc.ListNotes(ctx, token, boardID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	boardID, err := requireBoardID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields := store.NoteFields{}
	for key, dst := range map[string]*string{
		"title":    &fields.Title,
		"content":  &fields.Content,
		"color":    &fields.Color,
		"category": &fields.Category,
	} {
		v, err := req.RequireString(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*dst = v
	}
	note, err := s.svc.CreateNote(ctx, token, boardID, fields)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created note %d: %s", note.ID, note.Title)), nil
}

func (s *Server) exportData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.svc.Export(ctx, token)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
