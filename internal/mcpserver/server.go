// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Laguz note tools for LLM integration via stdio transport.
// All tools act on behalf of a single configured user.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/noteservice"
)

// Server wraps the MCP server with Laguz note tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *noteservice.Service
	userID int64
}

// New creates a new MCP server with all note tools registered. Every tool
// call runs as userID, so the usual ownership rules apply unchanged.
func New(svc *noteservice.Service, userID int64) *Server {
	s := &Server{svc: svc, userID: userID}

	s.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the user's notes, favorites first, newest first. "+
			"Results are paginated; pass page to fetch later pages."),
		mcp.WithNumber("page", mcp.Description("1-indexed page number (default 1)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note with a title and optional description."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title (required, max 200 chars)")),
		mcp.WithString("description", mcp.Description("Optional longer text")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("toggle_favorite",
		mcp.WithDescription("Flip the favorite flag on a note."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.toggleFavorite)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note permanently."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

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

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := req.GetInt("page", 1)
	result, err := s.svc.ListNotes(ctx, s.userID, page)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"notes":       result.Notes,
		"total":       result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, s.userID, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %d: %v", id, err)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description := req.GetString("description", "")

	note, err := s.svc.CreateNote(ctx, s.userID, noteservice.CreateNoteInput{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created note %d", note.ID)), nil
}

func (s *Server) toggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.ToggleFavorite(ctx, s.userID, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %d: %v", id, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("note %d favorite = %t", note.ID, note.Favorite)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteNote(ctx, s.userID, int64(id)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %d: %v", id, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted note %d", id)), nil
}
