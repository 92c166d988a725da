package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/logging"
	"github.com/hpungsan/outreach/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	tracker *ops.Tracker
	log     logging.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(tr *ops.Tracker, log logging.Logger) *Handlers {
	if log == nil {
		log = logging.Nop()
	}
	return &Handlers{tracker: tr, log: log}
}

// Request types for each tool

// UpdateRequest represents the arguments for contact_update.
type UpdateRequest struct {
	ID string `json:"id"`
	contact.Input
}

// IDRequest represents the arguments for contact_fetch and contact_delete.
type IDRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for contact_list.
type ListRequest struct {
	Search   string   `json:"search,omitempty"`
	Status   []string `json:"status,omitempty"`
	Industry []string `json:"industry,omitempty"`
	FollowUp string   `json:"follow_up,omitempty"`
	Sort     string   `json:"sort,omitempty"`
	Order    string   `json:"order,omitempty"`
	Page     int      `json:"page,omitempty"`
	PageSize int      `json:"page_size,omitempty"`
}

// BulkStatusRequest represents the arguments for contact_bulk_status.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

// BulkDeleteRequest represents the arguments for contact_bulk_delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// ExportRequest represents the arguments for contact_export.
type ExportRequest struct {
	Path  string `json:"path,omitempty"`
	Label string `json:"label,omitempty"`
}

// ImportRequest represents the arguments for contact_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Handler implementations

// HandleAdd handles the contact_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[contact.Input](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.Add(ctx, ops.AddInput{Input: input})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the contact_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.Update(ctx, ops.UpdateInput{ID: input.ID, Fields: input.Input})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleFetch handles the contact_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.Fetch(ctx, ops.FetchInput{ID: input.ID})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleDelete handles the contact_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.Delete(ctx, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleList handles the contact_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.List(ctx, ops.ListInput{
		Search:     input.Search,
		Statuses:   input.Status,
		Industries: input.Industry,
		FollowUp:   input.FollowUp,
		Sort:       input.Sort,
		Order:      input.Order,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleAlerts handles the contact_alerts tool call.
func (h *Handlers) HandleAlerts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.tracker.Alerts(ctx)
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleBulkStatus handles the contact_bulk_status tool call.
func (h *Handlers) HandleBulkStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BulkStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.BulkUpdateStatus(ctx, ops.BulkStatusInput{IDs: input.IDs, Status: input.Status})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleBulkDelete handles the contact_bulk_delete tool call.
func (h *Handlers) HandleBulkDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BulkDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.BulkDelete(ctx, ops.BulkDeleteInput{IDs: input.IDs})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleExport handles the contact_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.Export(ctx, ops.ExportInput{Path: input.Path, Label: input.Label})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// HandleImport handles the contact_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.tracker.Import(ctx, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return h.fail(ctx, err), nil
	}

	return successResult(result)
}

// Result helpers

// fail logs server-side failures before converting err to a tool result.
func (h *Handlers) fail(ctx context.Context, err error) *mcp.CallToolResult {
	if errors.Is(err, errors.ErrInternal) {
		h.log.Error(ctx, "tool call failed", "error", err)
	}
	return errorResult(err)
}

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var oErr *errors.OutreachError
	if stderrors.As(err, &oErr) {
		message := oErr.Message
		if oErr.Code == errors.ErrInternal {
			message = "an internal error occurred"
		} else if err != error(oErr) {
			// keep the wrapping context, e.g. "import line 3: ..."
			message = err.Error()
		}
		errorObj := map[string]any{
			"code":    oErr.Code,
			"message": message,
			"status":  oErr.Status,
		}
		if oErr.Code != errors.ErrInternal && oErr.Details != nil {
			errorObj["details"] = oErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
