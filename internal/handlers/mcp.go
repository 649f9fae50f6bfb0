package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/models"
)

// MCPHandler exposes the document operations as MCP tools over streamable HTTP
type MCPHandler struct {
	documents interfaces.DocumentService
	artifacts interfaces.ArtifactService
	baseURL   string
	logger    arbor.ILogger
	mcpServer *server.MCPServer
	http      *server.StreamableHTTPServer
}

// NewMCPHandler creates the MCP server and registers every tool.
// baseURL prefixes the download links handed to clients.
func NewMCPHandler(documents interfaces.DocumentService, artifacts interfaces.ArtifactService, baseURL string, logger arbor.ILogger) *MCPHandler {
	h := &MCPHandler{
		documents: documents,
		artifacts: artifacts,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}

	h.mcpServer = server.NewMCPServer(
		"lovedocu",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	h.mcpServer.AddTool(createPageCountTool(), h.handlePageCount)
	h.mcpServer.AddTool(createExtractTextTool(), h.handleExtractText)
	h.mcpServer.AddTool(createMergeTool(), h.handleMerge)
	h.mcpServer.AddTool(createSplitTool(), h.handleSplit)
	h.mcpServer.AddTool(createCompressTool(), h.handleCompress)
	h.mcpServer.AddTool(createWatermarkTool(), h.handleWatermark)

	h.http = server.NewStreamableHTTPServer(h.mcpServer)

	return h
}

// ServeHTTP handles /mcp
func (h *MCPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("method", r.Method).Msg("MCP request")
	h.http.ServeHTTP(w, r)
}

func createPageCountTool() mcp.Tool {
	return mcp.NewTool("pdf_page_count",
		mcp.WithDescription("Count the pages of a PDF document"),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("PDF file content, base64 encoded"),
		),
	)
}

func createExtractTextTool() mcp.Tool {
	return mcp.NewTool("pdf_extract_text",
		mcp.WithDescription("Extract the plain text of every page of a PDF document"),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("PDF file content, base64 encoded"),
		),
	)
}

func createMergeTool() mcp.Tool {
	return mcp.NewTool("pdf_merge",
		mcp.WithDescription("Merge PDF documents into one, keeping every page in input order. Returns a single-use download URL."),
		mcp.WithArray("documents",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("PDF files, each base64 encoded, in merge order"),
		),
	)
}

func createSplitTool() mcp.Tool {
	return mcp.NewTool("pdf_split",
		mcp.WithDescription("Build a new PDF from selected pages, in the order given. Returns a single-use download URL."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("PDF file content, base64 encoded"),
		),
		mcp.WithArray("pages",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Pages to keep, as \"Page N\" or \"N\" (1-based). Order is kept and repeats are allowed."),
		),
	)
}

func createCompressTool() mcp.Tool {
	return mcp.NewTool("pdf_compress",
		mcp.WithDescription("Optimize a PDF document. Returns a single-use download URL."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("PDF file content, base64 encoded"),
		),
	)
}

func createWatermarkTool() mcp.Tool {
	return mcp.NewTool("pdf_watermark",
		mcp.WithDescription("Stamp a text watermark on every page of a PDF. Returns a single-use download URL."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("PDF file content, base64 encoded"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Watermark text"),
		),
	)
}

func (h *MCPHandler) handlePageCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := documentArgument(request, "document")
	if errResult != nil {
		return errResult, nil
	}

	count, err := h.documents.PageCount(ctx, doc)
	if err != nil {
		return h.toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d", count)), nil
}

func (h *MCPHandler) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := documentArgument(request, "document")
	if errResult != nil {
		return errResult, nil
	}

	pages, err := h.documents.ExtractText(ctx, doc)
	if err != nil {
		return h.toolError(err), nil
	}

	var sb strings.Builder
	for i, p := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("## ")
		sb.WriteString(models.PageLabel(p.Page))
		sb.WriteString("\n\n")
		sb.WriteString(p.Text)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (h *MCPHandler) handleMerge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	encoded := request.GetStringSlice("documents", nil)
	docs := make([]models.UploadedDocument, 0, len(encoded))
	for i, value := range encoded {
		doc, err := decodeDocument(fmt.Sprintf("document_%d.pdf", i+1), value)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		docs = append(docs, doc)
	}

	return h.publish(ctx, func() (*models.Result, error) {
		return h.documents.Merge(ctx, models.MergeRequest{Documents: docs})
	}), nil
}

func (h *MCPHandler) handleSplit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := documentArgument(request, "document")
	if errResult != nil {
		return errResult, nil
	}
	pages := models.SplitLabels(request.GetStringSlice("pages", nil))

	return h.publish(ctx, func() (*models.Result, error) {
		return h.documents.Split(ctx, models.SplitRequest{Document: doc, Pages: pages})
	}), nil
}

func (h *MCPHandler) handleCompress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := documentArgument(request, "document")
	if errResult != nil {
		return errResult, nil
	}

	return h.publish(ctx, func() (*models.Result, error) {
		return h.documents.Compress(ctx, doc)
	}), nil
}

func (h *MCPHandler) handleWatermark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := documentArgument(request, "document")
	if errResult != nil {
		return errResult, nil
	}
	text := request.GetString("text", "")

	return h.publish(ctx, func() (*models.Result, error) {
		return h.documents.Watermark(ctx, models.WatermarkRequest{Document: doc, Text: text})
	}), nil
}

// publish runs fn and formats the published download links as markdown
func (h *MCPHandler) publish(ctx context.Context, fn func() (*models.Result, error)) *mcp.CallToolResult {
	result, err := fn()
	if err != nil {
		return h.toolError(err)
	}

	links, err := h.artifacts.Publish(ctx, result)
	if err != nil {
		h.logger.Error().Err(err).Str("operation", string(result.Operation)).Msg("Failed to publish MCP result")
		return mcp.NewToolResultError("Could not store the result for download")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s completed", result.Operation.Title()))
	if result.PageCount > 0 {
		sb.WriteString(fmt.Sprintf(" (%d pages)", result.PageCount))
	}
	sb.WriteString(". Each link can be downloaded once")
	if len(links) > 0 {
		sb.WriteString(fmt.Sprintf(" until %s", links[0].ExpiresAt.UTC().Format("15:04 MST")))
	}
	sb.WriteString(":\n\n")
	for _, link := range links {
		sb.WriteString(fmt.Sprintf("- [%s](%s%s) (%d bytes)\n", link.Name, h.baseURL, link.URL, link.Size))
	}
	for _, warning := range result.Warnings {
		sb.WriteString(fmt.Sprintf("\nWarning: %s\n", warning))
	}
	return mcp.NewToolResultText(sb.String())
}

func (h *MCPHandler) toolError(err error) *mcp.CallToolResult {
	kind := models.KindOf(err)
	message := models.UserMessage(err)
	h.logger.Warn().Err(err).Str("kind", string(kind)).Msg("MCP tool failed")
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", kind, message))
}

// documentArgument decodes a required base64 document argument
func documentArgument(request mcp.CallToolRequest, name string) (models.UploadedDocument, *mcp.CallToolResult) {
	value, err := request.RequireString(name)
	if err != nil || value == "" {
		return models.UploadedDocument{}, mcp.NewToolResultError(fmt.Sprintf("Error: %s parameter is required", name))
	}
	doc, err := decodeDocument(name+".pdf", value)
	if err != nil {
		return models.UploadedDocument{}, mcp.NewToolResultError(err.Error())
	}
	return doc, nil
}

func decodeDocument(name, value string) (models.UploadedDocument, error) {
	// Accept data URIs as well as bare base64
	if i := strings.Index(value, ";base64,"); strings.HasPrefix(value, "data:") && i >= 0 {
		value = value[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("Error: %s is not valid base64: %v", name, err)
	}
	return models.UploadedDocument{Name: name, Data: data}, nil
}
