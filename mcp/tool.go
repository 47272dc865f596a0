package mcp

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/viant/sovereign/engine"
	"github.com/viant/sovereign/vectordb/meta"
	"github.com/viant/sovereign/vectorstores"
)

//go:embed tools/ask.md
var descAsk string

//go:embed tools/search.md
var descSearch string

//go:embed tools/ingest.md
var descIngest string

//go:embed tools/upload.md
var descUpload string

//go:embed tools/count.md
var descCount string

func registerTools(registry *protoserver.Registry, h *Handler) error {
	if err := protoserver.RegisterTool[*AskInput, *AskOutput](registry, "ask", descAsk, func(ctx context.Context, in *AskInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.ask(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*SearchInput, *SearchOutput](registry, "search", descSearch, func(ctx context.Context, in *SearchInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.search(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*IngestInput, *IngestOutput](registry, "ingest", descIngest, func(ctx context.Context, in *IngestInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.ingest(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*UploadInput, *IngestOutput](registry, "upload", descUpload, func(ctx context.Context, in *UploadInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.upload(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*CountInput, *CountOutput](registry, "count", descCount, func(ctx context.Context, in *CountInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.count(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}
	return nil
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResult(payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	b, _ := json.Marshal(payload)
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{
			schema.TextContent{Type: "text", Text: string(b)},
		},
		StructuredContent: map[string]any{"result": payload},
	}, nil
}

// ask never fails on engine errors; they are rendered into the answer text.
func (h *Handler) ask(ctx context.Context, in *AskInput) (*AskOutput, error) {
	if h == nil || h.engine == nil {
		return nil, fmt.Errorf("mcp: engine unavailable")
	}
	if in == nil || strings.TrimSpace(in.Query) == "" {
		return nil, fmt.Errorf("mcp: missing query")
	}
	start := time.Now()
	answer, err := h.engine.Query(ctx, in.Query, in.K)
	if err != nil {
		h.logger.Warn("mcp ask failed", "kind", engine.KindOf(err), "error", err)
		return &AskOutput{Answer: engine.QueryMessage(err), Kind: engine.KindOf(err)}, nil
	}
	h.logger.Debug("mcp ask", "outcome", answer.Outcome, "sources", len(answer.Sources), "dur", time.Since(start))
	return &AskOutput{Answer: answer.Text, Outcome: answer.Outcome, Sources: answer.Sources}, nil
}

func (h *Handler) search(ctx context.Context, in *SearchInput) (*SearchOutput, error) {
	if h == nil || h.engine == nil {
		return nil, fmt.Errorf("mcp: engine unavailable")
	}
	if in == nil || strings.TrimSpace(in.Query) == "" {
		return nil, fmt.Errorf("mcp: missing query")
	}
	var opts []vectorstores.Option
	if in.Offset > 0 {
		opts = append(opts, vectorstores.WithOffset(in.Offset))
	}
	if in.MinScore > 0 {
		opts = append(opts, vectorstores.WithMinScore(float32(in.MinScore)))
	}
	if in.Source != "" {
		opts = append(opts, vectorstores.WithSource(in.Source))
	}
	docs, err := h.engine.Search(ctx, in.Query, in.Limit, opts...)
	if err != nil {
		return nil, err
	}
	out := &SearchOutput{Results: make([]SearchResult, 0, len(docs))}
	for _, doc := range docs {
		out.Results = append(out.Results, SearchResult{
			ID:      doc.ID,
			Source:  doc.Source(),
			Page:    doc.Page(),
			Seq:     meta.GetInt(doc.Metadata, meta.SeqKey),
			Score:   doc.Score,
			Content: doc.PageContent,
		})
	}
	return out, nil
}

func (h *Handler) ingest(ctx context.Context, in *IngestInput) (*IngestOutput, error) {
	if h == nil || h.engine == nil {
		return nil, fmt.Errorf("mcp: engine unavailable")
	}
	if in == nil || strings.TrimSpace(in.Path) == "" {
		return nil, fmt.Errorf("mcp: missing path")
	}
	result, err := h.engine.IngestFile(ctx, in.Path)
	return ingestOutput(in.Path, result, err), nil
}

func (h *Handler) upload(ctx context.Context, in *UploadInput) (*IngestOutput, error) {
	if h == nil || h.engine == nil {
		return nil, fmt.Errorf("mcp: engine unavailable")
	}
	if in == nil || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("mcp: missing name")
	}
	data, err := base64.StdEncoding.DecodeString(in.Content)
	if err != nil {
		return nil, fmt.Errorf("mcp: invalid base64 content: %w", err)
	}
	result, err := h.engine.IngestContent(ctx, in.Name, data)
	return ingestOutput(in.Name, result, err), nil
}

func ingestOutput(location string, result *engine.IngestResult, err error) *IngestOutput {
	if err != nil {
		return &IngestOutput{Message: engine.IngestMessage(location, err), Kind: engine.KindOf(err)}
	}
	return &IngestOutput{
		Message: engine.SuccessMessage(result),
		Success: true,
		Chunks:  result.Chunks,
		Pages:   result.Pages,
	}
}

func (h *Handler) count(ctx context.Context, _ *CountInput) (*CountOutput, error) {
	if h == nil || h.engine == nil {
		return nil, fmt.Errorf("mcp: engine unavailable")
	}
	n, err := h.engine.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &CountOutput{Count: n, Message: fmt.Sprintf("Database ready with %d document chunks.", n)}, nil
}
