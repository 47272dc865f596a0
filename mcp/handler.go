// Package mcp exposes the engine as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/viant/jsonrpc/transport"
	protoclient "github.com/viant/mcp-protocol/client"
	protologger "github.com/viant/mcp-protocol/logger"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/viant/sovereign/engine"
	"github.com/viant/sovereign/logger"
)

type Handler struct {
	*protoserver.DefaultHandler
	engine *engine.Engine
	logger logger.Logger
	ops    protoclient.Operations
}

func NewHandler(eng *engine.Engine, log logger.Logger) protoserver.NewHandler {
	if log == nil {
		log = logger.Discard()
	}
	return func(_ context.Context, notifier transport.Notifier, protoLog protologger.Logger, clientOperation protoclient.Operations) (protoserver.Handler, error) {
		base := protoserver.NewDefaultHandler(notifier, protoLog, clientOperation)
		h := &Handler{
			DefaultHandler: base,
			engine:         eng,
			logger:         log,
			ops:            clientOperation,
		}
		if err := registerTools(base.Registry, h); err != nil {
			return nil, err
		}
		return h, nil
	}
}
