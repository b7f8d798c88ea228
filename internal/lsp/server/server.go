package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	iLsp "github.com/apdltools/apdl2py/internal/lsp"
)

// Server proxies LSP traffic between an editor editing markdown APDL
// decks and a python language server that only sees generated shadow
// files.
type Server struct {
	conn *jsonrpc2.Conn
	// python lsp interface
	pyLS *PyLS
	// tracks canceled request IDs
	cancelMap sync.Map

	// tracking for method request counts
	trackRequestCount sync.Map

	// abstraction for conversion operations
	docService *iLsp.DocumentService
}

type Options struct {
	PyLSPath   string
	DocService iLsp.DocumentServiceOptions
}

var DefaultServerOptions = Options{
	DocService: iLsp.DefaultDocumentServiceOptions,
}

func NewServer(options Options) (*Server, error) {
	dService, err := iLsp.NewDocumentService(options.DocService)
	if err != nil {
		return nil, err
	}

	s := &Server{
		docService: dService,
	}

	p, err := NewPyLS(s, options.PyLSPath)
	if err != nil {
		return nil, err
	}

	s.pyLS = p
	return s, nil
}

func (s *Server) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (result interface{}, err error) {
	if s.conn == nil {
		s.conn = conn
	}
	log.Info("received request", "method", req.Method, "id", req.ID)
	reqCount, _ := s.trackRequestCount.LoadOrStore(req.Method, 1)
	if count, ok := reqCount.(int); ok {
		s.trackRequestCount.Store(req.Method, count+1)
	}

	if _, ok := s.cancelMap.Load(req.ID.String()); ok {
		log.Debug("request was canceled", "id", req.ID)
		s.cancelMap.Delete(req.ID.String())
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		log.Info("initializing lsp server")

		var initParams lsp.InitializeParams
		if err := json.Unmarshal(*req.Params, &initParams); err != nil {
			return nil, err
		}

		initParams.RootPath = s.docService.ShadowRoot()
		initParams.RootURI = lsp.DocumentURI("file://" + s.docService.ShadowRoot())

		result, err := s.pyLS.ForwardRequest(req.Method, initParams)
		if err != nil {
			return nil, err
		}

		response := result.(map[string]interface{})
		if caps, ok := response["capabilities"].(map[string]interface{}); ok {
			caps["textDocumentSync"] = 1 // Full sync
			caps["publishDiagnostics"] = true
		}

		return response, nil

	case "initialized":
		log.Info("server initialized")
		var params lsp.InitializeResult
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.pyLS.ForwardRequest(req.Method, params)
	case "shutdown":
		log.Info("shutting down")

		if err := s.docService.CleanupShadowFiles(); err != nil {
			log.Error("failed to remove shadow workspace", "error", err)
		}

		s.printDebugStats()

		return nil, nil
	case "exit":
		log.Info("exiting")

		os.Exit(0)
		return nil, nil

	case "textDocument/didOpen":
		// The file is converted on open, so LSP diagnostics are shown initially
		var params lsp.DidOpenTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		shadowURI, err := s.docService.TransformShadowDoc(params.TextDocument.Text, params.TextDocument.URI)
		if err != nil {
			return nil, err
		}

		fsPath, err := s.docService.URIToPath(lsp.DocumentURI(shadowURI))
		if err != nil {
			return nil, err
		}

		content, err := os.ReadFile(fsPath)
		if err != nil {
			return nil, err
		}

		newParams := lsp.DidOpenTextDocumentParams{
			TextDocument: lsp.TextDocumentItem{
				URI:        lsp.DocumentURI(shadowURI),
				Text:       string(content),
				LanguageID: "python",
				Version:    params.TextDocument.Version,
			},
		}

		log.Debug("forwarding didOpen to pylsp", "params", newParams)

		return s.pyLS.ForwardRequest("textDocument/didOpen", newParams)
	case "textDocument/didChange":
		var params lsp.DidChangeTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		if len(params.ContentChanges) > 0 {
			newContent := params.ContentChanges[0].Text

			shadowURI, err := s.docService.TransformShadowDoc(newContent, params.TextDocument.URI)
			if err != nil {
				return nil, err
			}

			fsPath, err := s.docService.URIToPath(lsp.DocumentURI(shadowURI))
			if err != nil {
				return nil, err
			}

			content, err := os.ReadFile(fsPath)
			if err != nil {
				return nil, err
			}

			newParams := lsp.DidChangeTextDocumentParams{
				TextDocument: params.TextDocument,
				ContentChanges: []lsp.TextDocumentContentChangeEvent{
					{
						Text: string(content),
					},
				},
			}
			newParams.TextDocument.URI = lsp.DocumentURI(shadowURI)

			return s.pyLS.ForwardRequest("textDocument/didChange", newParams)
		}

		// No content changes
		return s.pyLS.ForwardRequest("textDocument/didChange", params)
	case "textDocument/didSave":
		var params lsp.DidSaveTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		return s.pyLS.ForwardRequest(req.Method, params)
	case "textDocument/definition":
		var params lsp.TextDocumentPositionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		shadowURI, exists := s.docService.ShadowURI(string(params.TextDocument.URI))
		if !exists {
			return nil, fmt.Errorf("no shadow file found for %s", params.TextDocument.URI)
		}

		params.TextDocument.URI = lsp.DocumentURI(shadowURI)
		result, err := s.pyLS.ForwardRequest(req.Method, params)
		if err != nil {
			return nil, err
		}

		resultBytes, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}

		var locationLinks []LocationLink
		if err := json.Unmarshal(resultBytes, &locationLinks); err == nil {
			for i := range locationLinks {
				originalURI, exists := s.getShadowToOriginalURI(string(locationLinks[i].TargetURI))
				if exists {
					locationLinks[i].TargetURI = lsp.DocumentURI(originalURI)
				} else {
					log.Debug("unable to find original URI for shadow URI", "shadowURI", locationLinks[i].TargetURI)
				}
			}
			log.Debug("received location link definition response", "result", result)
			return locationLinks, nil
		}

		log.Debug("received definition response that we could not parse", "result", result)
		return nil, fmt.Errorf("unable to parse definition response")

	case "textDocument/hover":
		var params lsp.TextDocumentPositionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		shadowURI, exists := s.docService.ShadowURI(string(params.TextDocument.URI))
		if !exists {
			return nil, fmt.Errorf("no shadow file found for %s", params.TextDocument.URI)
		}

		params.TextDocument.URI = lsp.DocumentURI(shadowURI)
		return s.pyLS.ForwardRequest(req.Method, params)

	case "textDocument/completion":
		var params lsp.CompletionParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		shadowURI, exists := s.docService.ShadowURI(string(params.TextDocument.URI))
		if !exists {
			return nil, fmt.Errorf("no shadow file found for %s", params.TextDocument.URI)
		}

		params.TextDocument.URI = lsp.DocumentURI(shadowURI)
		return s.pyLS.ForwardRequest(req.Method, params)
	case "$/cancelRequest":
		var params lsp.CancelParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		log.Debug("canceling request", "id", params.ID)
		s.cancelMap.Store(params.ID.String(), struct{}{})
		return nil, nil

	// Anything else is proxied straight to pylsp; partial support for
	// undocumented methods is accepted.
	default:
		return s.pyLS.ForwardRequest(req.Method, req.Params)
	}
}

func (s *Server) SendDiagnostics(ctx context.Context, params lsp.PublishDiagnosticsParams) error {
	return s.conn.Notify(ctx, "textDocument/publishDiagnostics", params)
}

func (s *Server) getShadowToOriginalURI(shadowURI string) (string, bool) {
	return s.docService.OriginalURI(shadowURI)
}

func (s *Server) printDebugStats() {
	s.trackRequestCount.Range(func(key, value interface{}) bool {
		msg := fmt.Sprintf("Method: %-30s Count: %d", key.(string), value.(int))
		log.Debug(msg)
		return true
	})
}

// LocationLink is an implementation of the LocationLink LSP type
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#locationLink
//
// https://github.com/sourcegraph/go-lsp does not support the LocationLink Type
// so we have implemented it here for pylsp
type LocationLink struct {
	// Span of the origin of this link.
	// Used as the underlined span for mouse interaction.
	// Optional - defaults to the word range at the mouse position.
	OriginSelectionRange *lsp.Range `json:"originSelectionRange,omitempty"`

	// The target resource identifier of this link.
	TargetURI lsp.DocumentURI `json:"targetUri"`

	// The full target range including surrounding content like comments
	TargetRange lsp.Range `json:"targetRange"`

	// The precise range that should be selected when following the link
	// Must be contained within TargetRange
	TargetSelectionRange lsp.Range `json:"targetSelectionRange"`
}
