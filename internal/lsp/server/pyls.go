package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

type lspServer interface {
	SendDiagnostics(ctx context.Context, params lsp.PublishDiagnosticsParams) error
}

// PyLS wraps a python-lsp-server subprocess speaking jsonrpc2 over stdio.
type PyLS struct {
	conn *jsonrpc2.Conn
	cmd  *exec.Cmd

	server lspServer
}

func NewPyLS(server lspServer, binPath string) (*PyLS, error) {
	pyPath := binPath
	if pyPath == "" {
		var err error
		pyPath, err = findPyLS()
		if err != nil {
			return nil, fmt.Errorf("pylsp not found: %w", err)
		}
	}
	cmd := exec.Command(pyPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	rw := NewRWC(stdout, stdin)
	stream := jsonrpc2.NewBufferedStream(rw, jsonrpc2.VSCodeObjectCodec{})

	p := &PyLS{
		cmd:    cmd,
		server: server,
	}

	p.conn = jsonrpc2.NewConn(
		context.Background(),
		stream,
		jsonrpc2.HandlerWithError(p.HandleResponse),
	)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start pylsp: %w", err)
	}

	go func() {
		err := cmd.Wait()
		if err != nil {
			log.Error("pylsp exited", "error", err)
		}
	}()

	log.Debug("pylsp started", "path", pyPath)

	return p, nil
}

// HandleResponse handles responses from pylsp
// and forwards them to the proxy
func (p *PyLS) HandleResponse(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	log.Debug("received notification from pylsp", "method", req.Method)
	switch req.Method {
	case "textDocument/publishDiagnostics":
		var params lsp.PublishDiagnosticsParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		// Get the markdown file this diagnostic is for
		originalURI, exists := p.server.(*Server).getShadowToOriginalURI(string(params.URI))
		if !exists {
			return nil, fmt.Errorf("no mapping for shadow URI: %s", params.URI)
		}

		log.Debug("forwarding diagnostics",
			"shadow_uri", params.URI,
			"original_uri", originalURI,
			"diagnostic_count", len(params.Diagnostics))

		params.URI = lsp.DocumentURI(originalURI)
		return nil, p.server.SendDiagnostics(ctx, params)
	}
	return nil, nil
}

// ForwardRequest forwards a request from proxy to pylsp
func (p *PyLS) ForwardRequest(method string, params interface{}) (interface{}, error) {
	var result interface{}
	log.Info("sending request to pylsp", "method", method)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := p.conn.Call(ctx, method, params, &result)
	return result, err
}

// findPyLS attempts to find the pylsp binary based on common
// installation paths
func findPyLS() (string, error) {
	commonPaths := []string{
		"/opt/homebrew/bin/pylsp",
		"/usr/local/bin/pylsp",
		"/usr/bin/pylsp",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return exec.LookPath("pylsp")
}
