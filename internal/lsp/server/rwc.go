package server

import (
	"io"
	"os"
)

// pipeRWC glues a separate reader and writer into the single
// io.ReadWriteCloser a jsonrpc2 stream expects.
type pipeRWC struct {
	in  io.ReadCloser
	out io.WriteCloser
}

// NewStdRWC wraps the process stdio for speaking LSP with the editor.
func NewStdRWC() io.ReadWriteCloser {
	return NewRWC(os.Stdin, os.Stdout)
}

// NewRWC pairs an arbitrary reader and writer, such as the stdout and
// stdin pipes of a child language server.
func NewRWC(in io.ReadCloser, out io.WriteCloser) io.ReadWriteCloser {
	return &pipeRWC{in: in, out: out}
}

func (p *pipeRWC) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *pipeRWC) Write(b []byte) (int, error) { return p.out.Write(b) }

func (p *pipeRWC) Close() error {
	if err := p.in.Close(); err != nil {
		return err
	}
	return p.out.Close()
}
