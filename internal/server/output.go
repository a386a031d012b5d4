package server

import (
	"bytes"
	"strings"
	"sync"
)

// Output buffers what the player prints until the next request collects it
type Output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

// Lines drains the buffer
func (o *Output) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := strings.TrimRight(o.buf.String(), "\n")
	o.buf.Reset()
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
