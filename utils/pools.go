package utils

import (
	"bytes"
	"sync"
)

// BytesBufferPool recycles the buffers used to render graphs and tables.
type BytesBufferPool struct {
	p sync.Pool
}

func (bbp *BytesBufferPool) Get() *bytes.Buffer {
	bbv := bbp.p.Get()
	if bbv == nil {
		return &bytes.Buffer{}
	}
	return bbv.(*bytes.Buffer)
}

func (bbp *BytesBufferPool) Put(bb *bytes.Buffer) {
	bb.Reset()
	bbp.p.Put(bb)
}
