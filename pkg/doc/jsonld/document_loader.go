/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jsonld

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// DocumentLoader is a JSON-LD document loader backed by a set of preloaded
// context documents, with an optional fallback loader for contexts that are
// not preloaded. Without a fallback, unknown contexts fail instead of being
// fetched from the network.
type DocumentLoader struct {
	documents map[string]*ld.RemoteDocument
	fallback  ld.DocumentLoader
}

// LoaderOpt configures the document loader.
type LoaderOpt func(*DocumentLoader)

// WithFallbackLoader option enables resolution of contexts missing from the
// preloaded set through the given loader (e.g. ld.NewDefaultDocumentLoader).
func WithFallbackLoader(loader ld.DocumentLoader) LoaderOpt {
	return func(l *DocumentLoader) {
		l.fallback = loader
	}
}

// NewDocumentLoader returns a new document loader with the given context
// documents preloaded, keyed by context URL.
func NewDocumentLoader(preloaded map[string]interface{}, opts ...LoaderOpt) *DocumentLoader {
	documents := make(map[string]*ld.RemoteDocument, len(preloaded))

	for url, doc := range preloaded {
		documents[url] = &ld.RemoteDocument{DocumentURL: url, Document: doc}
	}

	loader := &DocumentLoader{documents: documents}

	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

// LoadDocument resolves a context URL from the preloaded set, falling back to
// the fallback loader if one is configured.
func (l *DocumentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	if doc, ok := l.documents[u]; ok {
		return doc, nil
	}

	if l.fallback != nil {
		return l.fallback.LoadDocument(u)
	}

	return nil, fmt.Errorf("context %q is not preloaded", u)
}
