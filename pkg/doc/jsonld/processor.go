/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jsonld wraps the json-gold processor behind the two graph
// operations the protocol needs: deterministic canonicalization and framing.
// RDF canonicalization itself is consumed from json-gold, not reimplemented.
package jsonld

import (
	"errors"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

const (
	format           = "application/n-quads"
	defaultAlgorithm = "URDNA2015"
)

// ErrEmptyCanonicalForm is returned when canonicalization of a document
// yields zero bytes. This typically means the document's terms are not
// defined by any context.
var ErrEmptyCanonicalForm = errors.New("canonical form of document is empty")

// processorOpts holds options for canonicalization and framing of JSON-LD docs.
type processorOpts struct {
	documentLoader ld.DocumentLoader
}

// Opts are the options for JSON-LD operations on docs.
type Opts func(opts *processorOpts)

// WithDocumentLoader option is for passing custom JSON-LD document loader.
func WithDocumentLoader(loader ld.DocumentLoader) Opts {
	return func(opts *processorOpts) {
		opts.documentLoader = loader
	}
}

// Processor is a JSON-LD processor.
// processing mode JSON-LD 1.0 {RFC: https://www.w3.org/TR/2014/REC-json-ld-20140116}.
type Processor struct {
	algorithm string
}

// NewProcessor returns a new JSON-LD processor with given RDF dataset algorithm.
func NewProcessor(algorithm string) *Processor {
	if algorithm == "" {
		return Default()
	}

	return &Processor{algorithm}
}

// Default returns a new JSON-LD processor with the default RDF dataset algorithm.
func Default() *Processor {
	return &Processor{defaultAlgorithm}
}

// GetCanonicalDocument returns the canonized form of the given JSON-LD document.
// Equivalent documents always produce identical bytes, independent of key or
// graph ordering.
func (p *Processor) GetCanonicalDocument(doc map[string]interface{}, opts ...Opts) ([]byte, error) {
	procOptions := prepareOpts(opts)

	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.Algorithm = p.algorithm
	ldOptions.Format = format
	ldOptions.ProduceGeneralizedRdf = true

	if procOptions.documentLoader != nil {
		ldOptions.DocumentLoader = procOptions.documentLoader
	}

	proc := ld.NewJsonLdProcessor()

	view, err := proc.Normalize(doc, ldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize JSON-LD document: %w", err)
	}

	result, ok := view.(string)
	if !ok {
		return nil, fmt.Errorf("failed to normalize JSON-LD document, invalid view")
	}

	if len(result) == 0 {
		return nil, ErrEmptyCanonicalForm
	}

	return []byte(result), nil
}

// Frame makes a frame from the inputDoc using frameDoc. The result always
// carries an "@graph" entry holding the matched node(s).
func (p *Processor) Frame(inputDoc, frameDoc map[string]interface{}, opts ...Opts) (map[string]interface{}, error) {
	procOptions := prepareOpts(opts)

	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.OmitGraph = false

	if procOptions.documentLoader != nil {
		ldOptions.DocumentLoader = procOptions.documentLoader
	}

	proc := ld.NewJsonLdProcessor()

	framed, err := proc.Frame(inputDoc, frameDoc, ldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to frame JSON-LD document: %w", err)
	}

	return framed, nil
}

// prepareOpts prepare processorOpts from given CanonicalizationOpts arguments.
func prepareOpts(opts []Opts) *processorOpts {
	procOpts := &processorOpts{}

	for _, opt := range opts {
		opt(procOpts)
	}

	return procOpts
}
