/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package purchase implements the asset purchase exchange: extract the
// listing being bought, hash it, send a signed purchase request to the
// authority's transaction service and validate the returned receipt.
package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PaesslerAG/jsonpath"

	"github.com/payswarm/payswarm-go/pkg/common/log"
	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/signer"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite/linkeddatasignature2015"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/verifier"
	"github.com/payswarm/payswarm-go/pkg/doc/util/document"
	"github.com/payswarm/payswarm-go/pkg/doc/util/hash"
	"github.com/payswarm/payswarm-go/pkg/keys"
	"github.com/payswarm/payswarm-go/pkg/transport"
	"github.com/payswarm/payswarm-go/pkg/trust"
)

const (
	listingType         = "Listing"
	purchaseRequestType = "PurchaseRequest"
	receiptType         = "Receipt"

	contentTypeJSONLD = "application/ld+json"
)

var logger = log.New("payswarm/purchase")

// ErrAmbiguousListing is returned when the input graph contains zero or more
// than one listing.
var ErrAmbiguousListing = errors.New("graph must contain exactly one listing")

// ErrInvalidReceipt is returned when the authority's response is not a
// receipt carrying a complete contract.
var ErrInvalidReceipt = errors.New("response is not a valid receipt")

// Receipt is the proof of purchase returned by the authority.
type Receipt struct {
	ID       string
	Contract Contract

	// Raw is the full receipt document.
	Raw map[string]interface{}
}

// Contract is the binding agreement inside a receipt.
type Contract struct {
	AssetAcquirer string
	Asset         string
	License       string
}

// Request holds the per-purchase inputs.
type Request struct {
	// Identity is the buyer's identity id.
	Identity string
	// Source optionally names the funding account.
	Source string
	// TransactionService is the authority endpoint the signed request is
	// posted to.
	TransactionService string
	// SigningKeyID and SigningKeyPEM identify the buyer's signing key.
	SigningKeyID  string
	SigningKeyPEM string
}

// Client performs purchases against a payment authority.
type Client struct {
	transport transport.Transport
	processor *jsonld.Processor
	procOpts  []jsonld.Opts

	// receipt verification, enabled by WithReceiptVerification
	resolver keys.Resolver
	policy   trust.Policy
}

// Option configures the purchase client.
type Option func(*Client)

// WithJSONLDOptions option passes JSON-LD processing options (e.g. a
// document loader) used for framing, hashing and signing.
func WithJSONLDOptions(opts ...jsonld.Opts) Option {
	return func(c *Client) {
		c.procOpts = opts
	}
}

// WithReceiptVerification option enables signature verification of returned
// receipts using the given key resolver and trust policy.
func WithReceiptVerification(resolver keys.Resolver, policy trust.Policy) Option {
	return func(c *Client) {
		c.resolver = resolver
		c.policy = policy
	}
}

// New returns a purchase client on top of the given transport.
func New(t transport.Transport, opts ...Option) *Client {
	c := &Client{transport: t, processor: jsonld.Default()}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Purchase buys the single listing contained in the graph: it hashes the
// listing, signs a purchase request referencing that hash, posts it to the
// transaction service and validates the returned receipt.
func (c *Client) Purchase(ctx context.Context, graph map[string]interface{}, req *Request) (*Receipt, error) {
	listing, err := c.ExtractListing(graph)
	if err != nil {
		return nil, err
	}

	listingHash, err := hash.DocumentHash(c.processor, listing, c.procOpts...)
	if err != nil {
		return nil, err
	}

	request, err := c.buildRequest(listing, listingHash, req)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	logger.Debugf("posting purchase request for listing %s", document.ID(listing))

	respBody, err := c.transport.Post(ctx, req.TransactionService, contentTypeJSONLD, body)
	if err != nil {
		return nil, err
	}

	return c.decodeReceipt(ctx, respBody)
}

// ExtractListing frames the single listing out of a possibly larger graph.
func (c *Client) ExtractListing(graph map[string]interface{}) (map[string]interface{}, error) {
	frame := map[string]interface{}{
		"@context": graph["@context"],
		"@type":    listingType,
	}

	framed, err := c.processor.Frame(graph, frame, c.procOpts...)
	if err != nil {
		return nil, err
	}

	nodes, _ := framed["@graph"].([]interface{})
	if len(nodes) != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrAmbiguousListing, len(nodes))
	}

	node, ok := nodes[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: found 0", ErrAmbiguousListing)
	}

	listing := document.CopyMap(node)
	listing["@context"] = framed["@context"]

	return listing, nil
}

func (c *Client) buildRequest(listing map[string]interface{}, listingHash string,
	req *Request) (map[string]interface{}, error) {
	request := map[string]interface{}{
		"@context":    listing["@context"],
		"type":        purchaseRequestType,
		"identity":    req.Identity,
		"listing":     document.ID(listing),
		"listingHash": listingHash,
	}

	if req.Source != "" {
		request["source"] = req.Source
	}

	rsaSigner, err := linkeddatasignature2015.NewRSASigner(req.SigningKeyPEM)
	if err != nil {
		return nil, err
	}

	docSigner := signer.New(linkeddatasignature2015.New(suite.WithSigner(rsaSigner)))

	err = docSigner.SignObject(&signer.Context{
		SignatureType: linkeddatasignature2015.SignatureType,
		Creator:       req.SigningKeyID,
	}, request, c.procOpts...)
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (c *Client) decodeReceipt(ctx context.Context, body []byte) (*Receipt, error) {
	var doc map[string]interface{}

	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReceipt, err)
	}

	if !document.HasType(doc, receiptType) {
		return nil, fmt.Errorf("%w: type %v", ErrInvalidReceipt, document.Types(doc))
	}

	if c.resolver != nil {
		docVerifier, err := verifier.New(c.resolver,
			linkeddatasignature2015.New(suite.WithVerifier(linkeddatasignature2015.NewPublicKeyVerifier())))
		if err != nil {
			return nil, err
		}

		err = docVerifier.VerifyObject(ctx, doc, &verifier.Opts{
			CheckKeyOwner: trust.KeyOwnerCheck(c.policy),
		}, c.procOpts...)
		if err != nil {
			return nil, err
		}
	}

	contract, err := extractContract(doc)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		ID:       document.ID(doc),
		Contract: *contract,
		Raw:      doc,
	}, nil
}

// extractContract pulls the contract fields a receipt must carry.
func extractContract(doc map[string]interface{}) (*Contract, error) {
	contract := &Contract{}

	for path, target := range map[string]*string{
		"$.contract.assetAcquirer": &contract.AssetAcquirer,
		"$.contract.asset":         &contract.Asset,
		"$.contract.license":       &contract.License,
	} {
		value, err := jsonpath.Get(path, interface{}(doc))
		if err != nil {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidReceipt, path)
		}

		id := document.IDValue(value)
		if id == "" {
			return nil, fmt.Errorf("%w: empty %s", ErrInvalidReceipt, path)
		}

		*target = id
	}

	return contract, nil
}
