/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package registration implements the vendor registration exchange with a
// payment authority: generate a key pair, send the user to the authority's
// registration service, then decrypt and verify the encrypted response it
// returns.
package registration

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/payswarm/payswarm-go/pkg/common/log"
	"github.com/payswarm/payswarm-go/pkg/crypto/hybrid"
	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite/linkeddatasignature2015"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/verifier"
	"github.com/payswarm/payswarm-go/pkg/doc/util/document"
	"github.com/payswarm/payswarm-go/pkg/keys"
	"github.com/payswarm/payswarm-go/pkg/nonce"
	"github.com/payswarm/payswarm-go/pkg/trust"
	"github.com/payswarm/payswarm-go/pkg/wellknown"
)

const (
	// identityPreferencesType is the type the decoded response must declare.
	identityPreferencesType = "IdentityPreferences"
	errorType               = "Error"

	paramPublicKey            = "public-key"
	paramRegistrationCallback = "registration-callback"
	paramResponseNonce        = "response-nonce"
)

var logger = log.New("payswarm/registration")

// ErrUnexpectedResponseType is returned when the decoded response is not an
// identity-preferences document, or declares an error type.
var ErrUnexpectedResponseType = errors.New("response is not an identity-preferences document")

// Result holds what a completed registration yields: the registered key id,
// the identity owning it and the funding account destination.
type Result struct {
	PublicKeyID string
	Owner       string
	Destination string
}

// Client drives one registration attempt. Failure at any state is terminal
// for the attempt; nothing is retried.
type Client struct {
	authority   string
	discovery   *wellknown.Client
	nonces      nonce.Store
	policy      trust.Policy
	verifier    *verifier.DocumentVerifier
	callbackURL string
	keyPair     *keys.KeyPair
	procOpts    []jsonld.Opts

	current state
	mu      sync.Mutex
}

// Option configures the registration client.
type Option func(*Client)

// WithCallbackURL option sets the URL the authority posts the encrypted
// response to. Without it the flow is fully out-of-band.
func WithCallbackURL(callbackURL string) Option {
	return func(c *Client) {
		c.callbackURL = callbackURL
	}
}

// WithKeyPair option seeds the client with an existing vendor key pair.
func WithKeyPair(keyPair *keys.KeyPair) Option {
	return func(c *Client) {
		c.keyPair = keyPair
	}
}

// WithJSONLDOptions option passes JSON-LD processing options (e.g. a
// document loader) used when verifying the response.
func WithJSONLDOptions(opts ...jsonld.Opts) Option {
	return func(c *Client) {
		c.procOpts = opts
	}
}

// New returns a registration client for the given authority host. The
// resolver fetches the authority's signing keys and the policy decides
// whether their owner is a trusted authority.
func New(authority string, discovery *wellknown.Client, resolver keys.Resolver,
	nonces nonce.Store, policy trust.Policy, opts ...Option) (*Client, error) {
	docVerifier, err := verifier.New(resolver,
		linkeddatasignature2015.New(suite.WithVerifier(linkeddatasignature2015.NewPublicKeyVerifier())))
	if err != nil {
		return nil, err
	}

	c := &Client{
		authority: authority,
		discovery: discovery,
		nonces:    nonces,
		policy:    policy,
		verifier:  docVerifier,
		current:   &needKeyPair{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.keyPair != nil {
		c.current = &needRegistrationURL{}
	}

	return c, nil
}

// State returns the name of the protocol's current state.
func (c *Client) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current.Name()
}

// EnsureKeyPair generates a vendor RSA key pair if none exists yet and
// returns it.
func (c *Client) EnsureKeyPair() (*keys.KeyPair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keyPair != nil {
		return c.keyPair, nil
	}

	if err := c.requireState(StateIDNeedKeyPair); err != nil {
		return nil, err
	}

	keyPair, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	if err != nil {
		return nil, c.fail(err)
	}

	c.keyPair = keyPair

	if err := c.transitionTo(StateIDNeedRegistrationURL); err != nil {
		return nil, err
	}

	return keyPair, nil
}

// RegistrationURL discovers the authority's vendor registration service and
// builds the URL the user completes registration at, carrying the vendor's
// public key, an optional callback and a fresh response nonce.
func (c *Client) RegistrationURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireState(StateIDNeedRegistrationURL); err != nil {
		return "", err
	}

	cfg, err := c.discovery.PaySwarmConfig(ctx, c.authority)
	if err != nil {
		return "", c.fail(err)
	}

	if cfg.VendorRegistrationService == "" {
		return "", c.fail(errors.New("authority config declares no vendor registration service"))
	}

	responseNonce, err := c.nonces.Create(ctx)
	if err != nil {
		return "", c.fail(err)
	}

	registrationURL, err := url.Parse(cfg.VendorRegistrationService)
	if err != nil {
		return "", c.fail(fmt.Errorf("invalid vendor registration service URL: %w", err))
	}

	q := registrationURL.Query()
	q.Set(paramPublicKey, c.keyPair.PublicKeyPEM)

	if c.callbackURL != "" {
		q.Set(paramRegistrationCallback, c.callbackURL)
	}

	q.Set(paramResponseNonce, responseNonce)
	registrationURL.RawQuery = q.Encode()

	if err := c.transitionTo(StateIDAwaitingUserCompletion); err != nil {
		return "", err
	}

	return registrationURL.String(), nil
}

// CompleteRegistration decrypts and verifies the authority's encrypted
// response and extracts the registered key, owner and funding destination.
func (c *Client) CompleteRegistration(ctx context.Context, msg *hybrid.EncryptedMessage) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireState(StateIDAwaitingUserCompletion); err != nil {
		return nil, err
	}

	if err := c.transitionTo(StateIDDecodingResponse); err != nil {
		return nil, err
	}

	doc, err := hybrid.Decrypt(msg, c.keyPair.PrivateKeyPEM)
	if err != nil {
		return nil, c.fail(err)
	}

	// decryption alone does not authenticate the sender
	err = c.verifier.VerifyObject(ctx, doc, &verifier.Opts{
		CheckNonce:    nonce.CheckNonce(c.nonces),
		CheckKeyOwner: trust.KeyOwnerCheck(c.policy),
	}, c.procOpts...)
	if err != nil {
		return nil, c.fail(err)
	}

	if document.HasType(doc, errorType) || !document.HasType(doc, identityPreferencesType) {
		return nil, c.fail(fmt.Errorf("%w: type %v", ErrUnexpectedResponseType, document.Types(doc)))
	}

	result := &Result{
		PublicKeyID: document.IDValue(doc["publicKey"]),
		Owner:       document.IDValue(doc["owner"]),
		Destination: document.IDValue(doc["destination"]),
	}

	if result.PublicKeyID == "" || result.Owner == "" {
		return nil, c.fail(errors.New("response is missing the registered key or owner"))
	}

	if err := c.transitionTo(StateIDDone); err != nil {
		return nil, err
	}

	logger.Debugf("registration with %s completed for owner %s", c.authority, result.Owner)

	return result, nil
}

// requireState ensures the protocol is in the given state.
func (c *Client) requireState(name string) error {
	if c.current.Name() != name {
		return fmt.Errorf("expecting state %s, current state is %s", name, c.current.Name())
	}

	return nil
}

// transitionTo moves the protocol to the named state.
func (c *Client) transitionTo(name string) error {
	next, err := stateFromName(name)
	if err != nil {
		return err
	}

	if !c.current.CanTransitionTo(next) {
		return fmt.Errorf("invalid state transition: %s -> %s", c.current.Name(), name)
	}

	c.current = next

	return nil
}

// fail moves the protocol to the terminal failed state and returns err.
func (c *Client) fail(err error) error {
	c.current = &failed{}

	return err
}
