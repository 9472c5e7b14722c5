/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package registration

import (
	"fmt"
)

const (
	// StateIDNeedKeyPair marks the phase before a vendor key pair exists.
	StateIDNeedKeyPair = "need-key-pair"
	// StateIDNeedRegistrationURL marks the phase before the registration URL is built.
	StateIDNeedRegistrationURL = "need-registration-url"
	// StateIDAwaitingUserCompletion marks the out-of-band phase while the user
	// completes registration with the authority.
	StateIDAwaitingUserCompletion = "awaiting-user-completion"
	// StateIDDecodingResponse marks decryption and verification of the
	// authority's response.
	StateIDDecodingResponse = "decoding-response"
	// StateIDDone marks a completed registration.
	StateIDDone = "done"
	// StateIDFailed marks a terminally failed registration attempt.
	StateIDFailed = "failed"
)

// The registration protocol's state.
type state interface {
	// Name of this state.
	Name() string

	// Whether this state allows transitioning into the next state.
	CanTransitionTo(next state) bool
}

// Returns the state representing the name.
func stateFromName(name string) (state, error) {
	switch name {
	case StateIDNeedKeyPair:
		return &needKeyPair{}, nil
	case StateIDNeedRegistrationURL:
		return &needRegistrationURL{}, nil
	case StateIDAwaitingUserCompletion:
		return &awaitingUserCompletion{}, nil
	case StateIDDecodingResponse:
		return &decodingResponse{}, nil
	case StateIDDone:
		return &done{}, nil
	case StateIDFailed:
		return &failed{}, nil
	default:
		return nil, fmt.Errorf("invalid state name %s", name)
	}
}

type needKeyPair struct{}

func (s *needKeyPair) Name() string {
	return StateIDNeedKeyPair
}

func (s *needKeyPair) CanTransitionTo(next state) bool {
	return next.Name() == StateIDNeedRegistrationURL || next.Name() == StateIDFailed
}

type needRegistrationURL struct{}

func (s *needRegistrationURL) Name() string {
	return StateIDNeedRegistrationURL
}

func (s *needRegistrationURL) CanTransitionTo(next state) bool {
	return next.Name() == StateIDAwaitingUserCompletion || next.Name() == StateIDFailed
}

type awaitingUserCompletion struct{}

func (s *awaitingUserCompletion) Name() string {
	return StateIDAwaitingUserCompletion
}

func (s *awaitingUserCompletion) CanTransitionTo(next state) bool {
	return next.Name() == StateIDDecodingResponse || next.Name() == StateIDFailed
}

type decodingResponse struct{}

func (s *decodingResponse) Name() string {
	return StateIDDecodingResponse
}

func (s *decodingResponse) CanTransitionTo(next state) bool {
	return next.Name() == StateIDDone || next.Name() == StateIDFailed
}

type done struct{}

func (s *done) Name() string {
	return StateIDDone
}

func (s *done) CanTransitionTo(state) bool {
	return false
}

type failed struct{}

func (s *failed) Name() string {
	return StateIDFailed
}

func (s *failed) CanTransitionTo(state) bool {
	return false
}
