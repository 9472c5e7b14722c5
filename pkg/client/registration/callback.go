/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package registration

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/payswarm/payswarm-go/pkg/crypto/hybrid"
)

// encryptedMessageParam is the form field the authority posts the encrypted
// response in when using a browser redirect.
const encryptedMessageParam = "encrypted-message"

// CallbackHandler returns the HTTP handler for the registration-callback
// URL. It accepts the authority's POSTed EncryptedMessage (either a JSON
// body or a form post) and completes the registration with it. Browser form
// posts are cross-origin, so the handler allows CORS for POST.
func (c *Client) CallbackHandler(onComplete func(*Result), onError func(error)) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		msg, err := decodeCallbackMessage(r)
		if err != nil {
			onError(err)
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		result, err := c.CompleteRegistration(r.Context(), msg)
		if err != nil {
			onError(err)
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		onComplete(result)
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodPost},
	}).Handler(router)
}

func decodeCallbackMessage(r *http.Request) (*hybrid.EncryptedMessage, error) {
	var raw []byte

	if formValue := r.PostFormValue(encryptedMessageParam); formValue != "" {
		raw = []byte(formValue)
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}

		raw = body
	}

	var msg hybrid.EncryptedMessage

	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}
