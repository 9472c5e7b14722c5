/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hybrid implements the hybrid public-key encryption used to
// transport protocol responses: the payload is encrypted with AES-128-CBC
// under a random key, and the key and IV are each wrapped with RSA-OAEP
// under the recipient's public key.
package hybrid

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/payswarm/payswarm-go/pkg/keys"
)

// Algorithm is the single cipher suite identifier gating all processing.
const Algorithm = "rsa-sha256-aes-128-cbc"

const aesKeySize = 16

// ErrUnsupportedAlgorithm is returned for any cipher algorithm other than
// Algorithm. No partial decryption is attempted for unknown algorithms.
var ErrUnsupportedAlgorithm = errors.New("unsupported cipher algorithm")

// ErrDecryptionFailed is returned on any cryptographic or padding error
// during decryption. It carries no further detail.
var ErrDecryptionFailed = errors.New("decryption failed")

// ErrMalformedPlaintext is returned when decrypted bytes do not parse as a
// document.
var ErrMalformedPlaintext = errors.New("decrypted payload is not a valid document")

// EncryptedMessage is the wire form of a hybrid-encrypted document.
// Immutable once constructed.
type EncryptedMessage struct {
	CipherAlgorithm      string `json:"cipherAlgorithm"`
	CipherKey            string `json:"cipherKey"`
	InitializationVector string `json:"initializationVector"`
	CipherData           string `json:"cipherData"`
}

// Encrypt encrypts the JSON-serialized document under a fresh symmetric key
// and wraps the key and IV with RSA-OAEP under the recipient's public key.
func Encrypt(doc map[string]interface{}, publicKeyPEM string) (*EncryptedMessage, error) {
	publicKey, err := keys.ParseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipient public key: %w", err)
	}

	plaintext, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	key := make([]byte, aesKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap symmetric key: %w", err)
	}

	wrappedIV, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, iv, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap initialization vector: %w", err)
	}

	return &EncryptedMessage{
		CipherAlgorithm:      Algorithm,
		CipherKey:            base64.StdEncoding.EncodeToString(wrappedKey),
		InitializationVector: base64.StdEncoding.EncodeToString(wrappedIV),
		CipherData:           base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Decrypt unwraps the symmetric key and IV with the recipient's private key
// and decrypts the payload into a document map. Decryption alone does not
// authenticate the sender; payloads carrying a signature block must still be
// verified by the caller.
func Decrypt(msg *EncryptedMessage, privateKeyPEM string) (map[string]interface{}, error) {
	if msg.CipherAlgorithm != Algorithm {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, msg.CipherAlgorithm)
	}

	privateKey, err := keys.ParseRSAPrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipient private key: %w", err)
	}

	wrappedKey, err := base64.StdEncoding.DecodeString(msg.CipherKey)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	wrappedIV, err := base64.StdEncoding.DecodeString(msg.InitializationVector)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	ciphertext, err := base64.StdEncoding.DecodeString(msg.CipherData)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	key, err := rsa.DecryptOAEP(sha256.New(), nil, privateKey, wrappedKey, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	iv, err := rsa.DecryptOAEP(sha256.New(), nil, privateKey, wrappedIV, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	if len(key) != aesKeySize || len(iv) != aes.BlockSize {
		return nil, ErrDecryptionFailed
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, ok := pkcs7Unpad(padded, aes.BlockSize)
	if !ok {
		return nil, ErrDecryptionFailed
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPlaintext, err)
	}

	return doc, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)

	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}

	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, false
	}

	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, false
		}
	}

	return data[:len(data)-padding], true
}
