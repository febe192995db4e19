package encryption

import (
	"bytes"

	"databazaar/internal/bazaar"
)

// SealPayload encrypts an in-memory payload with enc.
func SealPayload(enc bazaar.Encryptor, payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc.Encrypt(bytes.NewReader(payload), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OpenPayload decrypts a payload previously produced by SealPayload.
func OpenPayload(dc bazaar.DecryptionContext, sealed []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.Decrypt(bytes.NewReader(sealed), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
