package bazaar

import "io"

// Encryptor encrypts listing payloads on the client side before upload.
// The store only ever sees the ciphertext. Encryption uses the public key
// only; decryption requires the passphrase that protects the private key.
type Encryptor interface {
	// Setup performs one-time key generation. The private key is encrypted
	// with passphrase before it is written.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase and returns a
	// DecryptionContext for the session.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory.
type DecryptionContext interface {
	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
