package attrjson

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Encryption errors.
var (
	ErrInvalidKeySize  = errors.New("invalid key size")
	ErrCiphertextShort = errors.New("ciphertext too short")
	ErrMissingKey      = errors.New("missing key")
)

// Encryptor handles encryption/decryption operations.
type Encryptor interface {
	// Encrypt encrypts plaintext and returns ciphertext.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext and returns plaintext.
	Decrypt(ciphertext []byte) ([]byte, error)
}

// aeadEncryptor seals with any AEAD, prepending a random nonce.
type aeadEncryptor struct {
	aead cipher.AEAD
}

// AES returns an AES-GCM encryptor.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func AES(key []byte) (Encryptor, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &aeadEncryptor{aead: gcm}, nil
}

// XChaCha20 returns an XChaCha20-Poly1305 encryptor. Key must be 32 bytes.
// The 24-byte nonce makes random nonces safe for any number of messages.
func XChaCha20(key []byte) (Encryptor, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	return &aeadEncryptor{aead: aead}, nil
}

func (e *aeadEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Prepend nonce to ciphertext
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *aeadEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	if len(ciphertext) < nonceSize+e.aead.Overhead() {
		return nil, ErrCiphertextShort
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return e.aead.Open(nil, nonce, ciphertext, nil)
}

// rsaOAEP wraps data keys with RSA-OAEP over SHA-256.
type rsaOAEP struct {
	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
}

func (r *rsaOAEP) Encrypt(plaintext []byte) ([]byte, error) {
	if r.pub == nil {
		return nil, fmt.Errorf("%w: public key required for encryption", ErrMissingKey)
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, r.pub, plaintext, nil)
}

func (r *rsaOAEP) Decrypt(ciphertext []byte) ([]byte, error) {
	if r.priv == nil {
		return nil, fmt.Errorf("%w: private key required for decryption", ErrMissingKey)
	}
	return rsa.DecryptOAEP(sha256.New(), rand.Reader, r.priv, ciphertext, nil)
}

// envelopeEncryptor seals each payload under a fresh XChaCha20-Poly1305 data
// key and wraps that key with a master encryptor.
//
// Format: [2 bytes wrapped key len][wrapped key][sealed payload]
type envelopeEncryptor struct {
	master Encryptor
}

// Envelope returns an envelope encryptor whose data keys are wrapped with
// AES-GCM under masterKey. Master key must be 16, 24, or 32 bytes.
func Envelope(masterKey []byte) (Encryptor, error) {
	master, err := AES(masterKey)
	if err != nil {
		return nil, err
	}
	return &envelopeEncryptor{master: master}, nil
}

// RSA returns an envelope encryptor whose data keys are wrapped with
// RSA-OAEP, so payloads of any size can be sealed.
// pub is required for encryption; priv is required for decryption.
// Either can be nil if only one operation is needed.
func RSA(pub *rsa.PublicKey, priv *rsa.PrivateKey) Encryptor {
	return &envelopeEncryptor{master: &rsaOAEP{pub: pub, priv: priv}}
}

func (e *envelopeEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	dataKey := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, dataKey); err != nil {
		return nil, err
	}
	data, err := XChaCha20(dataKey)
	if err != nil {
		return nil, err
	}
	sealedData, err := data.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	wrappedKey, err := e.master.Encrypt(dataKey)
	if err != nil {
		return nil, err
	}
	if len(wrappedKey) > 0xffff {
		return nil, fmt.Errorf("wrapped key of %d bytes exceeds maximum length", len(wrappedKey))
	}

	out := make([]byte, 2, 2+len(wrappedKey)+len(sealedData))
	binary.BigEndian.PutUint16(out, uint16(len(wrappedKey))) // #nosec G115 -- bounds checked above
	out = append(out, wrappedKey...)
	return append(out, sealedData...), nil
}

func (e *envelopeEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 2 {
		return nil, ErrCiphertextShort
	}
	keyLen := int(binary.BigEndian.Uint16(ciphertext))
	if len(ciphertext) < 2+keyLen {
		return nil, ErrCiphertextShort
	}

	dataKey, err := e.master.Decrypt(ciphertext[2 : 2+keyLen])
	if err != nil {
		return nil, fmt.Errorf("data key: %w", err)
	}
	data, err := XChaCha20(dataKey)
	if err != nil {
		return nil, fmt.Errorf("data key: %w", err)
	}
	return data.Decrypt(ciphertext[2+keyLen:])
}

// sealed wraps a transformer so its bytes are encrypted at rest and in transit.
type sealed struct {
	inner Transformer
	enc   Encryptor
}

// Sealed returns a transformer that encrypts the output of inner on Forward
// and decrypts before inner on Backward.
//
// Encryption is randomized, so the JSON form of a sealed value differs on
// every conversion even though the value round-trips.
func Sealed(inner Transformer, enc Encryptor) Transformer {
	return &sealed{inner: inner, enc: enc}
}

func (s *sealed) Forward(value any) ([]byte, error) {
	plaintext, err := s.inner.Forward(value)
	if err != nil {
		return nil, err
	}
	ciphertext, err := s.enc.Encrypt(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeal, err)
	}
	return ciphertext, nil
}

func (s *sealed) Backward(data []byte) (any, error) {
	plaintext, err := s.enc.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeal, err)
	}
	return s.inner.Backward(plaintext)
}
