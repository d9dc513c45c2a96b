package attrjson

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
)

var testKey = []byte("32-byte-key-for-aes-256-encrypt!")

func TestEncryptors_RoundTrip(t *testing.T) {
	aesEnc, err := AES(testKey)
	if err != nil {
		t.Fatalf("AES() error: %v", err)
	}
	xchacha, err := XChaCha20(testKey)
	if err != nil {
		t.Fatalf("XChaCha20() error: %v", err)
	}

	for name, enc := range map[string]Encryptor{"aes": aesEnc, "xchacha20": xchacha} {
		t.Run(name, func(t *testing.T) {
			plaintext := []byte("sensitive data")

			first, err := enc.Encrypt(plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			second, _ := enc.Encrypt(plaintext)
			if bytes.Equal(first, second) {
				t.Error("Encrypt() should use a fresh nonce each call")
			}

			decrypted, err := enc.Decrypt(first)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Errorf("Decrypt() = %q, want %q", decrypted, plaintext)
			}

			if _, err := enc.Decrypt([]byte("short")); !errors.Is(err, ErrCiphertextShort) {
				t.Errorf("Decrypt(short) error = %v, want ErrCiphertextShort", err)
			}
		})
	}
}

func TestEncryptors_KeySize(t *testing.T) {
	for _, size := range []int{0, 15, 33} {
		if _, err := AES(make([]byte, size)); !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("AES(%d bytes) error = %v, want ErrInvalidKeySize", size, err)
		}
	}
	for _, size := range []int{16, 24} {
		if _, err := AES(make([]byte, size)); err != nil {
			t.Errorf("AES(%d bytes) error: %v", size, err)
		}
	}
	if _, err := XChaCha20(make([]byte, 16)); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("XChaCha20(16 bytes) error = %v, want ErrInvalidKeySize", err)
	}
}

func TestSealed(t *testing.T) {
	enc, _ := XChaCha20(testKey)
	reg := NewRegistry()
	_ = reg.Register("secret", Sealed(upperTransformer(), enc))
	codec := NewCodec(WithRegistry(reg))
	attr := AttributeDescriptor{Name: "token", Type: TypeTransformable, Transformer: "secret"}

	j, err := codec.ToJSON(attr, Opaque("abc"))
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}
	s, _ := j.Text()
	raw, _ := DecodeBinary(s)
	if bytes.Contains(raw, []byte("ABC")) {
		t.Error("sealed payload should not contain plaintext")
	}

	v, err := codec.FromJSON(attr, j)
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	if !v.Equal(Opaque("abc")) {
		t.Errorf("FromJSON() = %v, want abc", v.Interface())
	}
}

func TestSealed_Tampered(t *testing.T) {
	enc, _ := AES(testKey)
	tr := Sealed(upperTransformer(), enc)

	data, err := tr.Forward("abc")
	if err != nil {
		t.Fatalf("Forward() error: %v", err)
	}
	data[len(data)-1] ^= 0xff

	if _, err := tr.Backward(data); !errors.Is(err, ErrSeal) {
		t.Errorf("Backward(tampered) error = %v, want ErrSeal", err)
	}
}

func TestSealed_InnerError(t *testing.T) {
	enc, _ := AES(testKey)
	tr := Sealed(upperTransformer(), enc)

	if _, err := tr.Forward(42); err == nil || errors.Is(err, ErrSeal) {
		t.Errorf("Forward(int) error = %v, want inner transformer error", err)
	}
}

func TestEnvelope_RoundTrip(t *testing.T) {
	enc, err := Envelope(testKey)
	if err != nil {
		t.Fatalf("Envelope() error: %v", err)
	}

	plaintext := bytes.Repeat([]byte("envelope "), 1000)
	first, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	second, _ := enc.Encrypt(plaintext)
	if bytes.Equal(first[:60], second[:60]) {
		t.Error("each Encrypt() should wrap a fresh data key")
	}

	decrypted, err := enc.Decrypt(first)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Error("Decrypt() did not restore the plaintext")
	}
}

func TestEnvelope_Invalid(t *testing.T) {
	if _, err := Envelope([]byte("short")); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("Envelope(short) error = %v, want ErrInvalidKeySize", err)
	}

	enc, _ := Envelope(testKey)
	for _, data := range [][]byte{nil, {0x00}, {0x00, 0x40, 0x01}} {
		if _, err := enc.Decrypt(data); !errors.Is(err, ErrCiphertextShort) {
			t.Errorf("Decrypt(%v) error = %v, want ErrCiphertextShort", data, err)
		}
	}

	other, _ := Envelope([]byte("another-32-byte-key-for-aes-256!"))
	sealed, _ := enc.Encrypt([]byte("secret"))
	if _, err := other.Decrypt(sealed); err == nil {
		t.Error("Decrypt() with a different master key should fail")
	}
}

func TestRSA_RoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	enc := RSA(&priv.PublicKey, priv)

	// Larger than a single RSA-OAEP block can hold.
	plaintext := bytes.Repeat([]byte{0xab}, 4096)
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Error("Decrypt() did not restore the plaintext")
	}

	encryptOnly := RSA(&priv.PublicKey, nil)
	sealed, err := encryptOnly.Encrypt([]byte("one way"))
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := encryptOnly.Decrypt(sealed); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Decrypt() without private key error = %v, want ErrMissingKey", err)
	}
	if _, err := RSA(nil, nil).Encrypt([]byte("x")); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Encrypt() without public key error = %v, want ErrMissingKey", err)
	}
}

func TestSealed_Envelope(t *testing.T) {
	enc, _ := Envelope(testKey)
	reg := NewRegistry()
	_ = reg.Register("secret", Sealed(upperTransformer(), enc))
	codec := NewCodec(WithRegistry(reg))
	attr := AttributeDescriptor{Name: "token", Type: TypeTransformable, Transformer: "secret"}

	j, err := codec.ToJSON(attr, Opaque("abc"))
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}
	v, err := codec.FromJSON(attr, j)
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	if !v.Equal(Opaque("abc")) {
		t.Errorf("FromJSON() = %v, want abc", v.Interface())
	}
}
