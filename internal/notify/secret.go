package notify

import (
	"crypto/aes"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrDecryption marks secret decryption failures: a missing or wrong-size
// key, ciphertext that is not block-aligned, or invalid padding. A failed
// decryption aborts only the endpoint that needed the secret.
var ErrDecryption = errors.New("secret decryption failed")

// DecryptSecret reverses the encoding used to store the WeChat app secret:
// base64 over AES-ECB over PKCS-padded plaintext. The key must be 16, 24,
// or 32 bytes. Garbage output from a wrong key almost always surfaces as an
// invalid padding byte, so callers get an error rather than a junk secret.
func DecryptSecret(secretEnc string, key []byte) (string, error) {
	if len(key) == 0 {
		return "", fmt.Errorf("%w: no AES key configured", ErrDecryption)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(secretEnc)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrDecryption, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d not a multiple of the block size", ErrDecryption, len(ciphertext))
	}

	// ECB decrypt block by block; the mode has no IV or chaining.
	plain := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		block.Decrypt(plain[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}

	pad := int(plain[len(plain)-1])
	if pad < 1 || pad > aes.BlockSize {
		return "", fmt.Errorf("%w: invalid padding byte %d", ErrDecryption, pad)
	}
	return string(plain[:len(plain)-pad]), nil
}
