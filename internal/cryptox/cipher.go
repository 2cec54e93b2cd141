// Package cryptox holds the server-side cryptographic primitives: reversible
// encryption of stored credential secrets and one-way hashing of account
// passwords.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/edupass/internal/common"
)

const (
	gcmNonceSize   = 12
	tokenSeparator = ":"
	keySize        = 32
)

// Cipher encrypts and decrypts credential secrets with a single process-wide
// key. Tokens have the form hex(iv) + ":" + hex(ciphertext).
//
// New tokens are sealed with AES-256-GCM (12-byte nonce, tag appended to the
// ciphertext). Tokens carrying a 16-byte IV are legacy AES-256-CBC values
// with PKCS#7 padding and remain readable.
type Cipher struct {
	key []byte
}

// DeriveKey turns a passphrase into the 32-byte AES key: the first 32
// characters of the base64 encoding of its SHA-256 digest.
func DeriveKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	encoded := base64.StdEncoding.EncodeToString(sum[:])
	return []byte(encoded[:keySize])
}

// NewCipher builds a Cipher keyed from passphrase.
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, errors.New("encryption key is empty")
	}
	return &Cipher{key: DeriveKey(passphrase)}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("init gcm: %w", err)
	}

	nonce, err := common.GenerateRandByteArray(gcm.NonceSize())
	if err != nil {
		return "", err
	}

	data := []byte(plaintext)
	defer common.WipeByteArray(data)

	sealed := gcm.Seal(nil, nonce, data, nil)
	return hex.EncodeToString(nonce) + tokenSeparator + hex.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt or by the legacy CBC scheme.
// Any malformed, truncated or tampered token yields common.ErrDecryption.
func (c *Cipher) Decrypt(token string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(token, tokenSeparator)
	if !ok {
		return "", fmt.Errorf("%w: missing separator", common.ErrDecryption)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad iv encoding", common.ErrDecryption)
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", common.ErrDecryption)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	switch len(iv) {
	case gcmNonceSize:
		return openGCM(block, iv, ct)
	case aes.BlockSize:
		return openCBC(block, iv, ct)
	default:
		return "", fmt.Errorf("%w: unexpected iv length %d", common.ErrDecryption, len(iv))
	}
}

func openGCM(block cipher.Block, nonce, ct []byte) (string, error) {
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", common.ErrDecryption)
	}
	return string(plain), nil
}

func openCBC(block cipher.Block, iv, ct []byte) (string, error) {
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a whole number of blocks", common.ErrDecryption)
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	unpadded, err := pkcs7Unpad(plain)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", common.ErrDecryption)
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, fmt.Errorf("%w: bad padding", common.ErrDecryption)
	}
	return b[:len(b)-n], nil
}
