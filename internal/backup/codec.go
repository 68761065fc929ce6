package backup

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/insuite-dev/insuite/internal/shared"
)

// Backup files are MAGIC ‖ IV ‖ AES-256-GCM ciphertext. The key is derived
// from a fixed passphrase; the format gates file identification, not secrecy.
const (
	magic       = "INSUITE_BACKUP_V1"
	ivSize      = 12
	keySize     = 32
	pbkdfIters  = 100000
	passphrase  = "insuite-backup-encryption-key"
	keySaltSeed = "insuite-backup-salt"
)

func deriveKey() []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(keySaltSeed), pbkdfIters, keySize, sha256.New)
}

// Encrypt seals the plaintext into the backup wire format with a fresh IV.
func Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(magic)+ivSize+len(plaintext)+gcm.Overhead())
	out = append(out, magic...)
	out = append(out, iv...)
	return gcm.Seal(out, iv, plaintext, nil), nil
}

// Decrypt validates the magic header and opens the ciphertext. A missing or
// wrong header is ErrInvalidFormat; an authentication failure is ErrDecryption.
func Decrypt(data []byte) ([]byte, error) {
	if len(data) < len(magic)+ivSize {
		return nil, fmt.Errorf("%w: file too short", shared.ErrInvalidFormat)
	}
	if !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return nil, fmt.Errorf("%w: magic header mismatch", shared.ErrInvalidFormat)
	}
	block, err := aes.NewCipher(deriveKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	iv := data[len(magic) : len(magic)+ivSize]
	plaintext, err := gcm.Open(nil, iv, data[len(magic)+ivSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecryption, err)
	}
	return plaintext, nil
}
