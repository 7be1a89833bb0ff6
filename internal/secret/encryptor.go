package secret

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordEnvVar holds the password used to decrypt ENC(...) values.
const PasswordEnvVar = "TASKCLIENT_ENCRYPTOR_PASSWORD"

const (
	encPrefix = "ENC("
	encSuffix = ")"

	saltSize   = 16
	keySize    = 32
	iterations = 1000
)

// ErrNoPassword is returned when an encrypted value is found but no
// encryptor password is configured.
var ErrNoPassword = errors.New("encrypted value found but " + PasswordEnvVar + " is not set")

// Encryptor encrypts and decrypts property values compatible with jasypt's
// PBEWITHHMACSHA512ANDAES_256 and a random IV generator. The payload is
// base64(salt || iv || ciphertext).
type Encryptor struct {
	password []byte
}

// NewEncryptor creates an Encryptor for the given password.
func NewEncryptor(password string) (*Encryptor, error) {
	if password == "" {
		return nil, ErrNoPassword
	}
	return &Encryptor{password: []byte(password)}, nil
}

// IsEncrypted reports whether value is wrapped as ENC(...).
func IsEncrypted(value string) bool {
	v := strings.TrimSpace(value)
	return strings.HasPrefix(v, encPrefix) && strings.HasSuffix(v, encSuffix)
}

// Wrap returns the ENC(...) form of an encrypted payload.
func Wrap(payload string) string {
	return encPrefix + payload + encSuffix
}

func unwrap(value string) string {
	v := strings.TrimSpace(value)
	return strings.TrimSuffix(strings.TrimPrefix(v, encPrefix), encSuffix)
}

// Encrypt encrypts plaintext and returns the base64 payload without the ENC() wrapper.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	block, err := aes.NewCipher(e.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	payload := make([]byte, 0, saltSize+aes.BlockSize+len(ciphertext))
	payload = append(payload, salt...)
	payload = append(payload, iv...)
	payload = append(payload, ciphertext...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt decrypts a payload, with or without the ENC() wrapper.
func (e *Encryptor) Decrypt(value string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(unwrap(value))
	if err != nil {
		return "", fmt.Errorf("encrypted value is not valid base64: %w", err)
	}

	if len(payload) < saltSize+2*aes.BlockSize || (len(payload)-saltSize)%aes.BlockSize != 0 {
		return "", errors.New("encrypted value has an invalid length")
	}

	salt := payload[:saltSize]
	iv := payload[saltSize : saltSize+aes.BlockSize]
	ciphertext := payload[saltSize+aes.BlockSize:]

	block, err := aes.NewCipher(e.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		// wrong password almost always ends up here
		return "", fmt.Errorf("failed to decrypt value: %w", err)
	}
	return string(unpadded), nil
}

func (e *Encryptor) deriveKey(salt []byte) []byte {
	return pbkdf2.Key(e.password, salt, iterations, keySize, sha512.New)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padding")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
