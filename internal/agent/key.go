package agent

import (
	"crypto/rand"
	"fmt"
)

// keyAlphabet matches the character set agents already expect in their
// stored keys.
const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateKey creates a random API key of the form "mk_" followed by
// 32 alphanumeric characters.
func GenerateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("agent: generate key: %w", err)
	}
	key := make([]byte, 0, 35)
	key = append(key, "mk_"...)
	for _, v := range b {
		key = append(key, keyAlphabet[int(v)%len(keyAlphabet)])
	}
	return string(key), nil
}
