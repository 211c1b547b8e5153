package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// lightweight per-user credential store (file, 0600) with AES-GCM
// obfuscation. Not a replacement for OS keychains but avoids plain-text
// credentials on the warehouse machines.

// ErrNotFound means no credentials have been saved.
var ErrNotFound = errors.New("no stored credentials")

// Saved is the remembered login state.
type Saved struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccessToken string `json:"access_token"`
}

// Store reads and writes one credentials file. The path comes from
// configuration; the store holds no global state.
type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

// Save persists credentials, replacing any previous ones atomically.
func (s *Store) Save(c Saved) error {
	plain, err := json.Marshal(c)
	if err != nil {
		return err
	}
	ct, err := encrypt(plain)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(map[string]string{
		"credentials": base64.StdEncoding.EncodeToString(ct),
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load returns the remembered credentials. A corrupt file is removed
// and reported as not found, so a bad write never wedges the login
// flow.
func (s *Store) Load() (Saved, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Saved{}, ErrNotFound
		}
		return Saved{}, err
	}
	var file map[string]string
	if err := json.Unmarshal(data, &file); err != nil {
		_ = os.Remove(s.path)
		return Saved{}, ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(file["credentials"])
	if err != nil {
		_ = os.Remove(s.path)
		return Saved{}, ErrNotFound
	}
	plain, err := decrypt(raw)
	if err != nil {
		_ = os.Remove(s.path)
		return Saved{}, ErrNotFound
	}
	var c Saved
	if err := json.Unmarshal(plain, &c); err != nil {
		_ = os.Remove(s.path)
		return Saved{}, ErrNotFound
	}
	if c.Email == "" && c.Password == "" && c.AccessToken == "" {
		return Saved{}, ErrNotFound
	}
	return c, nil
}

// Delete removes the stored credentials, e.g. on logout.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func masterKey() []byte {
	user := os.Getenv("USER")
	base := fmt.Sprintf("cerebro-packing-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func encrypt(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
