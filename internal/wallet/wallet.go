package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/sirupsen/logrus"

	"github.com/b0ase/ckb-s3/internal/db"
	"github.com/b0ase/ckb-s3/internal/logging"
)

// Preference location of the private key.
const (
	PrefsNamespace = "ckb-wallet"
	PrefsKey       = "privkey"
)

var (
	ErrNoKey      = errors.New("no wallet key stored")
	ErrInvalidKey = errors.New("invalid wallet key")
	// ErrSigningUnsupported is returned by the signer: transaction
	// construction and signing are not implemented on this device.
	ErrSigningUnsupported = errors.New("transaction signing not supported")
)

var log = logging.For("wallet")

// Key holds a secp256k1 private key. It is never serialized, logged or
// sent anywhere; String is redacted.
type Key struct {
	priv      *ec.PrivateKey
	PublicKey []byte // 33-byte compressed public key
}

// ParseKey validates a 64-character hex private key.
func ParseKey(hexKey string) (*Key, error) {
	if len(hexKey) != 64 {
		return nil, fmt.Errorf("%w: want 64 hex characters, got %d", ErrInvalidKey, len(hexKey))
	}
	if _, err := hex.DecodeString(hexKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	priv, err := ec.PrivateKeyFromHex(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Key{priv: priv, PublicKey: priv.PubKey().Compressed()}, nil
}

// Generate creates a random key and returns it with its hex encoding,
// which is what the preference store holds.
func Generate() (*Key, string, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, "", fmt.Errorf("generate key: %w", err)
	}
	return &Key{priv: priv, PublicKey: priv.PubKey().Compressed()}, hex.EncodeToString(priv.Serialize()), nil
}

func (k *Key) PublicKeyHex() string { return hex.EncodeToString(k.PublicKey) }

func (k *Key) String() string {
	return "Key(pub=" + k.PublicKeyHex() + ", priv=REDACTED)"
}

// Load reads and validates the stored key. A missing key is ErrNoKey.
func Load() (*Key, error) {
	v, err := db.GetPref(PrefsNamespace, PrefsKey)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	if v == "" {
		return nil, ErrNoKey
	}
	k, err := ParseKey(v)
	if err != nil {
		return nil, err
	}
	log.WithField("pub", k.PublicKeyHex()).Info("key loaded")
	return k, nil
}

// Store validates hexKey and persists it.
func Store(hexKey string) (*Key, error) {
	k, err := ParseKey(hexKey)
	if err != nil {
		return nil, err
	}
	if err := db.SetPref(PrefsNamespace, PrefsKey, hexKey); err != nil {
		return nil, fmt.Errorf("persist key: %w", err)
	}
	return k, nil
}

// Clear removes the stored key.
func Clear() error {
	return db.DeletePref(PrefsNamespace, PrefsKey)
}

// Signer is the send-flow backend. It holds the key but cannot yet build
// transactions, so every send fails with ErrSigningUnsupported.
type Signer struct {
	key *Key
}

func NewSigner(k *Key) *Signer { return &Signer{key: k} }

func (s *Signer) SignAndSend(recipient string, amountCKB float64) (string, error) {
	if s.key == nil {
		return "", ErrNoKey
	}
	log.WithFields(logrus.Fields{"to": recipient, "ckb": amountCKB}).Warn("send requested")
	return "", ErrSigningUnsupported
}
