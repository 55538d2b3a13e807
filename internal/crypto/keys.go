package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcec/v2"
)

// DefaultCurve is the curve used when callers do not name one.
const DefaultCurve = "secp256k1"

// CryptoError reports a failure to parse or produce key material. It is
// fatal for sign/keygen callers; Verify instead folds the same failures
// into a false result per the verify contract.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// KeyPair holds a generated private/public key pair in the standard
// ASCII key-envelope (PEM) format.
type KeyPair struct {
	PrivateKeyPEM []byte
	PublicKeyPEM  []byte
}

// secp256k1 has no stdlib OID support in crypto/x509 (it only recognizes
// the NIST curves), so the envelope is hand-built over encoding/asn1 and
// encoding/pem rather than reused from x509.Marshal{EC,PKIX}PublicKey.
var oidPublicKeyEC = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
var oidSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}

type ecPrivateKeyASN1 struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

type pkixAlgorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}

type pkixPublicKeyASN1 struct {
	Algorithm pkixAlgorithmIdentifier
	PublicKey asn1.BitString
}

var initialized atomic.Bool
var initOnce sync.Once

// Init brings up process-wide crypto state. It is idempotent and safe
// to call repeatedly; only the first call does any work.
func Init() error {
	initOnce.Do(func() {
		initialized.Store(true)
	})
	return nil
}

// Shutdown releases process-wide crypto resources. Best-effort; safe to
// call even if Init was never called.
func Shutdown() {
	initialized.Store(false)
}

func curveByName(name string) (elliptic.Curve, error) {
	switch name {
	case "", DefaultCurve:
		return btcec.S256(), nil
	default:
		return nil, fmt.Errorf("unsupported curve %q", name)
	}
}

// GenerateKeyPair creates a new EC keypair on the named curve and
// returns both halves in PEM envelopes. secp256k1 (also selected by an
// empty name) is the only supported curve; any other name returns a
// CryptoError.
func GenerateKeyPair(curveName string) (*KeyPair, error) {
	curve, err := curveByName(curveName)
	if err != nil {
		return nil, &CryptoError{Op: "generate_ec_keypair", Err: err}
	}

	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, &CryptoError{Op: "generate_ec_keypair", Err: err}
	}

	privPEM, err := marshalPrivateKeyPEM(priv)
	if err != nil {
		return nil, &CryptoError{Op: "generate_ec_keypair", Err: err}
	}
	pubPEM, err := marshalPublicKeyPEM(&priv.PublicKey)
	if err != nil {
		return nil, &CryptoError{Op: "generate_ec_keypair", Err: err}
	}

	return &KeyPair{PrivateKeyPEM: privPEM, PublicKeyPEM: pubPEM}, nil
}

func marshalPrivateKeyPEM(priv *ecdsa.PrivateKey) ([]byte, error) {
	pubBytes := elliptic.Marshal(priv.Curve, priv.X, priv.Y)
	privBytes := priv.D.FillBytes(make([]byte, (priv.Curve.Params().BitSize+7)/8))

	der, err := asn1.Marshal(ecPrivateKeyASN1{
		Version:       1,
		PrivateKey:    privBytes,
		NamedCurveOID: oidSecp256k1,
		PublicKey:     asn1.BitString{Bytes: pubBytes, BitLength: len(pubBytes) * 8},
	})
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

func marshalPublicKeyPEM(pub *ecdsa.PublicKey) ([]byte, error) {
	pubBytes := elliptic.Marshal(pub.Curve, pub.X, pub.Y)
	der, err := asn1.Marshal(pkixPublicKeyASN1{
		Algorithm: pkixAlgorithmIdentifier{
			Algorithm:  oidPublicKeyEC,
			Parameters: oidSecp256k1,
		},
		PublicKey: asn1.BitString{Bytes: pubBytes, BitLength: len(pubBytes) * 8},
	})
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

func parsePrivateKeyPEM(privPEM []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(privPEM)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	var parsed ecPrivateKeyASN1
	if _, err := asn1.Unmarshal(block.Bytes, &parsed); err != nil {
		return nil, err
	}
	curve := btcec.S256()
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = curve
	priv.D = new(big.Int).SetBytes(parsed.PrivateKey)
	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(parsed.PrivateKey)
	return priv, nil
}

func parsePublicKeyPEM(pubPEM []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(pubPEM)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	var parsed pkixPublicKeyASN1
	if _, err := asn1.Unmarshal(block.Bytes, &parsed); err != nil {
		return nil, err
	}
	curve := btcec.S256()
	x, y := elliptic.Unmarshal(curve, parsed.PublicKey.Bytes)
	if x == nil {
		return nil, fmt.Errorf("invalid public key point")
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// Sign produces a DER-encoded ECDSA signature over sha256(message) using
// the PEM-encoded private key. Key-parse failures are fatal here, per
// the sign/verify asymmetry in the error contract.
func Sign(privKeyPEM []byte, message []byte) ([]byte, error) {
	priv, err := parsePrivateKeyPEM(privKeyPEM)
	if err != nil {
		return nil, &CryptoError{Op: "sign_message", Err: err}
	}
	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, &CryptoError{Op: "sign_message", Err: err}
	}
	return sig, nil
}

// Verify reports whether signature is a valid DER-encoded ECDSA
// signature over sha256(message) under pubKeyPEM. Any parse or format
// failure yields false rather than propagating an error.
func Verify(pubKeyPEM []byte, message []byte, signature []byte) bool {
	pub, err := parsePublicKeyPEM(pubKeyPEM)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	return ecdsa.VerifyASN1(pub, digest[:], signature)
}
