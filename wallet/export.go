package wallet

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"

	"github.com/notaryclient/notaryclient/keyring"
	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
)

// exportHeader/exportFooter bracket the armored blob per spec §6's
// "EXPORTED NYM" format, the same BEGIN/END bracketing convention the
// teacher's contract/signature armoring uses for other signed blobs.
const (
	exportHeader = "-----BEGIN EXPORTED NYM-----"
	exportFooter = "-----END EXPORTED NYM-----"

	exportLineWidth = 64
)

// keyFile is the decoded form of the "nymfile" field: the Nym's private
// signing key, encrypted with AES-GCM under a passphrase-derived key.
// This is the legacy non-credential cert/key path (spec §6); the wallet
// models no separate credential set, so credlist/credentials are always
// omitted from exportedBody.
type keyFile struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// exportedBody is the decoded key-value map spec §6 describes: {id,
// name, nymfile, credlist?, credentials?, certfile?}. Only nymfile is
// populated; the optional credential fields have no backing model here.
type exportedBody struct {
	ID      notarytypes.NymID
	Name    string
	NymFile keyFile
}

// ExportNym produces the armored "EXPORTED NYM" string for nym, encrypting
// its private key under passphrase. The caller is expected to have
// prompted for passphrase directly; ExportNym never touches the wallet's
// own master key, so the exported blob can be decrypted independently of
// this wallet (spec §6).
func ExportNym(nym *notarytypes.Nym, passphrase []byte) (string, error) {
	if nym == nil || nym.PrivateKey == nil {
		return "", fmt.Errorf("nym has no private key to export: %w", notaryerr.ErrInvalidInput)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating export salt: %w", err)
	}

	key, err := keyring.DeriveKey(passphrase, salt)
	if err != nil {
		return "", fmt.Errorf("deriving export key: %w", err)
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", fmt.Errorf("building export cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("building export AEAD: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating export nonce: %w", err)
	}

	plaintext := nym.PrivateKey.Serialize()
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	body := exportedBody{
		ID:   nym.ID,
		Name: nym.Name,
		NymFile: keyFile{
			Salt:       salt,
			Nonce:      nonce,
			Ciphertext: ciphertext,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling exported nym body: %w", err)
	}

	return armor(data), nil
}

// ImportNym is the inverse of ExportNym: it decodes an armored "EXPORTED
// NYM" string, decrypts the nymfile under passphrase, and returns a Nym
// ready to be re-encrypted under the caller's wallet master key and
// inserted. Every field must decrypt cleanly under a single passphrase
// prompt, or ImportNym fails with notaryerr.ErrUnauthorized (spec §6).
func ImportNym(armored string, passphrase []byte) (*notarytypes.Nym, error) {
	data, err := dearmor(armored)
	if err != nil {
		return nil, err
	}

	var body exportedBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("malformed exported nym body: %w: %v", notaryerr.ErrInvalidInput, err)
	}

	key, err := keyring.DeriveKey(passphrase, body.NymFile.Salt)
	if err != nil {
		return nil, fmt.Errorf("deriving import key: %w", err)
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("building import cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("building import AEAD: %w", err)
	}

	plaintext, err := gcm.Open(nil, body.NymFile.Nonce, body.NymFile.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("exported nym did not decrypt under the supplied passphrase: %w", notaryerr.ErrUnauthorized)
	}

	priv := secp256k1.PrivKeyFromBytes(plaintext)

	nym := notarytypes.NewNym(body.Name, priv)
	if nym.ID != body.ID {
		return nil, fmt.Errorf("exported nym id does not match its decrypted key material: %w", notaryerr.ErrInvalidInput)
	}

	return nym, nil
}

// armor base64-encodes data and wraps it in fixed-width lines between the
// BEGIN/END markers, matching the armored-blob convention spec §6 uses
// throughout (wire envelopes, signed contracts).
func armor(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)

	var buf bytes.Buffer
	buf.WriteString(exportHeader)
	buf.WriteByte('\n')

	for i := 0; i < len(encoded); i += exportLineWidth {
		end := i + exportLineWidth
		if end > len(encoded) {
			end = len(encoded)
		}
		buf.WriteString(encoded[i:end])
		buf.WriteByte('\n')
	}

	buf.WriteString(exportFooter)
	buf.WriteByte('\n')

	return buf.String()
}

// dearmor is the inverse of armor.
func dearmor(armored string) ([]byte, error) {
	trimmed := strings.TrimSpace(armored)

	if !strings.HasPrefix(trimmed, exportHeader) || !strings.HasSuffix(trimmed, exportFooter) {
		return nil, fmt.Errorf("not an EXPORTED NYM block: %w", notaryerr.ErrInvalidInput)
	}

	body := strings.TrimSuffix(strings.TrimPrefix(trimmed, exportHeader), exportFooter)
	body = strings.ReplaceAll(body, "\n", "")
	body = strings.TrimSpace(body)

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("malformed EXPORTED NYM armor: %w: %v", notaryerr.ErrInvalidInput, err)
	}

	return data, nil
}
