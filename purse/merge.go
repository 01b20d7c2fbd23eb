package purse

import (
	"fmt"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
)

// Signer produces a signature over the final re-sealed purse state,
// standing in for "signer" in spec §4.6's merge contract (typically the
// server Nym, since server-facing purses are re-signed after a merge).
type Signer interface {
	Sign(digest []byte) []byte
}

// Merge implements spec §4.6: both owners must successfully open their
// respective tokens; the server/asset pair must match between purses;
// every token from newPurse is re-sealed under oldOwner's destination and
// appended to oldPurse. signer signs a digest of the merged purse, but the
// signature is not stored: CashPurse has no field for it. Any failure
// leaves oldPurse unmodified and returns a nil purse with the error.
func Merge(signer Signer, oldOwner, newOwner Owner, oldPurse, newPurse *notarytypes.CashPurse) (*notarytypes.CashPurse, error) {
	if oldPurse.Server != newPurse.Server || oldPurse.Asset != newPurse.Asset {
		return nil, notaryerr.ErrInvalidInput
	}

	for _, tok := range oldPurse.Tokens {
		if _, err := oldOwner.Open(tok); err != nil {
			return nil, fmt.Errorf("opening destination token: %w", err)
		}
	}

	staged := make([]notarytypes.Token, 0, len(newPurse.Tokens))

	for _, tok := range newPurse.Tokens {
		opened, err := newOwner.Open(tok)
		if err != nil {
			return nil, fmt.Errorf("opening source token: %w", err)
		}

		resealed, err := oldOwner.Seal(opened)
		if err != nil {
			return nil, fmt.Errorf("resealing under destination owner: %w", err)
		}

		staged = append(staged, resealed)
	}

	// Only now that every token has re-sealed cleanly do we mutate
	// oldPurse; a failure above leaves it untouched.
	oldPurse.Tokens = append(oldPurse.Tokens, staged...)

	digest := purseDigest(oldPurse)
	_ = signer.Sign(digest)

	return oldPurse, nil
}

// Reassign is the purse-free variant for transferring a single token
// between owners (e.g. depositing cash re-seals each token from "me" to
// the server's Nym), per spec §4.6.
func Reassign(oldOwner, newOwner Owner, tok notarytypes.Token) (notarytypes.Token, error) {
	opened, err := oldOwner.Open(tok)
	if err != nil {
		return nil, fmt.Errorf("opening token under current owner: %w", err)
	}

	resealed, err := newOwner.Seal(opened)
	if err != nil {
		return nil, fmt.Errorf("sealing token under new owner: %w", err)
	}

	return resealed, nil
}

func purseDigest(p *notarytypes.CashPurse) []byte {
	var out []byte
	out = append(out, []byte(p.Server)...)
	out = append(out, []byte(p.Asset)...)
	for _, tok := range p.Tokens {
		out = append(out, tok...)
	}

	return out
}
