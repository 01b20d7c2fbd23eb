package notarytypes

import (
	"encoding/json"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
)

type serverContractJSON struct {
	ID        ServerID
	Endpoints []Endpoint
	PublicKey []byte
	Signature []byte
}

// MarshalJSON serializes the public key as its compressed byte form, since
// *secp256k1.PublicKey has no exported fields for encoding/json to walk.
func (c *ServerContract) MarshalJSON() ([]byte, error) {
	aux := serverContractJSON{
		ID:        c.ID,
		Endpoints: c.Endpoints,
		Signature: c.Signature,
	}
	if c.PublicKey != nil {
		aux.PublicKey = c.PublicKey.SerializeCompressed()
	}

	return json.Marshal(aux)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *ServerContract) UnmarshalJSON(data []byte) error {
	var aux serverContractJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.ID = aux.ID
	c.Endpoints = aux.Endpoints
	c.Signature = aux.Signature

	if len(aux.PublicKey) > 0 {
		pub, err := secp256k1.ParsePubKey(aux.PublicKey)
		if err != nil {
			return err
		}
		c.PublicKey = pub
	}

	return nil
}
