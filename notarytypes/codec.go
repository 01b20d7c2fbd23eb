package notarytypes

import (
	"bytes"
	"io"

	"github.com/decred/dcrd/wire"
)

// wireProtocolVersion is a fixed placeholder protocol version passed to
// wire's varint helpers; the notary wire format has no version
// negotiation of its own (out of scope, spec §1).
const wireProtocolVersion = 0

const maxTokenSize = 1 << 20

// EncodeLedgerRecord serializes a single Transaction using the varint/
// varbytes framing primitives the teacher's chain-sync code uses for its
// own wire records, reused here as a generic binary codec for notary box
// entries.
func EncodeLedgerRecord(tx *Transaction) ([]byte, error) {
	var buf bytes.Buffer

	if err := wire.WriteVarInt(&buf, wireProtocolVersion, uint64(tx.Number)); err != nil {
		return nil, err
	}
	if err := wire.WriteVarInt(&buf, wireProtocolVersion, uint64(tx.Type)); err != nil {
		return nil, err
	}
	if err := wire.WriteVarInt(&buf, wireProtocolVersion, uint64(tx.ReferenceToNum)); err != nil {
		return nil, err
	}
	if err := wire.WriteVarBytes(&buf, wireProtocolVersion, []byte(tx.ReferenceString)); err != nil {
		return nil, err
	}
	if err := wire.WriteVarBytes(&buf, wireProtocolVersion, tx.Hash); err != nil {
		return nil, err
	}

	abbrev := byte(0)
	if tx.Abbreviated {
		abbrev = 1
	}
	buf.WriteByte(abbrev)

	if !tx.Abbreviated {
		if err := wire.WriteVarBytes(&buf, wireProtocolVersion, tx.Full); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// DecodeLedgerRecord is the inverse of EncodeLedgerRecord.
func DecodeLedgerRecord(data []byte) (*Transaction, error) {
	r := bytes.NewReader(data)

	num, err := wire.ReadVarInt(r, wireProtocolVersion)
	if err != nil {
		return nil, err
	}
	typ, err := wire.ReadVarInt(r, wireProtocolVersion)
	if err != nil {
		return nil, err
	}
	ref, err := wire.ReadVarInt(r, wireProtocolVersion)
	if err != nil {
		return nil, err
	}
	refStr, err := wire.ReadVarBytes(r, wireProtocolVersion, maxTokenSize, "referenceString")
	if err != nil {
		return nil, err
	}
	hash, err := wire.ReadVarBytes(r, wireProtocolVersion, maxTokenSize, "hash")
	if err != nil {
		return nil, err
	}

	abbrevByte, err := readByte(r)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		Number:          TransactionNumber(num),
		Type:            TransactionType(typ),
		ReferenceToNum:  TransactionNumber(ref),
		ReferenceString: string(refStr),
		Hash:            hash,
		Abbreviated:     abbrevByte == 1,
	}

	if !tx.Abbreviated {
		full, err := wire.ReadVarBytes(r, wireProtocolVersion, maxTokenSize, "full")
		if err != nil {
			return nil, err
		}
		tx.Full = full
	}

	return tx, nil
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

// EncodeBasketPayload encodes an ordered list of SubAsset legs the way a
// basket exchange's composite Basket payload is framed on the wire.
func EncodeBasketPayload(legs []SubAsset) ([]byte, error) {
	var buf bytes.Buffer

	if err := wire.WriteVarInt(&buf, wireProtocolVersion, uint64(len(legs))); err != nil {
		return nil, err
	}

	for _, leg := range legs {
		if err := wire.WriteVarBytes(&buf, wireProtocolVersion, []byte(leg.Asset)); err != nil {
			return nil, err
		}
		if err := wire.WriteVarInt(&buf, wireProtocolVersion, uint64(leg.MinimumTransfer)); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// DecodeBasketPayload is the inverse of EncodeBasketPayload.
func DecodeBasketPayload(data []byte) ([]SubAsset, error) {
	r := bytes.NewReader(data)

	count, err := wire.ReadVarInt(r, wireProtocolVersion)
	if err != nil {
		return nil, err
	}

	legs := make([]SubAsset, 0, count)
	for i := uint64(0); i < count; i++ {
		asset, err := wire.ReadVarBytes(r, wireProtocolVersion, maxTokenSize, "asset")
		if err != nil {
			return nil, err
		}
		minTransfer, err := wire.ReadVarInt(r, wireProtocolVersion)
		if err != nil {
			return nil, err
		}

		legs = append(legs, SubAsset{
			Asset:           AssetID(asset),
			MinimumTransfer: int64(minTransfer),
		})
	}

	return legs, nil
}
