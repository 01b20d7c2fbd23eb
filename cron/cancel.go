package cron

import (
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

// CancelRequest is a built cancel-cron-item request, per spec §4.10: it
// carries a transaction statement (not a balance statement) referencing
// the original transaction number of the item being canceled.
type CancelRequest struct {
	CancelNumber notarytypes.TransactionNumber
	References   notarytypes.TransactionNumber
	NumbersUsed  []notarytypes.TransactionNumber
	Signature    []byte
}

// BuildCancelCronItem draws one fresh number for the cancel request itself
// and attaches a transaction statement referencing originalNum, the
// number of the live recurring item (market offer, payment plan, smart
// contract) being canceled.
func BuildCancelCronItem(
	mgr *numbers.Manager,
	nym *notarytypes.Nym,
	server notarytypes.ServerID,
	originalNum notarytypes.TransactionNumber,
	signer Signer,
) (*CancelRequest, error) {
	nums, err := mgr.DrawN(nym, server, 1, numbers.MarkSingleTransaction)
	if err != nil {
		return nil, err
	}

	req := &CancelRequest{
		CancelNumber: nums[0],
		References:   originalNum,
		NumbersUsed:  nums,
	}
	req.Signature = signer.Sign(cancelDigest(req))

	return req, nil
}

func cancelDigest(r *CancelRequest) []byte {
	var out []byte
	out = append(out, uint64ToBytes(uint64(r.CancelNumber))...)
	out = append(out, uint64ToBytes(uint64(r.References))...)

	return out
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}

	return b
}
