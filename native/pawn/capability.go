package pawn

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AssetTransfer models the pool's stable-asset token. Calls are synchronous:
// they either complete before the ledger commits an operation or abort the
// whole operation.
type AssetTransfer interface {
	TransferIn(from common.Address, amount *big.Int) error
	TransferOut(to common.Address, amount *big.Int) error
	Allowance(owner, spender common.Address) *big.Int
}

// CollateralCustody models the NFT collateral contract. The pool holds
// custody of a pledged asset from loan origination until repayment.
type CollateralCustody interface {
	TakeCustody(owner common.Address, assetID *big.Int) error
	ReleaseCustody(to common.Address, assetID *big.Int) error
	OwnerOf(assetID *big.Int) (common.Address, error)
}
