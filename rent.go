package ledger

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/ledger/errors"
)

const (
	// AccountStorageOverhead is the number of bytes every account is
	// charged for on top of its data.
	AccountStorageOverhead = 128

	// RentLen is the size of the serialized rent sysvar.
	RentLen = 8 + 8 + 1
)

// Rent declares the minimum balance an account must hold to stay on the
// ledger.
type Rent struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold"`
	BurnPercent         uint8   `json:"burn_percent"`
}

// DefaultRent returns the rent parameters used when genesis does not
// declare any.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2.0,
		BurnPercent:         50,
	}
}

func (r Rent) Validate() error {
	if r.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrModel, "lamports per byte year")
	}
	if r.ExemptionThreshold <= 0 || math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) {
		return errors.Wrap(errors.ErrModel, "exemption threshold")
	}
	if r.BurnPercent > 100 {
		return errors.Wrap(errors.ErrModel, "burn percent")
	}
	return nil
}

// MinimumBalance returns the lamports an account holding dataLen bytes must
// own to be exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(AccountStorageOverhead + dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt returns true if given balance is enough for an account holding
// dataLen bytes.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Marshal serializes the rent into
//   [lamports_per_byte_year:8 LE][exemption_threshold:f64 LE][burn_percent:1]
func (r Rent) Marshal() []byte {
	raw := make([]byte, RentLen)
	binary.LittleEndian.PutUint64(raw, r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:], math.Float64bits(r.ExemptionThreshold))
	raw[16] = r.BurnPercent
	return raw
}

// UnmarshalRent is the reverse of Rent.Marshal.
func UnmarshalRent(raw []byte) (Rent, error) {
	if len(raw) != RentLen {
		return Rent{}, errors.Wrapf(errors.ErrInvalidAccountData, "rent of %d bytes", len(raw))
	}
	return Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(raw),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(raw[8:])),
		BurnPercent:         raw[16],
	}, nil
}

// RentFromAccountInfo reads the rent from the sysvar account. An account
// that is not the rent sysvar is rejected with ErrInvalidArgument.
func RentFromAccountInfo(info *AccountInfo) (Rent, error) {
	if !info.Key.Equals(SysvarRentID) {
		return Rent{}, errors.Wrapf(errors.ErrInvalidArgument, "%s is not the rent sysvar", info.Key)
	}
	return UnmarshalRent(info.Data)
}
