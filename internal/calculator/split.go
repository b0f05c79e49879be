package calculator

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dutchpay/internal/models"
)

// strategy computes one owed amount per input, in input order.
type strategy func(total int64, inputs []models.ShareInput) ([]int64, error)

var strategies = map[models.SplitType]strategy{
	models.SplitEqual: func(total int64, inputs []models.ShareInput) ([]int64, error) {
		return EqualSplit(total, len(inputs)), nil
	},
	models.SplitAmount: AmountSplit,
	models.SplitRatio: func(total int64, inputs []models.ShareInput) ([]int64, error) {
		weights := make([]decimal.Decimal, len(inputs))
		for i, in := range inputs {
			weights[i] = in.Ratio
		}
		return RatioSplit(total, weights)
	},
}

// Split divides total among inputs using splitType.
// The returned amounts are in input order and always sum to total exactly.
func Split(total int64, splitType models.SplitType, inputs []models.ShareInput) ([]int64, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", models.ErrInvalidSplit)
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: total must be positive, got %d", models.ErrInvalidAmount, total)
	}

	calc, ok := strategies[splitType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown split type %q", models.ErrInvalidSplit, splitType)
	}

	shares, err := calc(total, inputs)
	if err != nil {
		return nil, err
	}

	var sum int64
	for _, s := range shares {
		sum += s
	}
	if len(shares) != len(inputs) || sum != total {
		return nil, fmt.Errorf("%w: shares sum to %d, want %d", models.ErrInvalidSplit, sum, total)
	}
	return shares, nil
}

// EqualSplit gives every participant total/n and hands the remainder out one
// unit at a time to the first participants in order.
// EqualSplit(100, 3) = [34, 33, 33].
func EqualSplit(total int64, n int) []int64 {
	base := total / int64(n)
	remainder := total - base*int64(n)

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// AmountSplit uses the explicit amounts of every input except the last; the
// last input absorbs whatever is left. Explicit amounts exceeding the total
// fail with ErrOverAllocated rather than being clamped.
func AmountSplit(total int64, inputs []models.ShareInput) ([]int64, error) {
	shares := make([]int64, len(inputs))
	last := len(inputs) - 1

	var allocated int64
	for i, in := range inputs[:last] {
		if in.Amount < 0 {
			return nil, fmt.Errorf("%w: participant %s has negative amount %d", models.ErrInvalidAmount, in.ParticipantID, in.Amount)
		}
		if in.Amount > total-allocated {
			return nil, fmt.Errorf("%w: participant %s brings explicit amounts to %d of total %d",
				models.ErrOverAllocated, in.ParticipantID, allocated+in.Amount, total)
		}
		allocated += in.Amount
		shares[i] = in.Amount
	}

	shares[last] = total - allocated
	return shares, nil
}

// RatioSplit divides total in proportion to weights using the largest-remainder
// method: every participant gets floor(total*w/sum(w)), then the leftover units
// go to the largest fractional remainders, earlier inputs winning ties.
// Arithmetic is exact; weights are rescaled to integers before dividing.
func RatioSplit(total int64, weights []decimal.Decimal) ([]int64, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", models.ErrInvalidSplit)
	}

	minExp := int32(0)
	for i, w := range weights {
		if w.IsNegative() {
			return nil, fmt.Errorf("%w: weight %d is negative (%s)", models.ErrInvalidSplit, i, w.String())
		}
		if i == 0 || w.Exponent() < minExp {
			minExp = w.Exponent()
		}
	}

	scaled := make([]*big.Int, len(weights))
	sum := new(big.Int)
	for i, w := range weights {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(w.Exponent()-minExp)), nil)
		scaled[i] = new(big.Int).Mul(w.Coefficient(), factor)
		sum.Add(sum, scaled[i])
	}
	if sum.Sign() == 0 {
		return nil, fmt.Errorf("%w: weights must not all be zero", models.ErrInvalidSplit)
	}

	bigTotal := big.NewInt(total)
	shares := make([]int64, len(weights))
	remainders := make([]*big.Int, len(weights))
	var assigned int64
	for i, w := range scaled {
		q, r := new(big.Int).QuoRem(new(big.Int).Mul(bigTotal, w), sum, new(big.Int))
		shares[i] = q.Int64()
		remainders[i] = r
		assigned += shares[i]
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].Cmp(remainders[order[b]]) > 0
	})

	for k := int64(0); k < total-assigned; k++ {
		shares[order[k]]++
	}
	return shares, nil
}
