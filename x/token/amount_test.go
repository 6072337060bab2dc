package token

import (
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIAmount(t *testing.T) {
	assert.Equal(t, "5", UIAmount(500, 2).String())
	assert.Equal(t, "0.001", UIAmount(1, 3).String())
	assert.Equal(t, "18446744073709551615", UIAmount(^uint64(0), 0).String())
}

func TestParseUIAmount(t *testing.T) {
	cases := map[string]struct {
		input    string
		decimals uint8
		want     uint64
		wantErr  *errors.Error
	}{
		"integer":        {input: "5", decimals: 2, want: 500},
		"fraction":       {input: "0.25", decimals: 2, want: 25},
		"too precise":    {input: "0.001", decimals: 2, wantErr: errors.ErrInput},
		"negative":       {input: "-1", decimals: 0, wantErr: errors.ErrInput},
		"not a number":   {input: "five", decimals: 0, wantErr: errors.ErrInput},
		"too big":        {input: "18446744073709551616", decimals: 0, wantErr: errors.ErrOverflow},
		"max":            {input: "18446744073709551615", decimals: 0, want: ^uint64(0)},
		"trailing zeros": {input: "1.500", decimals: 1, want: 15},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseUIAmount(tc.input, tc.decimals)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
