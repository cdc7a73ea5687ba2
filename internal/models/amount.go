package models

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

var ErrAmountNotNumeric = errors.New("amount is not a whole number")

// TalentAmount decodes a talent quantity from either a JSON number or a
// numeric string, since the form pages post amounts as strings.
type TalentAmount int64

func (a *TalentAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return ErrAmountNotNumeric
		}
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ErrAmountNotNumeric
	}
	*a = TalentAmount(v)
	return nil
}

func (a TalentAmount) Int64() int64 { return int64(a) }
