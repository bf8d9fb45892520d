package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type flexKind int

const (
	flexAbsent flexKind = iota
	flexNull
	flexNumber
	flexString
)

// FlexInt holds delivery_time_days as it arrives from extraction: a JSON
// number, a quoted string, an explicit null, or an absent key. Gap rules
// need to tell these states apart, so the zero value means "key absent".
type FlexInt struct {
	kind flexKind
	num  float64
	str  string
}

func FlexFromInt(n int) FlexInt {
	return FlexInt{kind: flexNumber, num: float64(n)}
}

func FlexFromString(s string) FlexInt {
	return FlexInt{kind: flexString, str: s}
}

// Defined reports whether the key was present at all, null included.
func (f FlexInt) Defined() bool { return f.kind != flexAbsent }

// IsZero reports whether the value is empty in the permissive sense used by
// the presence check: absent, null, numeric zero, or empty string. A
// non-empty string like "0" counts as present.
func (f FlexInt) IsZero() bool {
	switch f.kind {
	case flexNumber:
		return f.num == 0
	case flexString:
		return f.str == ""
	default:
		return true
	}
}

// Int coerces the value to an integer. Numbers truncate toward zero;
// strings must parse as a base-10 integer. Null and absent values do not
// coerce.
func (f FlexInt) Int() (int, error) {
	switch f.kind {
	case flexNumber:
		return int(f.num), nil
	case flexString:
		return strconv.Atoi(strings.TrimSpace(f.str))
	default:
		return 0, strconv.ErrSyntax
	}
}

func (f FlexInt) String() string {
	switch f.kind {
	case flexNumber:
		if f.num == float64(int64(f.num)) {
			return strconv.FormatInt(int64(f.num), 10)
		}
		return strconv.FormatFloat(f.num, 'f', -1, 64)
	case flexString:
		return f.str
	default:
		return ""
	}
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		f.kind = flexNull
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.kind = flexString
		f.str = s
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	f.kind = flexNumber
	f.num = n
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case flexNumber:
		return []byte(f.String()), nil
	case flexString:
		return json.Marshal(f.str)
	default:
		return []byte("null"), nil
	}
}
