package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONStrict 解析 JSON 字符串到結構體（禁止未知欄位）
func ParseJSONStrict(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, true)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

// DecodeJSON 使用統一設定解析 JSON
func DecodeJSON(r io.Reader, v interface{}) error {
	return decodeJSON(r, v, false)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號（修復 LLM 輸出的鬆散 JSON）
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// PyLiteralToJSON 將 Python 字面值（單引號字串的 dict/list）轉為合法 JSON
// 資料集的 ingredients 與 flavor_profile 欄位是 pandas 匯出的 repr 字串
func PyLiteralToJSON(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))

	const (
		outside = iota
		inSingle
		inDouble
	)
	state := outside

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch state {
		case outside:
			switch ch {
			case '\'':
				state = inSingle
				sb.WriteByte('"')
			case '"':
				state = inDouble
				sb.WriteByte('"')
			default:
				sb.WriteByte(ch)
			}
		case inSingle:
			switch ch {
			case '\\':
				// 跳脫的單引號轉回普通字元，其餘原樣保留
				if i+1 < len(raw) {
					next := raw[i+1]
					if next == '\'' {
						sb.WriteByte('\'')
					} else {
						sb.WriteByte('\\')
						sb.WriteByte(next)
					}
					i++
				}
			case '\'':
				state = outside
				sb.WriteByte('"')
			case '"':
				sb.WriteString(`\"`)
			default:
				sb.WriteByte(ch)
			}
		case inDouble:
			switch ch {
			case '\\':
				if i+1 < len(raw) {
					sb.WriteByte('\\')
					sb.WriteByte(raw[i+1])
					i++
				}
			case '"':
				state = outside
				sb.WriteByte('"')
			default:
				sb.WriteByte(ch)
			}
		}
	}

	out := sb.String()
	// Python 的 None/True/False
	out = strings.ReplaceAll(out, ": None", ": null")
	out = strings.ReplaceAll(out, ": True", ": true")
	out = strings.ReplaceAll(out, ": False", ": false")
	return out
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
